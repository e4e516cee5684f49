package cli

import (
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/Hanteus/ProjectArena/pkg/pipeline"
)

func TestRootCommand(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()

	if root.Use != appName {
		t.Errorf("root.Use = %q, want %q", root.Use, appName)
	}

	want := []string{"populate", "analyze", "graph", "menu", "serve", "cache", "completion"}
	registered := map[string]bool{}
	for _, sub := range root.Commands() {
		registered[sub.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestSetLogLevel(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	c.SetLogLevel(log.DebugLevel)

	if got := c.Logger.GetLevel(); got != log.DebugLevel {
		t.Errorf("level = %v, want %v", got, log.DebugLevel)
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single", "svg", []string{"svg"}},
		{"multiple", "svg,png,dot", []string{"svg", "png", "dot"}},
		{"spaces trimmed", "rooms, tiles , outline", []string{"rooms", "tiles", "outline"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitList(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitList(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loadout.toml")
	doc := "[resources.ammo]\ncount = 8\n"
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("write profile: %v", err)
	}

	var opts pipeline.Options
	if err := loadProfile(&opts, path); err != nil {
		t.Fatalf("loadProfile() error: %v", err)
	}
	if opts.Profile != doc {
		t.Errorf("Profile = %q, want %q", opts.Profile, doc)
	}
}

func TestLoadProfileEmptyPath(t *testing.T) {
	var opts pipeline.Options
	if err := loadProfile(&opts, ""); err != nil {
		t.Fatalf("loadProfile(\"\") error: %v", err)
	}
	if opts.Profile != "" {
		t.Errorf("Profile = %q, want empty", opts.Profile)
	}
}

func TestLoadProfileMissingFile(t *testing.T) {
	var opts pipeline.Options
	if err := loadProfile(&opts, filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("loadProfile() should fail for a missing file")
	}
}
