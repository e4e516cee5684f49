package pipeline

import (
	"bytes"
	"context"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/Hanteus/ProjectArena/pkg/arena"
	"github.com/Hanteus/ProjectArena/pkg/cache"
	errs "github.com/Hanteus/ProjectArena/pkg/errors"
	"github.com/Hanteus/ProjectArena/pkg/graph"
	"github.com/Hanteus/ProjectArena/pkg/mapio"
	"github.com/Hanteus/ProjectArena/pkg/placement"
)

// Fixture level: two 4x4 squares joined by a corridor that crosses the
// wall band in the top row. The genome decodes to exactly three rooms
// that neither merge (mismatched extents) nor contain one another, so
// the reduced room list is stable across runs.
const (
	testGenome = "<0,0,4><0,8,4>|<1,3,-6>"
	testGrid   = "rrrrwwwwrrrr\n" +
		"rrrrrrrrrrrr\n" +
		"rrrrrrrrrrrr\n" +
		"rrrrrrrrrrrr\n"
)

// Ring level: four 6x6 corner squares joined into a ring by four 3-wide
// corridors. Every area touches exactly two others, so the degree bands
// fit every room equally and the default recipe's thirteen objects spread
// around the ring without tile collisions.
const (
	ringGenome = "<0,0,6><0,14,6><14,0,6><14,14,6>|<1,5,-10><15,5,-10><5,1,10><5,15,10>"
	ringGrid   = "rrrrrrwwwwwwwwrrrrrr\n" +
		"rrrrrrrrrrrrrrrrrrrr\n" +
		"rrrrrrrrrrrrrrrrrrrr\n" +
		"rrrrrrrrrrrrrrrrrrrr\n" +
		"rrrrrrwwwwwwwwrrrrrr\n" +
		"rrrrrrwwwwwwwwrrrrrr\n" +
		"wrrrwwwwwwwwwwwrrrww\n" +
		"wrrrwwwwwwwwwwwrrrww\n" +
		"wrrrwwwwwwwwwwwrrrww\n" +
		"wrrrwwwwwwwwwwwrrrww\n" +
		"wrrrwwwwwwwwwwwrrrww\n" +
		"wrrrwwwwwwwwwwwrrrww\n" +
		"wrrrwwwwwwwwwwwrrrww\n" +
		"wrrrwwwwwwwwwwwrrrww\n" +
		"rrrrrrwwwwwwwwrrrrrr\n" +
		"rrrrrrrrrrrrrrrrrrrr\n" +
		"rrrrrrrrrrrrrrrrrrrr\n" +
		"rrrrrrrrrrrrrrrrrrrr\n" +
		"rrrrrrwwwwwwwwrrrrrr\n" +
		"rrrrrrwwwwwwwwrrrrrr\n"
)

func inlineOptions() Options {
	return Options{Grid: testGrid, Genome: testGenome}
}

func ringOptions() Options {
	return Options{Grid: ringGrid, Genome: ringGenome}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"json", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errs.Is(err, errs.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %v, want %v", tt.format, errs.GetCode(err), errs.ErrCodeInvalidFormat)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"dot", "svg", "png", "json"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "pdf"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateView(t *testing.T) {
	for _, view := range graph.Views {
		if err := ValidateView(view); err != nil {
			t.Errorf("ValidateView(%q) error = %v", view, err)
		}
	}

	err := ValidateView("heatmap")
	if err == nil {
		t.Fatal("Unknown view should fail")
	}
	if !errs.Is(err, errs.ErrCodeInvalidView) {
		t.Errorf("ValidateView(heatmap) code = %v, want %v", errs.GetCode(err), errs.ErrCodeInvalidView)
	}
}

func TestValidateViews(t *testing.T) {
	if err := ValidateViews([]string{graph.ViewRooms, graph.ViewOutline}); err != nil {
		t.Errorf("Valid views should pass: %v", err)
	}

	if err := ValidateViews([]string{graph.ViewRooms, "heatmap"}); err == nil {
		t.Error("Invalid view should fail")
	}
}

func TestOptionsValidateForLoad(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"nothing set", Options{}, true},
		{"inline grid without genome", Options{Grid: testGrid}, true},
		{"inline genome without grid", Options{Genome: testGenome}, true},
		{"inline pair", Options{Grid: testGrid, Genome: testGenome}, false},
		{"map name only", Options{MapName: "arena1"}, false},
		{"map name with traversal", Options{MapName: "../etc/passwd"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForLoad()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateForLoad() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errs.Is(err, errs.ErrCodeInvalidInput) {
				t.Errorf("ValidateForLoad() code = %v, want %v", errs.GetCode(err), errs.ErrCodeInvalidInput)
			}
		})
	}
}

func TestOptionsValidateForLoadDefaults(t *testing.T) {
	inline := inlineOptions()
	if err := inline.ValidateForLoad(); err != nil {
		t.Fatalf("ValidateForLoad() error = %v", err)
	}
	if inline.MapName != DefaultMapName {
		t.Errorf("inline MapName = %q, want %q", inline.MapName, DefaultMapName)
	}
	if inline.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	disk := Options{MapName: "arena1"}
	if err := disk.ValidateForLoad(); err != nil {
		t.Fatalf("ValidateForLoad() error = %v", err)
	}
	if disk.InputDir != mapio.DefaultInputDir {
		t.Errorf("disk InputDir = %q, want %q", disk.InputDir, mapio.DefaultInputDir)
	}
}

func TestOptionsValidateForAnalyze(t *testing.T) {
	opts := inlineOptions()
	if err := opts.ValidateForAnalyze(); err != nil {
		t.Fatalf("ValidateForAnalyze() error = %v", err)
	}
	if !slices.Equal(opts.Views, graph.Views) {
		t.Errorf("Views = %v, want every view %v", opts.Views, graph.Views)
	}

	bad := Options{Views: []string{"heatmap"}}
	if err := bad.ValidateForAnalyze(); !errs.Is(err, errs.ErrCodeInvalidView) {
		t.Errorf("ValidateForAnalyze(heatmap) error = %v, want code %v", err, errs.ErrCodeInvalidView)
	}
}

func TestOptionsValidateForPopulate(t *testing.T) {
	t.Run("default recipe", func(t *testing.T) {
		opts := Options{}
		if err := opts.ValidateForPopulate(); err != nil {
			t.Fatalf("ValidateForPopulate() error = %v", err)
		}
		if opts.Recipe == nil {
			t.Fatal("Recipe should be resolved")
		}
		if opts.Recipe.Spawn.Count != 5 || opts.Recipe.Medkit.Count != 4 || opts.Recipe.Ammo.Count != 4 {
			t.Errorf("Recipe counts = %d/%d/%d, want 5/4/4",
				opts.Recipe.Spawn.Count, opts.Recipe.Medkit.Count, opts.Recipe.Ammo.Count)
		}
	})

	t.Run("profile overrides default", func(t *testing.T) {
		opts := Options{Profile: "[resources.ammo]\ncount = 8\n"}
		if err := opts.ValidateForPopulate(); err != nil {
			t.Fatalf("ValidateForPopulate() error = %v", err)
		}
		if opts.Recipe.Ammo.Count != 8 {
			t.Errorf("Ammo.Count = %d, want 8", opts.Recipe.Ammo.Count)
		}
		if opts.Recipe.Spawn.Count != 5 {
			t.Errorf("Spawn.Count = %d, want default 5", opts.Recipe.Spawn.Count)
		}
	})

	t.Run("unknown profile key", func(t *testing.T) {
		opts := Options{Profile: "[resources.ammo]\ncnt = 8\n"}
		if err := opts.ValidateForPopulate(); !errs.Is(err, errs.ErrCodeInvalidRecipe) {
			t.Errorf("error = %v, want code %v", err, errs.ErrCodeInvalidRecipe)
		}
	})

	t.Run("explicit recipe wins over profile", func(t *testing.T) {
		recipe := placement.DefaultRecipe()
		recipe.Spawn.Count = 2
		opts := Options{Recipe: &recipe, Profile: "[resources.ammo]\ncount = 8\n"}
		if err := opts.ValidateForPopulate(); err != nil {
			t.Fatalf("ValidateForPopulate() error = %v", err)
		}
		if opts.Recipe.Spawn.Count != 2 {
			t.Errorf("Spawn.Count = %d, want 2", opts.Recipe.Spawn.Count)
		}
		if opts.Recipe.Ammo.Count != 4 {
			t.Errorf("Ammo.Count = %d, profile should be ignored", opts.Recipe.Ammo.Count)
		}
	})

	t.Run("invalid explicit recipe", func(t *testing.T) {
		recipe := placement.DefaultRecipe()
		recipe.Spawn.Symbol = arena.Wall
		opts := Options{Recipe: &recipe}
		if err := opts.ValidateForPopulate(); !errs.Is(err, errs.ErrCodeInvalidRecipe) {
			t.Errorf("error = %v, want code %v", err, errs.ErrCodeInvalidRecipe)
		}
	})
}

func TestOptionsValidateForRenderDefaults(t *testing.T) {
	opts := inlineOptions()
	if err := opts.ValidateForRender(); err != nil {
		t.Fatalf("ValidateForRender() error = %v", err)
	}
	if !slices.Equal(opts.Formats, []string{FormatSVG}) {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}

	bad := inlineOptions()
	bad.Formats = []string{"pdf"}
	if err := bad.ValidateForRender(); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("ValidateForRender(pdf) error = %v, want code %v", err, errs.ErrCodeInvalidFormat)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := inlineOptions()
	opts.Populate = true
	opts.Formats = []string{"dot"}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("first ValidateAndSetDefaults() error = %v", err)
	}
	views := slices.Clone(opts.Views)
	recipe := opts.Recipe

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second ValidateAndSetDefaults() error = %v", err)
	}
	if !slices.Equal(opts.Views, views) {
		t.Errorf("Views changed on second call: %v != %v", opts.Views, views)
	}
	if opts.Recipe != recipe {
		t.Error("Recipe was re-resolved on second call")
	}
}

func TestOptionsInline(t *testing.T) {
	opts := inlineOptions()
	if !opts.Inline() {
		t.Error("options with an inline grid should report Inline")
	}
	disk := Options{MapName: "arena1"}
	if disk.Inline() {
		t.Error("options with a map name should not report Inline")
	}
}

func TestArtifactName(t *testing.T) {
	if got := ArtifactName(graph.ViewRooms, FormatSVG); got != "rooms.svg" {
		t.Errorf("ArtifactName = %q, want %q", got, "rooms.svg")
	}
}

func TestLoadReduce(t *testing.T) {
	level, err := Load(context.Background(), inlineOptions())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if level.Name != DefaultMapName {
		t.Errorf("Name = %q, want %q", level.Name, DefaultMapName)
	}
	if level.Grid.Rows() != 4 || level.Grid.Cols() != 12 {
		t.Fatalf("grid = %dx%d, want 4x12", level.Grid.Rows(), level.Grid.Cols())
	}

	rooms, err := Reduce(level)
	if err != nil {
		t.Fatalf("Reduce() error = %v", err)
	}
	want := []arena.Room{
		{OriginX: 0, OriginY: 0, EndX: 3, EndY: 3},
		{OriginX: 0, OriginY: 8, EndX: 3, EndY: 11},
		{OriginX: 1, OriginY: 3, EndX: 3, EndY: 8, Corridor: true},
	}
	if !slices.Equal(rooms, want) {
		t.Errorf("rooms = %+v, want %+v", rooms, want)
	}
}

func TestExecutePopulate(t *testing.T) {
	opts := ringOptions()
	opts.Populate = true

	result, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.Stats.RoomCount != 8 {
		t.Errorf("RoomCount = %d, want 8", result.Stats.RoomCount)
	}
	corridors := 0
	for _, r := range result.Level.Rooms {
		if r.Corridor {
			corridors++
		}
	}
	if corridors != 4 {
		t.Errorf("reduced rooms have %d corridors, want 4", corridors)
	}
	if result.GridHash == "" {
		t.Error("GridHash should be set")
	}
	if len(result.Placements) != 13 {
		t.Fatalf("placements = %d, want 13 (5 spawns + 4 medkits + 4 ammo)", len(result.Placements))
	}
	if result.Stats.PlacementCount != 13 {
		t.Errorf("PlacementCount = %d, want 13", result.Stats.PlacementCount)
	}

	grid := result.Level.Grid
	if got := grid.CountSymbol('s'); got != 5 {
		t.Errorf("spawn symbols on grid = %d, want 5", got)
	}
	if got := grid.CountSymbol('h'); got != 4 {
		t.Errorf("medkit symbols on grid = %d, want 4", got)
	}
	if got := grid.CountSymbol('a'); got != 4 {
		t.Errorf("ammo symbols on grid = %d, want 4", got)
	}

	seen := make(map[[2]int]bool)
	for _, p := range result.Placements {
		tile := [2]int{p.X, p.Y}
		if seen[tile] {
			t.Errorf("tile (%d, %d) was placed twice", p.X, p.Y)
		}
		seen[tile] = true
		if got := grid.At(p.X, p.Y); got != p.Symbol {
			t.Errorf("grid at (%d, %d) = %q, want %q", p.X, p.Y, got, p.Symbol)
		}
	}

	for _, view := range graph.Views {
		if result.Analysis.Graphs[view] == nil {
			t.Errorf("view %q missing from analysis", view)
		}
	}
	// Eight area nodes plus one resource node per placement.
	if objects := result.Analysis.Graphs[graph.ViewObjects]; objects.NodeCount() != 21 {
		t.Errorf("objects view has %d nodes, want 21", objects.NodeCount())
	}

	vis := result.Analysis.Visibility
	if len(vis) != 20 || len(vis[0]) != 20 {
		t.Fatalf("visibility matrix = %dx%d, want 20x20", len(vis), len(vis[0]))
	}
	if result.Analysis.Diameter <= 0 {
		t.Errorf("Diameter = %g, want > 0", result.Analysis.Diameter)
	}
	if len(result.Analysis.Degrees) != 8 {
		t.Errorf("Degrees has %d entries, want 8", len(result.Analysis.Degrees))
	}

	if info := result.CacheInfo; info.VisibilityHit || info.AnalysisHit || info.RenderHit {
		t.Errorf("CacheInfo = %+v, want no hits with the null cache", info)
	}
}

func TestExecuteAnalyzeOnly(t *testing.T) {
	result, err := NewRunner(nil, nil, nil).Execute(context.Background(), inlineOptions())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.Placements != nil {
		t.Errorf("Placements = %v, want nil without populate", result.Placements)
	}
	if result.Analysis.Visibility != nil {
		t.Error("visibility matrix should not be computed for analyze-only runs")
	}
	if len(result.Artifacts) != 0 {
		t.Errorf("Artifacts = %d entries, want none without formats", len(result.Artifacts))
	}
	if result.Analysis.Diameter <= 0 {
		t.Errorf("Diameter = %g, want > 0", result.Analysis.Diameter)
	}
	if got := result.Level.Grid.CountSymbol('s'); got != 0 {
		t.Errorf("grid has %d spawn symbols, want 0 without populate", got)
	}
}

func TestExecuteValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errs.Code
	}{
		{"no input", Options{}, errs.ErrCodeInvalidInput},
		{"genome without grid", Options{Genome: testGenome}, errs.ErrCodeInvalidInput},
		{"unknown view", Options{Grid: testGrid, Genome: testGenome, Views: []string{"heatmap"}}, errs.ErrCodeInvalidView},
		{"unknown format", Options{Grid: testGrid, Genome: testGenome, Formats: []string{"pdf"}}, errs.ErrCodeInvalidFormat},
	}

	runner := NewRunner(nil, nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runner.Execute(context.Background(), tt.opts)
			if !errs.Is(err, tt.code) {
				t.Errorf("Execute() error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestExecuteFromDisk(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(mapio.MapPath(dir, "arena1"), []byte(testGrid), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(mapio.GenomePath(dir, "arena1"), []byte(testGenome+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	opts := Options{MapName: "arena1", InputDir: dir}
	result, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Level.Name != "arena1" {
		t.Errorf("Name = %q, want %q", result.Level.Name, "arena1")
	}
	if result.Stats.RoomCount != 3 {
		t.Errorf("RoomCount = %d, want 3", result.Stats.RoomCount)
	}
}

func TestExecuteCacheReuse(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)

	opts := ringOptions()
	opts.Populate = true

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}
	if first.CacheInfo.VisibilityHit || first.CacheInfo.AnalysisHit {
		t.Errorf("first run CacheInfo = %+v, want cold cache", first.CacheInfo)
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if !second.CacheInfo.VisibilityHit {
		t.Error("second run should reuse the cached visibility matrix")
	}
	if !second.CacheInfo.AnalysisHit {
		t.Error("second run should reuse the cached analysis bundle")
	}
	if !slices.Equal(first.Placements, second.Placements) {
		t.Errorf("placements diverged across cache reuse:\nfirst:  %+v\nsecond: %+v",
			first.Placements, second.Placements)
	}

	refresh := opts
	refresh.Refresh = true
	third, err := runner.Execute(context.Background(), refresh)
	if err != nil {
		t.Fatalf("refresh Execute() error = %v", err)
	}
	if third.CacheInfo.VisibilityHit || third.CacheInfo.AnalysisHit {
		t.Errorf("refresh run CacheInfo = %+v, want recomputation", third.CacheInfo)
	}
}

func TestExecuteRenderArtifacts(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)

	opts := inlineOptions()
	opts.Views = []string{graph.ViewRooms}
	opts.Formats = []string{FormatDOT, FormatJSON}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}

	dot, ok := first.Artifacts["rooms.dot"]
	if !ok {
		t.Fatalf("missing rooms.dot artifact, have %v", artifactKeys(first.Artifacts))
	}
	if !strings.Contains(string(dot), "graph G {") {
		t.Error("DOT artifact should contain an undirected graph header")
	}
	if !strings.Contains(string(dot), `"r0"`) {
		t.Error("DOT artifact should contain the first room node")
	}
	if jsonArt, ok := first.Artifacts["rooms.json"]; !ok {
		t.Error("missing rooms.json artifact")
	} else if !strings.Contains(string(jsonArt), `"nodes"`) {
		t.Error("JSON artifact should contain a nodes array")
	}
	if first.CacheInfo.RenderHit {
		t.Error("first run should render fresh artifacts")
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should reuse cached artifacts")
	}
	if !bytes.Equal(first.Artifacts["rooms.dot"], second.Artifacts["rooms.dot"]) {
		t.Error("cached DOT artifact differs from the rendered one")
	}
}

func TestRenderMissingView(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	opts := inlineOptions()
	opts.Views = []string{graph.ViewRooms}
	opts.Formats = []string{FormatDOT}

	_, err := runner.Render(context.Background(), map[string]*graph.Graph{}, opts)
	if !errs.Is(err, errs.ErrCodeInvalidView) {
		t.Errorf("Render() error = %v, want code %v", err, errs.ErrCodeInvalidView)
	}
}

func artifactKeys(artifacts map[string][]byte) []string {
	keys := make([]string, 0, len(artifacts))
	for k := range artifacts {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
