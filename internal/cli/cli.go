// Package cli implements the arenamap command-line interface.
//
// The CLI wraps the analysis pipeline with commands for populating maps
// with resources, inspecting connectivity metrics, exporting graph views,
// and serving the HTTP API. An interactive menu mirrors the classic
// pick-a-map workflow for people who prefer not to remember flags.
//
// # Commands
//
//   - populate: place spawn points, medkits, and ammo on a map
//   - analyze: print room connectivity metrics without placing anything
//   - graph: export graph views as DOT, SVG, PNG, or JSON files
//   - menu: interactive map selection and actions
//   - serve: run the HTTP API
//   - cache: manage the pipeline result cache
//   - completion: generate shell completions
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// ride the command context so command helpers share one logger.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Hanteus/ProjectArena/pkg/buildinfo"
	"github.com/Hanteus/ProjectArena/pkg/cache"
	"github.com/Hanteus/ProjectArena/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "arenamap"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands
// registered. The persistent --verbose flag switches the shared logger
// to debug level before any command runs.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          appName,
		Short:        "Arenamap analyzes deathmatch maps and places their resources",
		Long:         `Arenamap parses AB genomes into room layouts, measures room connectivity and tile visibility, places spawn points and pickups with a greedy scorer, and exports the results as populated maps and graph views.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(log.DebugLevel)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.populateCommand())
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.menuCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/arenamap/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Flag Helpers
// =============================================================================

// splitList parses a comma-separated flag value into a slice, or nil
// when the flag was not set.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// loadProfile reads a TOML recipe profile into opts.Profile. The
// document is validated later by the pipeline, alongside inline
// profiles arriving over the API.
func loadProfile(opts *pipeline.Options, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	opts.Profile = string(data)
	return nil
}
