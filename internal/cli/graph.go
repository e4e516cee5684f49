package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Hanteus/ProjectArena/pkg/mapio"
	"github.com/Hanteus/ProjectArena/pkg/pipeline"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	inputDir  string
	outputDir string
	grid      string
	genome    string
	views     string // comma-separated view names, empty for all
	formats   string // comma-separated formats, empty for svg
	populate  bool   // place resources before rendering
	profile   string // TOML recipe profile path, with --populate
	refresh   bool
	noCache   bool
}

// graphCommand creates the graph command. It renders the requested
// graph views to files named NAME_view.format in the output directory.
func (c *CLI) graphCommand() *cobra.Command {
	var opts graphOpts

	cmd := &cobra.Command{
		Use:   "graph [map]",
		Short: "Export graph views of a map",
		Long: `Export graph views of a map.

Views: rooms (room adjacency), objects (rooms plus placed resources),
tiles (walkable tile lattice), visibility (tiles shaded by visibility),
outline (room corner rectangles). Formats: dot, svg, png, json.

With --populate the resources are placed first, so the objects, tiles,
and visibility views include them.

Examples:
  arenamap graph arena1
  arenamap graph arena1 -w rooms,visibility -f svg,json
  arenamap graph arena1 --populate -f png`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return c.runGraph(cmd.Context(), name, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.inputDir, "dir", "d", mapio.DefaultInputDir, "input directory with map pairs")
	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", mapio.DefaultOutputDir, "output directory for artifacts")
	cmd.Flags().StringVar(&opts.grid, "grid", "", "inline grid text (requires --genome)")
	cmd.Flags().StringVar(&opts.genome, "genome", "", "inline genome text (requires --grid)")
	cmd.Flags().StringVarP(&opts.views, "views", "w", "", "view(s) to export: rooms, objects, tiles, visibility, outline (comma-separated, default all)")
	cmd.Flags().StringVarP(&opts.formats, "formats", "f", "", "output format(s): svg (default), dot, png, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.populate, "populate", false, "place resources before rendering")
	cmd.Flags().StringVarP(&opts.profile, "profile", "p", "", "TOML recipe profile file (with --populate)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute cached products")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// runGraph executes the pipeline with rendering enabled and writes the
// artifacts to disk.
func (c *CLI) runGraph(ctx context.Context, name string, cliOpts graphOpts) error {
	formats := splitList(cliOpts.formats)
	if len(formats) == 0 {
		formats = []string{pipeline.FormatSVG}
	}

	opts := pipeline.Options{
		MapName:  name,
		InputDir: cliOpts.inputDir,
		Grid:     cliOpts.grid,
		Genome:   cliOpts.genome,
		Refresh:  cliOpts.refresh,
		Views:    splitList(cliOpts.views),
		Populate: cliOpts.populate,
		Formats:  formats,
		Logger:   c.Logger,
	}
	if err := loadProfile(&opts, cliOpts.profile); err != nil {
		return fmt.Errorf("read profile %s: %w", cliOpts.profile, err)
	}

	runner, err := c.newRunner(cliOpts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering views...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(result, cliOpts.outputDir)
	if err != nil {
		return err
	}

	printSuccess("Exported %d artifacts", len(paths))
	for _, path := range paths {
		printFile(path)
	}
	printStats(result.Stats.RoomCount, result.Stats.PlacementCount, result.CacheInfo.RenderHit)

	return nil
}

// writeArtifacts writes each rendered artifact to dir as
// NAME_view.format and returns the written paths in sorted order.
func writeArtifacts(result *pipeline.Result, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(result.Artifacts))
	for key := range result.Artifacts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	paths := make([]string, 0, len(keys))
	for _, key := range keys {
		path := filepath.Join(dir, result.Level.Name+"_"+key)
		if err := os.WriteFile(path, result.Artifacts[key], 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
