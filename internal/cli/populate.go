package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Hanteus/ProjectArena/pkg/mapio"
	"github.com/Hanteus/ProjectArena/pkg/pipeline"
)

// populateOpts holds the command-line flags for the populate command.
type populateOpts struct {
	inputDir  string // directory holding NAME_map.txt / NAME_AB.txt pairs
	outputDir string // directory the populated map is written to
	grid      string // inline grid text, bypassing the input directory
	genome    string // inline genome text
	profile   string // TOML recipe profile path
	refresh   bool   // recompute cached products
	noCache   bool   // disable caching
}

// populateCommand creates the populate command. It runs the full
// pipeline with placement enabled and exports the populated grid under
// the same NAME_map.txt convention the input uses.
func (c *CLI) populateCommand() *cobra.Command {
	var opts populateOpts

	cmd := &cobra.Command{
		Use:   "populate [map]",
		Short: "Place spawn points, medkits, and ammo on a map",
		Long: `Place spawn points, medkits, and ammo on a map.

The map is loaded as a NAME_map.txt / NAME_AB.txt pair from the input
directory, analyzed, populated with the default recipe (five spawns,
four medkits, four ammo crates) or a TOML profile, and written to the
output directory under the same NAME_map.txt name.

Examples:
  arenamap populate arena1
  arenamap populate arena1 --profile loadout.toml
  arenamap populate arena1 -d maps -o out --refresh`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return c.runPopulate(cmd.Context(), name, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.inputDir, "dir", "d", mapio.DefaultInputDir, "input directory with map pairs")
	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", mapio.DefaultOutputDir, "output directory for the populated map")
	cmd.Flags().StringVar(&opts.grid, "grid", "", "inline grid text (requires --genome)")
	cmd.Flags().StringVar(&opts.genome, "genome", "", "inline genome text (requires --grid)")
	cmd.Flags().StringVarP(&opts.profile, "profile", "p", "", "TOML recipe profile file")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute cached products")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// runPopulate executes the placement pipeline and exports the result.
func (c *CLI) runPopulate(ctx context.Context, name string, cliOpts populateOpts) error {
	opts := pipeline.Options{
		MapName:  name,
		InputDir: cliOpts.inputDir,
		Grid:     cliOpts.grid,
		Genome:   cliOpts.genome,
		Refresh:  cliOpts.refresh,
		Populate: true,
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

	spinner := newSpinnerWithContext(ctx, "Placing resources...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Population failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := mapio.ExportMap(result.Level.Grid, cliOpts.outputDir, result.Level.Name); err != nil {
		return fmt.Errorf("export map: %w", err)
	}

	printSuccess("Population complete")
	printFile(mapio.MapPath(cliOpts.outputDir, result.Level.Name))
	printStats(result.Stats.RoomCount, result.Stats.PlacementCount, result.CacheInfo.AnalysisHit)
	printNewline()
	printNextStep("Inspect", fmt.Sprintf("%s graph %s --populate", appName, result.Level.Name))

	return nil
}
