package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Hanteus/ProjectArena/pkg/graph"
	"github.com/Hanteus/ProjectArena/pkg/mapio"
	"github.com/Hanteus/ProjectArena/pkg/pipeline"
)

// analyzeOpts holds the command-line flags for the analyze command.
type analyzeOpts struct {
	inputDir string
	grid     string
	genome   string
	refresh  bool
	noCache  bool
}

// analyzeCommand creates the analyze command. It runs the pipeline
// without placement and prints the room connectivity metrics.
func (c *CLI) analyzeCommand() *cobra.Command {
	var opts analyzeOpts

	cmd := &cobra.Command{
		Use:   "analyze [map]",
		Short: "Print room connectivity metrics for a map",
		Long: `Print room connectivity metrics for a map.

The map's genome is reduced to its room list and the rooms graph is
built from tile adjacency. The output lists each room with its size and
normalized degree, plus the weighted graph diameter used as the
placement proximity scale.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return c.runAnalyze(cmd.Context(), name, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.inputDir, "dir", "d", mapio.DefaultInputDir, "input directory with map pairs")
	cmd.Flags().StringVar(&opts.grid, "grid", "", "inline grid text (requires --genome)")
	cmd.Flags().StringVar(&opts.genome, "genome", "", "inline genome text (requires --grid)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute cached products")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// runAnalyze executes an analysis-only pipeline run and prints metrics.
func (c *CLI) runAnalyze(ctx context.Context, name string, cliOpts analyzeOpts) error {
	opts := pipeline.Options{
		MapName:  name,
		InputDir: cliOpts.inputDir,
		Grid:     cliOpts.grid,
		Genome:   cliOpts.genome,
		Refresh:  cliOpts.refresh,
		Views:    []string{graph.ViewRooms},
		Logger:   c.Logger,
	}

	runner, err := c.newRunner(cliOpts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Analyzing map...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Analysis failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	corridors := 0
	for _, room := range result.Level.Rooms {
		if room.Corridor {
			corridors++
		}
	}

	printKeyValue("Map", result.Level.Name)
	printKeyValue("Grid", fmt.Sprintf("%dx%d", result.Level.Grid.Rows(), result.Level.Grid.Cols()))
	printKeyValue("Rooms", fmt.Sprintf("%d (%d corridors)", len(result.Level.Rooms), corridors))
	printKeyValue("Diameter", fmt.Sprintf("%.3f", result.Analysis.Diameter))
	printNewline()
	fmt.Println(degreeTable(result))
	printNewline()
	printStats(result.Stats.RoomCount, 0, result.CacheInfo.AnalysisHit)

	return nil
}

// degreeTable renders the per-room degree listing. Degrees come back in
// room order, so rows can be zipped with the reduced room list.
func degreeTable(result *pipeline.Result) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(result.Analysis.Degrees))
	for i, deg := range result.Analysis.Degrees {
		room := result.Level.Rooms[i]
		kind := "room"
		if room.Corridor {
			kind = "corridor"
		}
		rows = append(rows, []string{
			deg.ID,
			fmt.Sprintf("%dx%d", room.Width(), room.Height()),
			kind,
			fmt.Sprintf("%.3f", deg.Value),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Room", "Size", "Kind", "Degree").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 3 {
				return StyleNumber
			}
			return StyleValue
		}).
		Render()
}
