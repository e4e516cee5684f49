package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	errs "github.com/Hanteus/ProjectArena/pkg/errors"
	"github.com/Hanteus/ProjectArena/pkg/mapio"
	"github.com/Hanteus/ProjectArena/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// menuOpts holds the command-line flags for the menu command.
type menuOpts struct {
	inputDir  string
	outputDir string
	noCache   bool
}

// menuCommand creates the interactive menu command.
func (c *CLI) menuCommand() *cobra.Command {
	var opts menuOpts

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Interactive map selection and actions",
		Long: `Interactive map selection and actions.

Pick a map from the input directory, then populate it, export its graph
views, switch to another map, or quit. Placement failures return to the
menu so another map or profile can be tried.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMenu(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.inputDir, "dir", "d", mapio.DefaultInputDir, "input directory with map pairs")
	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", mapio.DefaultOutputDir, "output directory")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// runMenu drives the select-map / pick-action loop until the user quits.
func (c *CLI) runMenu(ctx context.Context, cliOpts menuOpts) error {
	runner, err := c.newRunner(cliOpts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	name := ""
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if name == "" {
			names, err := mapio.List(cliOpts.inputDir)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				printWarning("No map pairs in %s", cliOpts.inputDir)
				printDetail("A map is a NAME%s / NAME%s file pair", mapio.MapSuffix, mapio.GenomeSuffix)
				return nil
			}

			name, err = pickMap(names)
			if err != nil {
				return err
			}
			if name == "" {
				return nil
			}
		}

		action, err := pickAction(name)
		if err != nil {
			return err
		}

		switch action {
		case actionPopulate:
			if err := c.menuPopulate(ctx, runner, name, cliOpts); err != nil {
				if ctx.Err() != nil {
					return err
				}
				printWarning("%s", errs.UserMessage(err))
			}
		case actionGraphs:
			if err := c.menuGraphs(ctx, runner, name, cliOpts); err != nil {
				if ctx.Err() != nil {
					return err
				}
				printWarning("%s", errs.UserMessage(err))
			}
		case actionChange:
			name = ""
		case actionQuit:
			return nil
		}
	}
}

// menuPopulate runs the placement pipeline for the selected map and
// exports the populated grid.
func (c *CLI) menuPopulate(ctx context.Context, runner *pipeline.Runner, name string, cliOpts menuOpts) error {
	opts := pipeline.Options{
		MapName:  name,
		InputDir: cliOpts.inputDir,
		Populate: true,
		Logger:   c.Logger,
	}

	spinner := newSpinnerWithContext(ctx, "Placing resources...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Population failed")
		return err
	}
	spinner.Stop()

	if err := mapio.ExportMap(result.Level.Grid, cliOpts.outputDir, result.Level.Name); err != nil {
		return fmt.Errorf("export map: %w", err)
	}

	printSuccess("Populated %s", name)
	printFile(mapio.MapPath(cliOpts.outputDir, result.Level.Name))
	printStats(result.Stats.RoomCount, result.Stats.PlacementCount, result.CacheInfo.AnalysisHit)
	return nil
}

// menuGraphs renders every view of the selected map as SVG files.
func (c *CLI) menuGraphs(ctx context.Context, runner *pipeline.Runner, name string, cliOpts menuOpts) error {
	opts := pipeline.Options{
		MapName:  name,
		InputDir: cliOpts.inputDir,
		Formats:  []string{pipeline.FormatSVG},
		Logger:   c.Logger,
	}

	spinner := newSpinnerWithContext(ctx, "Rendering views...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(result, cliOpts.outputDir)
	if err != nil {
		return err
	}

	printSuccess("Exported %d views of %s", len(paths), name)
	for _, path := range paths {
		printFile(path)
	}
	return nil
}

// =============================================================================
// MapListModel - Interactive map selection
// =============================================================================

// MapListModel is the bubbletea model for picking a map pair by name.
type MapListModel struct {
	Names    []string
	Cursor   int
	Selected string
	Height   int
	Offset   int
}

// NewMapListModel creates a new map list model.
func NewMapListModel(names []string) MapListModel {
	return MapListModel{Names: names, Height: 15}
}

func (m MapListModel) Init() tea.Cmd {
	return nil
}

func (m MapListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Names)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Selected = m.Names[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m MapListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Map"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Names) {
		end = len(m.Names)
	}

	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		line := cursor + m.Names[i]
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Names))))

	return b.String()
}

// pickMap runs the map selection UI and returns the chosen name, or
// empty when the user quit without selecting.
func pickMap(names []string) (string, error) {
	p := tea.NewProgram(NewMapListModel(names))
	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	fm, ok := finalModel.(MapListModel)
	if !ok {
		return "", nil
	}
	return fm.Selected, nil
}

// =============================================================================
// ActionMenuModel - Per-map action menu
// =============================================================================

// menuAction identifies one entry of the action menu.
type menuAction int

const (
	actionPopulate menuAction = iota
	actionGraphs
	actionChange
	actionQuit
)

// actionItem pairs a menu entry with its shortcut key.
type actionItem struct {
	key    string
	label  string
	action menuAction
}

// actionItems is the fixed action menu, in display order.
var actionItems = []actionItem{
	{"1", "Populate map", actionPopulate},
	{"2", "Export graph views", actionGraphs},
	{"3", "Change map", actionChange},
	{"0", "Quit", actionQuit},
}

// ActionMenuModel is the bubbletea model for the per-map action menu.
type ActionMenuModel struct {
	MapName  string
	Cursor   int
	Selected *menuAction
}

// NewActionMenuModel creates a new action menu for the given map.
func NewActionMenuModel(mapName string) ActionMenuModel {
	return ActionMenuModel{MapName: mapName}
}

func (m ActionMenuModel) Init() tea.Cmd {
	return nil
}

func (m ActionMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		key := msg.String()
		switch key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(actionItems)-1 {
				m.Cursor++
			}
		case "enter":
			action := actionItems[m.Cursor].action
			m.Selected = &action
			return m, tea.Quit
		default:
			for i, item := range actionItems {
				if key == item.key {
					action := item.action
					m.Cursor = i
					m.Selected = &action
					return m, tea.Quit
				}
			}
		}
	}
	return m, nil
}

func (m ActionMenuModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Map: " + m.MapName))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  1-3/0 shortcuts  q quit"))
	b.WriteString("\n\n")

	for i, item := range actionItems {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		line := fmt.Sprintf("%s[%s] %s", cursor, item.key, item.label)
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// pickAction runs the action menu UI. Quitting without a selection
// counts as the quit action.
func pickAction(mapName string) (menuAction, error) {
	p := tea.NewProgram(NewActionMenuModel(mapName))
	finalModel, err := p.Run()
	if err != nil {
		return actionQuit, err
	}

	fm, ok := finalModel.(ActionMenuModel)
	if !ok || fm.Selected == nil {
		return actionQuit, nil
	}
	return *fm.Selected, nil
}
