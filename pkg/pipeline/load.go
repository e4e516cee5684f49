package pipeline

import (
	"context"
	"strings"

	"github.com/Hanteus/ProjectArena/pkg/arena"
	"github.com/Hanteus/ProjectArena/pkg/mapio"
)

// Level is a loaded map: the tile grid, the raw AB genome it was bred
// from, and (after Reduce) the canonical room list.
type Level struct {
	Name   string
	Grid   *arena.Grid
	Genome string
	Rooms  []arena.Room
}

// Load reads the level's grid and genome, either from the inline option
// fields or from the MapName_map.txt / MapName_AB.txt pair under
// InputDir. Inline text goes through the same reader as files, so line
// ending and trailing blank handling is identical for both sources.
func Load(ctx context.Context, opts Options) (*Level, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}

	level := &Level{Name: opts.MapName}

	if opts.Inline() {
		grid, err := mapio.ReadGrid(strings.NewReader(opts.Grid))
		if err != nil {
			return nil, err
		}
		genome, err := mapio.ReadGenome(strings.NewReader(opts.Genome))
		if err != nil {
			return nil, err
		}
		level.Grid = grid
		level.Genome = genome
		return level, nil
	}

	grid, genome, err := mapio.LoadPair(opts.InputDir, opts.MapName)
	if err != nil {
		return nil, err
	}
	level.Grid = grid
	level.Genome = genome
	return level, nil
}

// Reduce decodes the level's genome and reduces its room list to the
// canonical form: adjacent aligned rectangles merged to a fixpoint,
// then contained rectangles pruned. The result is validated against the
// grid bounds. The level itself is not modified; callers assign the
// returned list to level.Rooms when they want to keep it.
func Reduce(level *Level) ([]arena.Room, error) {
	rooms, err := arena.DecodeGenome(level.Genome)
	if err != nil {
		return nil, err
	}

	reduced, err := arena.Reduce(rooms)
	if err != nil {
		return nil, err
	}

	if err := arena.ValidateRooms(reduced, level.Grid.Rows(), level.Grid.Cols()); err != nil {
		return nil, err
	}
	return reduced, nil
}
