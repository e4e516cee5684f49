package pipeline

import (
	"context"
	"time"

	"github.com/Hanteus/ProjectArena/pkg/arena"
	"github.com/Hanteus/ProjectArena/pkg/graph"
	"github.com/Hanteus/ProjectArena/pkg/observability"
	"github.com/Hanteus/ProjectArena/pkg/placement"
)

// Populate runs the placement engine over the level, writing resource
// symbols into its grid and returning the commit log. The recipe comes
// from opts (explicit Recipe, TOML Profile, or the default loadout).
//
// A nil analysis.Visibility is allowed; the engine computes the matrix
// itself then. Runner-driven executions pass the cached matrix instead.
func Populate(ctx context.Context, level *Level, analysis *Analysis, opts Options) ([]placement.PlacedObject, error) {
	if err := opts.ValidateForPopulate(); err != nil {
		return nil, err
	}

	var visibility [][]float64
	if analysis != nil {
		visibility = analysis.Visibility
	}

	engine, err := placement.New(level.Grid, level.Rooms, visibility)
	if err != nil {
		return nil, err
	}

	hooks := observability.Placement()
	start := time.Now()
	placed, err := engine.Run(*opts.Recipe)
	for i, obj := range placed {
		hooks.OnPlace(ctx, kindForSymbol(*opts.Recipe, obj.Symbol), obj.X, obj.Y, i)
	}
	hooks.OnRunComplete(ctx, len(placed), time.Since(start), err)
	return placed, err
}

func kindForSymbol(recipe placement.Recipe, symbol byte) string {
	switch symbol {
	case recipe.Spawn.Symbol:
		return string(placement.KindSpawn)
	case recipe.Medkit.Symbol:
		return string(placement.KindMedkit)
	case recipe.Ammo.Symbol:
		return string(placement.KindAmmo)
	}
	return string(symbol)
}

// refreshPopulatedViews rebuilds the views whose nodes carry grid
// symbols so they reflect the resources a run wrote into the grid. Room
// and outline geometry is untouched by placement, and so is the
// visibility structure; its tile nodes only need their symbols updated.
func refreshPopulatedViews(level *Level, analysis *Analysis, views []string) {
	for _, view := range views {
		switch view {
		case graph.ViewObjects:
			analysis.Graphs[view] = graph.NewObjectsGraph(level.Rooms, level.Grid)
		case graph.ViewTiles:
			analysis.Graphs[view] = graph.NewTileGraph(level.Grid)
		case graph.ViewVisibility:
			refreshTileSymbols(analysis.Graphs[view], level.Grid)
		}
	}
}

func refreshTileSymbols(g *graph.Graph, grid *arena.Grid) {
	if g == nil {
		return
	}
	for _, n := range g.Nodes() {
		if t, ok := n.Attrs.(graph.TileNode); ok {
			t.Symbol = grid.At(t.X, t.Y)
			n.Attrs = t
		}
	}
}
