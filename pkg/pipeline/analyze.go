package pipeline

import (
	"encoding/json"

	errs "github.com/Hanteus/ProjectArena/pkg/errors"
	"github.com/Hanteus/ProjectArena/pkg/graph"
	"github.com/Hanteus/ProjectArena/pkg/graph/metrics"
)

// Analysis carries everything the analyze stage derives from a level:
// the requested graph views, the normalized visibility matrix (only
// when the run will place resources), and the connectivity metrics of
// the rooms graph.
type Analysis struct {
	Graphs     map[string]*graph.Graph
	Visibility [][]float64
	Diameter   float64
	Degrees    []metrics.NodeValue
}

// Analyze builds the graph views named in opts.Views plus the rooms
// connectivity metrics. The rooms graph is always constructed since the
// diameter and degree table derive from it; it only appears in Graphs
// when the rooms view was requested.
//
// The visibility matrix is carried through unchanged; it is a placement
// input, not an analysis product, and may be nil for analyze-only runs.
func Analyze(level *Level, visibility [][]float64, opts Options) (*Analysis, error) {
	if err := opts.ValidateForAnalyze(); err != nil {
		return nil, err
	}

	rooms := graph.NewRoomsGraph(level.Rooms)

	a := &Analysis{
		Graphs:     make(map[string]*graph.Graph, len(opts.Views)),
		Visibility: visibility,
		Diameter:   metrics.Diameter(rooms),
		Degrees:    metrics.NormalizedDegrees(rooms),
	}

	for _, view := range opts.Views {
		switch view {
		case graph.ViewRooms:
			a.Graphs[view] = rooms
		case graph.ViewObjects:
			a.Graphs[view] = graph.NewObjectsGraph(level.Rooms, level.Grid)
		case graph.ViewTiles:
			a.Graphs[view] = graph.NewTileGraph(level.Grid)
		case graph.ViewVisibility:
			a.Graphs[view] = graph.NewVisibilityGraph(level.Grid)
		case graph.ViewOutline:
			a.Graphs[view] = graph.NewOutlineGraph(level.Rooms)
		default:
			return nil, errs.New(errs.ErrCodeInvalidView, "unknown graph view %q", view)
		}
	}
	return a, nil
}

// analysisBundle is the cache serialization of an Analysis, with graphs
// flattened to snapshots. The visibility matrix is cached under its own
// key and is never part of the bundle.
type analysisBundle struct {
	Views    map[string]graph.Snapshot `json:"views"`
	Diameter float64                   `json:"diameter"`
	Degrees  []metrics.NodeValue       `json:"degrees"`
}

func marshalAnalysis(a *Analysis) ([]byte, error) {
	b := analysisBundle{
		Views:    make(map[string]graph.Snapshot, len(a.Graphs)),
		Diameter: a.Diameter,
		Degrees:  a.Degrees,
	}
	for view, g := range a.Graphs {
		b.Views[view] = graph.FromGraph(g)
	}
	return json.Marshal(b)
}

func unmarshalAnalysis(data []byte) (*Analysis, error) {
	var b analysisBundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode analysis bundle")
	}

	a := &Analysis{
		Graphs:   make(map[string]*graph.Graph, len(b.Views)),
		Diameter: b.Diameter,
		Degrees:  b.Degrees,
	}
	for view, s := range b.Views {
		g, err := graph.ToGraph(s)
		if err != nil {
			return nil, err
		}
		a.Graphs[view] = g
	}
	return a, nil
}
