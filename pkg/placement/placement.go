package placement

import (
	"fmt"
	"math"
	"slices"

	"github.com/Hanteus/ProjectArena/pkg/arena"
	errs "github.com/Hanteus/ProjectArena/pkg/errors"
	"github.com/Hanteus/ProjectArena/pkg/graph"
	"github.com/Hanteus/ProjectArena/pkg/graph/metrics"
)

// PlacedObject records one committed placement. The slice returned by Run
// lists objects in commit order.
type PlacedObject struct {
	X, Y   int
	Symbol byte
}

// Engine owns the mutable state of one placement run: the tile grid, the
// rooms graph it extends with resource nodes, the visibility matrix, and the
// commit log. Placements are strictly sequential; every score depends on the
// objects committed before it, so the engine is not safe for concurrent use.
type Engine struct {
	grid     *arena.Grid
	graph    *graph.Graph
	vis      [][]float64
	placed   []PlacedObject
	diagonal float64
	diameter float64
	used     bool
}

// New builds an engine over the level's tile grid and reduced room set. A nil
// visibility matrix is computed from the grid; callers holding a cached
// matrix pass it instead. The grid is mutated by Run, so callers that need
// the original afterwards should pass a clone.
func New(grid *arena.Grid, rooms []arena.Room, visibility [][]float64) (*Engine, error) {
	if grid == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "placement needs a tile grid")
	}
	if len(rooms) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "placement needs at least one room")
	}
	if err := arena.ValidateRooms(rooms, grid.Rows(), grid.Cols()); err != nil {
		return nil, err
	}

	if visibility == nil {
		m, err := graph.VisibilityMatrix(grid)
		if err != nil {
			return nil, err
		}
		visibility = m
	} else if err := checkMatrix(grid, visibility); err != nil {
		return nil, err
	}

	g := graph.NewRoomsGraph(rooms)
	return &Engine{
		grid:     grid,
		graph:    g,
		vis:      visibility,
		diagonal: grid.Diagonal(),
		diameter: metrics.Diameter(g),
	}, nil
}

// Graph returns the rooms graph, extended with a resource node per committed
// placement once Run has been called.
func (e *Engine) Graph() *graph.Graph { return e.graph }

// Visibility returns the normalized visibility matrix used for tile scoring.
func (e *Engine) Visibility() [][]float64 { return e.vis }

// Diameter returns the weighted diameter of the rooms graph, measured before
// any resource nodes were added.
func (e *Engine) Diameter() float64 { return e.diameter }

// Placed returns the commit log so far, in placement order.
func (e *Engine) Placed() []PlacedObject { return slices.Clone(e.placed) }

// Run clears pre-existing resources from the grid and places every unit the
// recipe requests, mutating the grid and graph as it goes: spawn points
// first, then medkits, then ammo split between low-connectivity and
// high-connectivity rooms. It returns the commit log in placement order.
//
// An engine runs once; the degree tables and diameter describe the pristine
// rooms graph and would be stale after resource nodes accrete.
func (e *Engine) Run(recipe Recipe) ([]PlacedObject, error) {
	if err := recipe.Validate(); err != nil {
		return nil, err
	}
	if e.used {
		return nil, errs.New(errs.ErrCodeInvalidInput, "placement engine already ran")
	}
	e.used = true

	e.grid.ClearResources()

	degrees := metrics.NormalizedDegrees(e.graph)
	lowAmmo := recipe.Ammo.Count / 2
	phases := []phase{
		{
			kind:       KindSpawn,
			symbol:     recipe.Spawn.Symbol,
			units:      recipe.Spawn.Count,
			target:     recipe.Spawn.Count,
			fits:       metrics.IntervalFits(degrees, recipe.SpawnBand.Lo, recipe.SpawnBand.Hi),
			attractors: []byte{recipe.Spawn.Symbol},
			visTerm:    func(v float64) float64 { return 1 - v },
			wallWeight: 0.5,
			inclusive:  true,
		},
		{
			kind:       KindMedkit,
			symbol:     recipe.Medkit.Symbol,
			units:      recipe.Medkit.Count,
			target:     recipe.Medkit.Count,
			fits:       metrics.IntervalFits(degrees, recipe.MedkitBand.Lo, recipe.MedkitBand.Hi),
			attractors: []byte{recipe.Spawn.Symbol, recipe.Medkit.Symbol},
			visTerm:    func(v float64) float64 { return 1 - math.Abs(0.5-v)*2 },
			wallWeight: 0.25,
		},
		{
			kind:       KindAmmo,
			symbol:     recipe.Ammo.Symbol,
			units:      lowAmmo,
			target:     recipe.Ammo.Count,
			fits:       metrics.IntervalFits(degrees, recipe.AmmoLowBand.Lo, recipe.AmmoLowBand.Hi),
			attractors: []byte{recipe.Ammo.Symbol, recipe.Medkit.Symbol},
			visTerm:    func(v float64) float64 { return v },
			wallWeight: 0.25,
		},
		{
			kind:       KindAmmo,
			symbol:     recipe.Ammo.Symbol,
			units:      recipe.Ammo.Count - lowAmmo,
			offset:     lowAmmo,
			target:     recipe.Ammo.Count,
			fits:       metrics.IntervalFits(degrees, recipe.AmmoHighBand.Lo, recipe.AmmoHighBand.Hi),
			attractors: []byte{recipe.Ammo.Symbol, recipe.Medkit.Symbol},
			visTerm:    func(v float64) float64 { return v },
			wallWeight: 0.25,
		},
	}

	for _, p := range phases {
		for i := 0; i < p.units; i++ {
			if err := e.placeOne(p, p.offset+i); err != nil {
				return nil, err
			}
		}
	}
	return slices.Clone(e.placed), nil
}

// phase is one homogeneous stretch of a run: a resource kind, how many units
// to place, and the scoring knobs for room and tile selection.
type phase struct {
	kind       Kind
	symbol     byte
	units      int
	offset     int // first iteration index, nonzero for the second ammo half
	target     int // the kind's full target count, the redundancy divisor
	fits       map[string]float64
	attractors []byte // symbols whose graph distance grants the proximity bonus
	visTerm    func(v float64) float64
	wallWeight float64
	inclusive  bool // spawn scans the room rectangle inclusive of the far edge
}

func (e *Engine) placeOne(p phase, iteration int) error {
	roomID, ok := e.bestRoom(p)
	if !ok {
		return errs.Wrap(errs.ErrCodeNoCandidates,
			&errs.PlacementError{Kind: string(p.kind), Iteration: iteration, Message: "the graph has no area nodes"},
			"room selection exhausted for %q", p.kind)
	}

	area, _ := e.graph.Area(roomID)
	x, y, ok := e.bestTile(p, area.Room)
	if !ok {
		return errs.Wrap(errs.ErrCodeNoCandidates,
			&errs.PlacementError{Kind: string(p.kind), Iteration: iteration, Message: fmt.Sprintf("room %s has no interior tiles", roomID)},
			"tile selection exhausted for %q", p.kind)
	}
	return e.commit(p, iteration, x, y)
}

// bestRoom scores every area node and returns the maximum. Resource nodes are
// never candidates. Ties keep the first node in insertion order.
func (e *Engine) bestRoom(p phase) (string, bool) {
	bestScore := math.Inf(-1)
	var bestID string
	found := false
	for _, id := range e.graph.NodeIDs() {
		if _, ok := e.graph.Area(id); !ok {
			continue
		}
		if score := e.scoreRoom(p, id); score > bestScore {
			bestScore, bestID, found = score, id, true
		}
	}
	return bestID, found
}

// scoreRoom combines the room's frozen interval fit, a bonus for graph
// distance to the nearest placed object of the attracting kinds, and a
// penalty per adjacent object of the same kind.
func (e *Engine) scoreRoom(p phase, id string) float64 {
	score := p.fits[id]

	if e.diameter > 0 {
		dist := metrics.ShortestPaths(e.graph, id)
		nearest := math.Inf(1)
		for _, nodeID := range e.graph.NodeIDs() {
			res, ok := e.graph.Resource(nodeID)
			if !ok || !slices.Contains(p.attractors, res.Symbol) {
				continue
			}
			// Unreachable objects read as distance 0.
			if d := dist[nodeID]; d < nearest {
				nearest = d
			}
		}
		if !math.IsInf(nearest, 1) {
			score += nearest / e.diameter * 0.25
		}
	}

	var redundancy float64
	for _, neighborID := range e.graph.Neighbors(id) {
		if res, ok := e.graph.Resource(neighborID); ok && res.Symbol == p.symbol {
			redundancy += 1 / float64(p.target)
		}
	}
	return score - redundancy
}

// bestTile scores the room's tiles row by row and returns the maximum. Ties
// keep the earliest tile in scan order.
func (e *Engine) bestTile(p phase, room arena.Room) (int, int, bool) {
	endX, endY := room.EndX, room.EndY
	if p.inclusive {
		endX++
		endY++
	}

	bestScore := math.Inf(-1)
	var bestX, bestY int
	found := false
	for x := room.OriginX; x < endX; x++ {
		for y := room.OriginY; y < endY; y++ {
			if score := e.scoreTile(p, room, x, y); score > bestScore {
				bestScore, bestX, bestY, found = score, x, y, true
			}
		}
	}
	return bestX, bestY, found
}

// scoreTile combines the kind's visibility term, distance to the room walls
// scaled by half the room's extents, and distance to the nearest object
// already placed scaled by the grid diagonal.
func (e *Engine) scoreTile(p phase, room arena.Room, x, y int) float64 {
	score := p.visTerm(e.vis[x][y])

	if halfSpan := float64(room.EndX-room.OriginX)/2 + float64(room.EndY-room.OriginY)/2; halfSpan > 0 {
		wallDist := float64(min(x-room.OriginX, room.EndX-x) + min(y-room.OriginY, room.EndY-y))
		score += wallDist / halfSpan * p.wallWeight
	}

	if len(e.placed) > 0 {
		nearest := math.Inf(1)
		for _, obj := range e.placed {
			if d := arena.EuclideanDistance(float64(x), float64(y), float64(obj.X), float64(obj.Y)); d < nearest {
				nearest = d
			}
		}
		score += nearest / e.diagonal * 0.5
	}
	return score
}

// commit writes the symbol into the grid, extends the graph with a resource
// node wired to every containing room, and appends to the commit log. A
// winning tile that is not plain floor aborts the run; overwriting an earlier
// placement would silently drop it from the grid.
func (e *Engine) commit(p phase, iteration, x, y int) error {
	if c := e.grid.At(x, y); c != arena.Floor {
		return errs.New(errs.ErrCodeTileOccupied,
			"placing %q (iteration %d): tile (%d, %d) already holds %q", p.kind, iteration, x, y, c)
	}
	if err := e.graph.AddResource(x, y, p.symbol); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err,
			"placing %q (iteration %d): graph rejected tile (%d, %d)", p.kind, iteration, x, y)
	}
	e.grid.Set(x, y, p.symbol)
	e.placed = append(e.placed, PlacedObject{X: x, Y: y, Symbol: p.symbol})
	return nil
}

func checkMatrix(grid *arena.Grid, m [][]float64) error {
	if len(m) != grid.Rows() {
		return errs.New(errs.ErrCodeInvalidInput,
			"visibility matrix has %d rows, grid has %d", len(m), grid.Rows())
	}
	for x := range m {
		if len(m[x]) != grid.Cols() {
			return errs.New(errs.ErrCodeInvalidInput,
				"visibility matrix row %d has %d columns, grid has %d", x, len(m[x]), grid.Cols())
		}
	}
	return nil
}
