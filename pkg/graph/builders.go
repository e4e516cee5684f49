package graph

import (
	"github.com/Hanteus/ProjectArena/pkg/arena"
)

// NewRoomsGraph builds the room-adjacency view over a reduced room
// list: one area node per room or corridor, in list order, and an edge
// between every pair of rectangles that share at least one tile. Edge
// weight is the Euclidean distance between rectangle centers.
//
// Area node IDs follow the room list index, so callers that keep the
// list around can address nodes without a lookup.
func NewRoomsGraph(rooms []arena.Room) *Graph {
	g := New()

	for i, r := range rooms {
		_ = g.AddNode(Node{ID: AreaID(i), Attrs: AreaNode{Room: r}})
	}

	for i := range rooms {
		for j := i + 1; j < len(rooms); j++ {
			if !rooms[i].Overlaps(rooms[j]) {
				continue
			}
			_ = g.AddEdge(Edge{
				From:   AreaID(i),
				To:     AreaID(j),
				Weight: rooms[i].Distance(rooms[j]),
			})
		}
	}
	return g
}

// tileSteps are the forward half of the king-move neighborhood. The
// scan visits tiles in raster order, so linking each tile to these four
// neighbors covers all eight directions once.
var tileSteps = [4][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}}

// NewTileGraph builds the tile-reachability view: one node per
// walkable tile, unweighted edges between tiles a king move apart.
func NewTileGraph(grid *arena.Grid) *Graph {
	g := New()

	for x := 0; x < grid.Rows(); x++ {
		for y := 0; y < grid.Cols(); y++ {
			if grid.IsWall(x, y) {
				continue
			}
			_ = g.AddNode(Node{ID: TileID(x, y), Attrs: TileNode{X: x, Y: y, Symbol: grid.At(x, y)}})
		}
	}

	for x := 0; x < grid.Rows(); x++ {
		for y := 0; y < grid.Cols(); y++ {
			if grid.IsWall(x, y) {
				continue
			}
			for _, s := range tileSteps {
				nx, ny := x+s[0], y+s[1]
				if !grid.InBounds(nx, ny) || grid.IsWall(nx, ny) {
					continue
				}
				_ = g.AddEdge(Edge{From: TileID(x, y), To: TileID(nx, ny)})
			}
		}
	}
	return g
}

// NewObjectsGraph builds the rooms view and overlays every object
// already present in the grid as a resource node. Walls, floors and
// doors are not objects.
func NewObjectsGraph(rooms []arena.Room, grid *arena.Grid) *Graph {
	g := NewRoomsGraph(rooms)

	for x := 0; x < grid.Rows(); x++ {
		for y := 0; y < grid.Cols(); y++ {
			c := grid.At(x, y)
			if c == arena.Wall || c == arena.Floor || c == arena.Door {
				continue
			}
			_ = g.AddResource(x, y, c)
		}
	}
	return g
}

// NewOutlineGraph builds the wireframe view: four corner nodes per
// room chained into a closed loop, corridors included.
func NewOutlineGraph(rooms []arena.Room) *Graph {
	g := New()

	i := 0
	addCorner := func(x, y int) string {
		id := CornerID(i)
		_ = g.AddNode(Node{ID: id, Attrs: CornerNode{X: x, Y: y}})
		i++
		return id
	}

	for _, r := range rooms {
		a := addCorner(r.OriginX, r.OriginY)
		b := addCorner(r.EndX, r.OriginY)
		c := addCorner(r.EndX, r.EndY)
		d := addCorner(r.OriginX, r.EndY)
		_ = g.AddEdge(Edge{From: a, To: b})
		_ = g.AddEdge(Edge{From: b, To: c})
		_ = g.AddEdge(Edge{From: c, To: d})
		_ = g.AddEdge(Edge{From: d, To: a})
	}
	return g
}
