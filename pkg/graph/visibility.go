package graph

import (
	"sync"

	"github.com/Hanteus/ProjectArena/pkg/arena"
	errs "github.com/Hanteus/ProjectArena/pkg/errors"
)

// visibilityWorkers is the fan-out for the all-pairs visibility scan.
// Rows are sharded across the pool; each worker writes only its own
// rows, so assembly is deterministic without locking.
const visibilityWorkers = 8

// Visible reports whether a straight segment between two tiles crosses
// no wall. The test samples the line at unit steps along the axis of
// greater extent, truncating the other coordinate toward zero. This is
// a coarse sampling, not a true rasterization; downstream scores only
// compare tiles against each other, so the approximation is kept.
//
// The test is symmetric in its endpoints. Both tiles must be in bounds.
func Visible(grid *arena.Grid, x1, y1, x2, y2 int) bool {
	dx := x2 - x1
	dy := y2 - y1

	switch {
	case dx == 0:
		lo, hi := ordered(y1, y2)
		for y := lo; y < hi; y++ {
			if grid.IsWall(x1, y) {
				return false
			}
		}
	case dy == 0:
		lo, hi := ordered(x1, x2)
		for x := lo; x < hi; x++ {
			if grid.IsWall(x, y1) {
				return false
			}
		}
	default:
		m := float64(dy) / float64(dx)
		c := float64(y1) - m*float64(x1)

		if absInt(dx) > absInt(dy) {
			lo, hi := ordered(x1, x2)
			for x := lo; x < hi; x++ {
				if grid.IsWall(x, int(c+m*float64(x))) {
					return false
				}
			}
		} else {
			lo, hi := ordered(y1, y2)
			for y := lo; y < hi; y++ {
				if grid.IsWall(int(float64(y)/m-c/m), y) {
					return false
				}
			}
		}
	}
	return true
}

// VisibilityMatrix computes, for every walkable tile, how many other
// walkable tiles it can see, rescaled so the least visible tile maps
// to 0 and the most visible to 1. Wall cells stay at 0 and are not
// part of the rescaling.
//
// Returns a degenerate-visibility error when the grid has no walkable
// tiles or every walkable tile sees the same count, since the rescale
// is undefined there.
func VisibilityMatrix(grid *arena.Grid) ([][]float64, error) {
	rows, cols := grid.Rows(), grid.Cols()

	counts := make([][]int, rows)
	for x := range counts {
		counts[x] = make([]int, cols)
	}

	var wg sync.WaitGroup
	for w := 0; w < visibilityWorkers; w++ {
		wg.Add(1)
		go func(start int) {
			defer wg.Done()
			for x1 := start; x1 < rows; x1 += visibilityWorkers {
				for y1 := 0; y1 < cols; y1++ {
					if grid.IsWall(x1, y1) {
						continue
					}
					counts[x1][y1] = countVisible(grid, x1, y1)
				}
			}
		}(w)
	}
	wg.Wait()

	lowest, highest, walkable := 0, 0, false
	for x := 0; x < rows; x++ {
		for y := 0; y < cols; y++ {
			if grid.IsWall(x, y) {
				continue
			}
			v := counts[x][y]
			if !walkable {
				lowest, highest, walkable = v, v, true
				continue
			}
			if v < lowest {
				lowest = v
			}
			if v > highest {
				highest = v
			}
		}
	}

	if !walkable {
		return nil, errs.New(errs.ErrCodeDegenerateVisibility, "grid has no walkable tiles")
	}
	if highest == lowest {
		return nil, errs.New(errs.ErrCodeDegenerateVisibility,
			"every walkable tile sees %d tiles, visibility cannot be rescaled", lowest)
	}

	out := make([][]float64, rows)
	for x := range out {
		out[x] = make([]float64, cols)
		for y := 0; y < cols; y++ {
			if grid.IsWall(x, y) {
				continue
			}
			out[x][y] = float64(counts[x][y]-lowest) / float64(highest-lowest)
		}
	}
	return out, nil
}

// NewVisibilityGraph builds the visibility view: one node per walkable
// tile, an edge between every pair of mutually visible tiles, and each
// node's Visibility payload set to its raw visible-tile count.
func NewVisibilityGraph(grid *arena.Grid) *Graph {
	g := New()

	for x := 0; x < grid.Rows(); x++ {
		for y := 0; y < grid.Cols(); y++ {
			if grid.IsWall(x, y) {
				continue
			}
			_ = g.AddNode(Node{ID: TileID(x, y), Attrs: TileNode{X: x, Y: y, Symbol: grid.At(x, y)}})
		}
	}

	nodes := g.Nodes()
	for i, a := range nodes {
		ta := a.Attrs.(TileNode)
		for _, b := range nodes[i+1:] {
			tb := b.Attrs.(TileNode)
			if Visible(grid, ta.X, ta.Y, tb.X, tb.Y) {
				_ = g.AddEdge(Edge{From: a.ID, To: b.ID})
			}
		}
	}

	for _, n := range nodes {
		t := n.Attrs.(TileNode)
		t.Visibility = g.Degree(n.ID)
		n.Attrs = t
	}
	return g
}

// countVisible is the raw per-tile count behind VisibilityMatrix.
func countVisible(grid *arena.Grid, x1, y1 int) int {
	count := 0
	for x2 := 0; x2 < grid.Rows(); x2++ {
		for y2 := 0; y2 < grid.Cols(); y2++ {
			if grid.IsWall(x2, y2) || (x1 == x2 && y1 == y2) {
				continue
			}
			if Visible(grid, x1, y1, x2, y2) {
				count++
			}
		}
	}
	return count
}

func ordered(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
