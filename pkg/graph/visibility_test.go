package graph

import (
	"testing"

	"github.com/Hanteus/ProjectArena/pkg/arena"
	errs "github.com/Hanteus/ProjectArena/pkg/errors"
	"pgregory.net/rapid"
)

func TestVisibleStraightLines(t *testing.T) {
	grid := mustGrid(t,
		"rrrrr",
		"rwwwr",
		"rrrrr",
	)

	tests := []struct {
		name           string
		x1, y1, x2, y2 int
		want           bool
	}{
		{"SameRowOpen", 0, 0, 0, 4, true},
		{"SameRowBlocked", 1, 0, 1, 4, false},
		{"SameColumnOpen", 0, 0, 2, 0, true},
		{"SameColumnBlocked", 0, 2, 2, 2, false},
		{"SameTile", 2, 2, 2, 2, true},
		{"AdjacentTiles", 0, 0, 0, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Visible(grid, tt.x1, tt.y1, tt.x2, tt.y2); got != tt.want {
				t.Errorf("Visible(%d,%d -> %d,%d) = %v, want %v", tt.x1, tt.y1, tt.x2, tt.y2, got, tt.want)
			}
		})
	}
}

func TestVisibleDiagonal(t *testing.T) {
	open := mustGrid(t,
		"rrr",
		"rrr",
		"rrr",
	)
	if !Visible(open, 0, 0, 2, 2) {
		t.Error("open diagonal should be visible")
	}

	blocked := mustGrid(t,
		"rrr",
		"rwr",
		"rrr",
	)
	if Visible(blocked, 0, 0, 2, 2) {
		t.Error("wall on the diagonal should block")
	}
}

// The test steps only along the longer axis, so walls near but not on
// the sampled tiles do not block.
func TestVisibleDiagonalSampling(t *testing.T) {
	// Steep segment (0,0)->(1,2) samples (0,0) and (0,1) only.
	sampledWall := mustGrid(t,
		"rwr",
		"rrr",
	)
	if Visible(sampledWall, 0, 0, 1, 2) {
		t.Error("wall on a sampled tile should block")
	}

	skippedWall := mustGrid(t,
		"rrr",
		"rwr",
	)
	if !Visible(skippedWall, 0, 0, 1, 2) {
		t.Error("wall off the sampled tiles should not block")
	}
}

func TestVisibleSymmetry(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		rows := rapid.IntRange(2, 7).Draw(rt, "rows")
		cols := rapid.IntRange(2, 7).Draw(rt, "cols")

		lines := make([]string, rows)
		var walkable [][2]int
		for x := 0; x < rows; x++ {
			row := make([]byte, cols)
			for y := 0; y < cols; y++ {
				if rapid.Bool().Draw(rt, "wall") {
					row[y] = 'w'
				} else {
					row[y] = 'r'
					walkable = append(walkable, [2]int{x, y})
				}
			}
			lines[x] = string(row)
		}
		if len(walkable) < 2 {
			return
		}

		grid, err := arena.NewGrid(lines)
		if err != nil {
			rt.Fatalf("NewGrid: %v", err)
		}

		p := walkable[rapid.IntRange(0, len(walkable)-1).Draw(rt, "p")]
		q := walkable[rapid.IntRange(0, len(walkable)-1).Draw(rt, "q")]

		forward := Visible(grid, p[0], p[1], q[0], q[1])
		backward := Visible(grid, q[0], q[1], p[0], p[1])
		if forward != backward {
			rt.Fatalf("Visible(%v -> %v) = %v but reverse = %v", p, q, forward, backward)
		}
	})
}

func TestVisibilityMatrix(t *testing.T) {
	grid := mustGrid(t,
		"rrrw",
		"rwrr",
		"rrrr",
	)

	m, err := VisibilityMatrix(grid)
	if err != nil {
		t.Fatalf("VisibilityMatrix: %v", err)
	}

	sawZero, sawOne := false, false
	for x := 0; x < grid.Rows(); x++ {
		for y := 0; y < grid.Cols(); y++ {
			v := m[x][y]
			if grid.IsWall(x, y) {
				if v != 0 {
					t.Errorf("wall (%d,%d) = %v, want 0", x, y, v)
				}
				continue
			}
			if v < 0 || v > 1 {
				t.Errorf("(%d,%d) = %v, out of [0,1]", x, y, v)
			}
			if v == 0 {
				sawZero = true
			}
			if v == 1 {
				sawOne = true
			}
		}
	}
	if !sawZero || !sawOne {
		t.Errorf("extremes missing: sawZero=%v sawOne=%v", sawZero, sawOne)
	}
}

// The matrix and the visibility graph count the same thing, so the
// rescaled graph degrees must reproduce the matrix exactly.
func TestVisibilityMatrixMatchesGraphDegrees(t *testing.T) {
	grid := mustGrid(t,
		"rrrw",
		"rwrr",
		"rrrr",
	)

	m, err := VisibilityMatrix(grid)
	if err != nil {
		t.Fatalf("VisibilityMatrix: %v", err)
	}

	g := NewVisibilityGraph(grid)

	minDeg, maxDeg := -1, -1
	for _, n := range g.Nodes() {
		d := g.Degree(n.ID)
		if minDeg == -1 || d < minDeg {
			minDeg = d
		}
		if d > maxDeg {
			maxDeg = d
		}
	}

	for _, n := range g.Nodes() {
		tile := n.Attrs.(TileNode)
		if tile.Visibility != g.Degree(n.ID) {
			t.Errorf("%s visibility = %d, want degree %d", n.ID, tile.Visibility, g.Degree(n.ID))
		}
		want := float64(g.Degree(n.ID)-minDeg) / float64(maxDeg-minDeg)
		if got := m[tile.X][tile.Y]; got != want {
			t.Errorf("matrix[%d][%d] = %v, want %v", tile.X, tile.Y, got, want)
		}
	}
}

func TestVisibilityMatrixDegenerate(t *testing.T) {
	tests := []struct {
		name string
		rows []string
	}{
		{"AllWalls", []string{"ww", "ww"}},
		{"SingleTile", []string{"ww", "wr"}},
		{"UniformPair", []string{"rr"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := mustGrid(t, tt.rows...)
			_, err := VisibilityMatrix(grid)
			if !errs.Is(err, errs.ErrCodeDegenerateVisibility) {
				t.Errorf("err = %v, want %s", err, errs.ErrCodeDegenerateVisibility)
			}
		})
	}
}

func TestNewVisibilityGraphOpenGrid(t *testing.T) {
	grid := mustGrid(t,
		"rrr",
		"rrr",
		"rrr",
	)

	g := NewVisibilityGraph(grid)

	if g.NodeCount() != 9 {
		t.Fatalf("nodes = %d, want 9", g.NodeCount())
	}
	// Nothing blocks anything: a complete graph on 9 tiles.
	if g.EdgeCount() != 36 {
		t.Errorf("edges = %d, want 36", g.EdgeCount())
	}
	for _, n := range g.Nodes() {
		if tile := n.Attrs.(TileNode); tile.Visibility != 8 {
			t.Errorf("%s visibility = %d, want 8", n.ID, tile.Visibility)
		}
	}
}
