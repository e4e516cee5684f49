package arena

import (
	"math"
	"strings"

	errs "github.com/Hanteus/ProjectArena/pkg/errors"
)

// Grid cell symbols with fixed meaning. Any other printable character
// marks a placed resource, except Door which is decorative and never
// treated as an object.
const (
	Wall  byte = 'w'
	Floor byte = 'r'
	Door  byte = 'd'
)

// Grid is the 2-D character grid of a level. Cells are addressed as
// (x, y) where x is the row (line) index and y the column, matching
// the map file layout. The grid is mutated in place by placement.
type Grid struct {
	cells [][]byte
}

// NewGrid builds a grid from text rows. The first row fixes the column
// count: longer rows are truncated to it, shorter rows are rejected.
func NewGrid(rows []string) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "grid needs at least one non-empty row")
	}

	cols := len(rows[0])
	cells := make([][]byte, len(rows))
	for x, row := range rows {
		if len(row) < cols {
			return nil, errs.New(errs.ErrCodeRaggedGrid,
				"row %d has %d cells, expected %d", x, len(row), cols)
		}
		cells[x] = []byte(row[:cols])
	}

	return &Grid{cells: cells}, nil
}

// Rows returns the number of rows (the x extent).
func (g *Grid) Rows() int { return len(g.cells) }

// Cols returns the number of columns (the y extent).
func (g *Grid) Cols() int { return len(g.cells[0]) }

// At returns the cell symbol at (x, y).
func (g *Grid) At(x, y int) byte { return g.cells[x][y] }

// Set writes the cell symbol at (x, y).
func (g *Grid) Set(x, y int, c byte) { g.cells[x][y] = c }

// InBounds reports whether (x, y) addresses a cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Rows() && y >= 0 && y < g.Cols()
}

// IsWall reports whether the cell at (x, y) is a wall.
func (g *Grid) IsWall(x, y int) bool { return g.cells[x][y] == Wall }

// ClearResources resets every cell that is neither wall nor floor back
// to floor and returns how many cells were reset. Placement runs call
// this first so earlier placements do not leak into the new run.
func (g *Grid) ClearResources() int {
	cleared := 0
	for x := range g.cells {
		for y := range g.cells[x] {
			if g.cells[x][y] != Wall && g.cells[x][y] != Floor {
				g.cells[x][y] = Floor
				cleared++
			}
		}
	}
	return cleared
}

// CountSymbol returns the number of cells holding the given symbol.
func (g *Grid) CountSymbol(c byte) int {
	n := 0
	for x := range g.cells {
		for y := range g.cells[x] {
			if g.cells[x][y] == c {
				n++
			}
		}
	}
	return n
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([][]byte, len(g.cells))
	for x := range g.cells {
		cells[x] = make([]byte, len(g.cells[x]))
		copy(cells[x], g.cells[x])
	}
	return &Grid{cells: cells}
}

// Diagonal returns the length of the grid's diagonal in tiles, the
// normalization constant for distance terms in tile scoring.
func (g *Grid) Diagonal() float64 {
	return math.Sqrt(math.Pow(float64(g.Rows()), 2) + math.Pow(float64(g.Cols()), 2))
}

// String serializes the grid one row per line, rows joined by line
// breaks with no trailing break.
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow(g.Rows() * (g.Cols() + 1))
	for x := range g.cells {
		if x > 0 {
			b.WriteByte('\n')
		}
		b.Write(g.cells[x])
	}
	return b.String()
}
