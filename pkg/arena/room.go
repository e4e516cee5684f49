// Package arena models the geometric primitives of an arena level: the
// room/corridor rectangles decoded from an AB genome and the tile grid
// they describe.
//
// Coordinates follow the map file layout: x indexes rows (lines), y
// indexes columns. All rectangle bounds are inclusive.
package arena

import (
	"math"

	errs "github.com/Hanteus/ProjectArena/pkg/errors"
)

// Room is an axis-aligned rectangle, either a plain room or a corridor.
// Corridors are generated with a fixed minor dimension of 3 tiles.
type Room struct {
	OriginX  int  `json:"originX"`
	OriginY  int  `json:"originY"`
	EndX     int  `json:"endX"`
	EndY     int  `json:"endY"`
	Corridor bool `json:"isCorridor"`
}

// Width returns the extent along x, in tiles.
func (r Room) Width() int { return r.EndX - r.OriginX + 1 }

// Height returns the extent along y, in tiles.
func (r Room) Height() int { return r.EndY - r.OriginY + 1 }

// Empty reports whether the rectangle has no tiles (end before origin
// on either axis). Empty rooms are invalid inputs for analysis.
func (r Room) Empty() bool {
	return r.EndX < r.OriginX || r.EndY < r.OriginY
}

// CenterX returns the x coordinate of the rectangle center.
func (r Room) CenterX() float64 { return float64(r.OriginX)/2 + float64(r.EndX)/2 }

// CenterY returns the y coordinate of the rectangle center.
func (r Room) CenterY() float64 { return float64(r.OriginY)/2 + float64(r.EndY)/2 }

// ContainsTile reports whether the tile at (x, y) lies inside the
// rectangle, bounds included.
func (r Room) ContainsTile(x, y int) bool {
	return x >= r.OriginX && x <= r.EndX && y >= r.OriginY && y <= r.EndY
}

// ContainsRoom reports whether other lies fully inside r. Equal
// bounding boxes contain each other.
func (r Room) ContainsRoom(other Room) bool {
	return r.OriginX <= other.OriginX && r.OriginY <= other.OriginY &&
		r.EndX >= other.EndX && r.EndY >= other.EndY
}

// Overlaps reports whether the two rectangles share at least one tile
// on both axes. Rectangles that merely touch edge-to-edge do not
// overlap.
func (r Room) Overlaps(other Room) bool {
	if r.OriginX >= other.EndX+1 || other.OriginX >= r.EndX+1 {
		return false
	}
	if r.OriginY >= other.EndY+1 || other.OriginY >= r.EndY+1 {
		return false
	}
	return true
}

// Distance returns the Euclidean distance between the centers of the
// two rectangles.
func (r Room) Distance(other Room) float64 {
	return EuclideanDistance(r.CenterX(), r.CenterY(), other.CenterX(), other.CenterY())
}

// EuclideanDistance returns the straight-line distance between two
// points.
func EuclideanDistance(x1, y1, x2, y2 float64) float64 {
	return math.Sqrt(math.Pow(x1-x2, 2) + math.Pow(y1-y2, 2))
}

// ValidateRooms checks that every room has positive extent and lies
// inside a rows*cols grid. It reports the index of the first offender.
func ValidateRooms(rooms []Room, rows, cols int) error {
	for i, r := range rooms {
		if r.Empty() {
			return errs.New(errs.ErrCodeEmptyRoom,
				"room %d has no tiles: origin (%d, %d), end (%d, %d)",
				i, r.OriginX, r.OriginY, r.EndX, r.EndY)
		}
		if r.OriginX < 0 || r.OriginY < 0 || r.EndX >= rows || r.EndY >= cols {
			return errs.New(errs.ErrCodeOutOfBounds,
				"room %d exceeds the %dx%d grid: origin (%d, %d), end (%d, %d)",
				i, rows, cols, r.OriginX, r.OriginY, r.EndX, r.EndY)
		}
	}
	return nil
}
