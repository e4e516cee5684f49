package arena

import (
	errs "github.com/Hanteus/ProjectArena/pkg/errors"
)

// MergeRooms collapses axis-aligned partitions back into larger
// rectangles. It repeatedly scans the list in order; for each plain
// room it probes, again in list order, for the first room that starts
// strictly inside-or-one-past its right edge while matching its
// vertical extent exactly, and failing that the symmetric probe along
// the vertical axis. When the probed room is itself a plain room the
// two are merged: the scanning room's far corner moves to the probed
// room's far corner and the probed room is dropped. A corridor that
// happens to be the first probe match blocks the merge on that axis.
//
// Passes repeat until one completes without a merge. First match wins
// throughout, so results depend on list order; callers relying on
// reproducible output must keep decode order.
//
// The returned slice preserves the order of the surviving rooms.
func MergeRooms(rooms []Room) ([]Room, error) {
	out := make([]Room, len(rooms))
	copy(out, rooms)

	// Every merge removes one room, so a terminating reduction needs
	// at most len(rooms) passes. More means a cycle.
	maxPasses := len(rooms) + 1

	for pass := 0; ; pass++ {
		if pass >= maxPasses {
			return nil, errs.New(errs.ErrCodeInternal,
				"room merge did not reach a fixpoint after %d passes", pass)
		}

		alive := make([]bool, len(out))
		for i := range alive {
			alive[i] = true
		}

		merged := 0
		for i := range out {
			if !alive[i] || out[i].Corridor {
				continue
			}

			j, ok := probeRight(out, alive, i)
			if !ok {
				j, ok = probeBelow(out, alive, i)
			}
			if ok {
				out[i].EndX = out[j].EndX
				out[i].EndY = out[j].EndY
				alive[j] = false
				merged++
			}
		}

		if merged == 0 {
			return out, nil
		}

		next := out[:0]
		for i, r := range out {
			if alive[i] {
				next = append(next, r)
			}
		}
		out = next
	}
}

// probeRight finds the first live room that continues room i along the
// x axis. It reports a match only when that room is mergeable (not a
// corridor); a corridor match is returned as no match and ends the
// probe on this axis.
func probeRight(rooms []Room, alive []bool, i int) (int, bool) {
	a := rooms[i]
	for j := range rooms {
		if !alive[j] || j == i {
			continue
		}
		b := rooms[j]
		if b.OriginX > a.OriginX && b.OriginX <= a.EndX+1 &&
			b.OriginY == a.OriginY && b.EndY == a.EndY {
			return j, !b.Corridor
		}
	}
	return 0, false
}

// probeBelow is the y-axis twin of probeRight.
func probeBelow(rooms []Room, alive []bool, i int) (int, bool) {
	a := rooms[i]
	for j := range rooms {
		if !alive[j] || j == i {
			continue
		}
		b := rooms[j]
		if b.OriginY > a.OriginY && b.OriginY <= a.EndY+1 &&
			b.OriginX == a.OriginX && b.EndX == a.EndX {
			return j, !b.Corridor
		}
	}
	return 0, false
}

// RemoveContained drops every room whose rectangle lies fully inside
// another room's rectangle. Two rooms with identical bounding boxes
// contain each other and are both dropped; this mirrors the behavior
// the rest of the pipeline was tuned against.
func RemoveContained(rooms []Room) []Room {
	doomed := make([]bool, len(rooms))
	for i := range rooms {
		for j := range rooms {
			if i != j && rooms[i].ContainsRoom(rooms[j]) {
				doomed[j] = true
			}
		}
	}

	out := make([]Room, 0, len(rooms))
	for i, r := range rooms {
		if !doomed[i] {
			out = append(out, r)
		}
	}
	return out
}

// Reduce runs the merge pass to fixpoint followed by the containment
// prune, the canonical refinement applied to freshly decoded rooms.
func Reduce(rooms []Room) ([]Room, error) {
	merged, err := MergeRooms(rooms)
	if err != nil {
		return nil, err
	}
	return RemoveContained(merged), nil
}
