package render

import (
	"bytes"
	"fmt"

	"github.com/Hanteus/ProjectArena/pkg/arena"
	errs "github.com/Hanteus/ProjectArena/pkg/errors"
	"github.com/Hanteus/ProjectArena/pkg/graph"
)

// Palette, following the original analyzer plots.
const (
	areaColor     = "#f44242" // rooms, tiles, outline corners
	resourceColor = "#0079a2" // placed objects
	leastVisible  = "#0000ff" // visibility gradient start
	mostVisible   = "#ff0000" // visibility gradient end
)

// pointsPerTile converts tile coordinates to Graphviz points. Nodes
// are pinned on a grid twice their own size so edges stay readable.
const pointsPerTile = 36.0

// ToDOT serializes a level graph as undirected DOT for the given view.
// Every node carries a pinned position derived from its map placement,
// so the neato engine reproduces the level's geometry: grid columns run
// right, grid rows run down. Styling depends on the view; see the
// package documentation.
func ToDOT(g *graph.Graph, view string) (string, error) {
	if !validView(view) {
		return "", errs.New(errs.ErrCodeInvalidView, "unknown graph view %q (valid: %v)", view, graph.Views)
	}

	// The visibility gradient spans the observed count range, not a
	// fixed scale, so the most and least exposed tiles always land on
	// the gradient endpoints.
	var lo, hi int
	if view == graph.ViewVisibility {
		lo, hi = visibilityRange(g)
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("\tlayout=neato;\n")
	buf.WriteString("\tbgcolor=\"white\";\n")
	buf.WriteString("\toutputorder=edgesfirst;\n")
	buf.WriteString("\tnode [shape=box, style=filled, color=none, fixedsize=true, width=0.4, height=0.4, fontsize=11];\n")
	buf.WriteString("\tedge [color=\"#00000066\"];\n\n")

	for _, n := range g.Nodes() {
		label, fill := nodeStyle(n, view, lo, hi)
		x, y := n.Attrs.Center()
		fmt.Fprintf(&buf, "\t%q [label=%q, fillcolor=%q, pos=\"%g,%g!\"];\n",
			n.ID, label, fill, y*pointsPerTile, -x*pointsPerTile)
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "\t%q -- %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func validView(view string) bool {
	for _, v := range graph.Views {
		if v == view {
			return true
		}
	}
	return false
}

// nodeStyle picks the label and fill color for one node. Rooms are
// labeled with their node ID and objects with their grid symbol; tiles
// show a label only for non-floor symbols so doors and placed resources
// stand out. Visibility and outline nodes stay unlabeled.
func nodeStyle(n *graph.Node, view string, lo, hi int) (label, fill string) {
	switch a := n.Attrs.(type) {
	case graph.AreaNode:
		return n.ID, areaColor
	case graph.ResourceNode:
		return string(a.Symbol), resourceColor
	case graph.TileNode:
		if view == graph.ViewVisibility {
			alpha := 0.0
			if hi > lo {
				alpha = float64(a.Visibility-lo) / float64(hi-lo)
			}
			return "", BlendColor(leastVisible, mostVisible, alpha)
		}
		if a.Symbol == arena.Floor {
			return "", areaColor
		}
		return string(a.Symbol), areaColor
	case graph.CornerNode:
		return "", areaColor
	default:
		return n.ID, areaColor
	}
}

// visibilityRange scans the tile nodes for the smallest and largest
// visible-tile counts.
func visibilityRange(g *graph.Graph) (lo, hi int) {
	first := true
	for _, n := range g.Nodes() {
		t, ok := n.Attrs.(graph.TileNode)
		if !ok {
			continue
		}
		if first {
			lo, hi = t.Visibility, t.Visibility
			first = false
			continue
		}
		if t.Visibility < lo {
			lo = t.Visibility
		}
		if t.Visibility > hi {
			hi = t.Visibility
		}
	}
	return lo, hi
}
