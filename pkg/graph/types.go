package graph

import (
	"encoding/json"
	"fmt"

	"github.com/Hanteus/ProjectArena/pkg/arena"
	errs "github.com/Hanteus/ProjectArena/pkg/errors"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Node kinds.
const (
	KindArea     = "area"
	KindResource = "resource"
	KindTile     = "tile"
	KindCorner   = "corner"
)

// Graph views.
const (
	ViewRooms      = "rooms"
	ViewObjects    = "objects"
	ViewTiles      = "tiles"
	ViewVisibility = "visibility"
	ViewOutline    = "outline"
)

// Views lists every graph view in menu order.
var Views = []string{ViewRooms, ViewObjects, ViewTiles, ViewVisibility, ViewOutline}

// =============================================================================
// Node Payloads
// =============================================================================

// Attrs is the typed payload attached to a graph node. Exactly one
// concrete type exists per node kind, carrying only the fields that
// are meaningful for it.
type Attrs interface {
	// Kind returns the node kind constant for this payload.
	Kind() string
	// Center returns the point used for plotting and for distance
	// computations against this node.
	Center() (x, y float64)
}

// AreaNode is the payload of a room or corridor node in the rooms view.
type AreaNode struct {
	Room arena.Room
}

func (a AreaNode) Kind() string { return KindArea }

func (a AreaNode) Center() (float64, float64) { return a.Room.CenterX(), a.Room.CenterY() }

// ResourceNode is the payload of a placed-object node.
type ResourceNode struct {
	X, Y   int
	Symbol byte
}

func (r ResourceNode) Kind() string { return KindResource }

func (r ResourceNode) Center() (float64, float64) { return float64(r.X), float64(r.Y) }

// TileNode is the payload of one walkable tile in the tile and
// visibility views. Visibility holds the raw visible-tile count and is
// only set in the visibility view.
type TileNode struct {
	X, Y       int
	Symbol     byte
	Visibility int
}

func (t TileNode) Kind() string { return KindTile }

func (t TileNode) Center() (float64, float64) { return float64(t.X), float64(t.Y) }

// CornerNode is one corner of a room rectangle in the outline view.
type CornerNode struct {
	X, Y int
}

func (c CornerNode) Kind() string { return KindCorner }

func (c CornerNode) Center() (float64, float64) { return float64(c.X), float64(c.Y) }

// =============================================================================
// Node ID Schemes
// =============================================================================

// AreaID returns the node ID for the i-th room in the reduced list.
func AreaID(i int) string { return fmt.Sprintf("r%d", i) }

// ResourceID returns the node ID for a placed object. Two objects can
// never share a tile, so the coordinates identify the node.
func ResourceID(x, y int) string { return fmt.Sprintf("o%d_%d", x, y) }

// TileID returns the node ID for a walkable tile.
func TileID(x, y int) string { return fmt.Sprintf("t%d_%d", x, y) }

// CornerID returns the node ID for the i-th outline corner.
func CornerID(i int) string { return fmt.Sprintf("c%d", i) }

// =============================================================================
// Snapshot - Level Graph Serialization
// =============================================================================

// Snapshot is the canonical serialization format for level graphs,
// following the node-link JSON convention. Used for API responses,
// archived runs, caching, and cross-tool compatibility.
//
// The format is designed for round-trip fidelity: node and link order
// is preserved, so a re-imported graph iterates identically.
type Snapshot struct {
	Nodes []NodeRecord `json:"nodes" bson:"nodes"`
	Links []LinkRecord `json:"links" bson:"links"`
}

// NodeRecord is the flattened serialization form of a node and its
// payload. Which fields are meaningful depends on Kind: area records
// carry rectangle bounds, all other kinds carry tile coordinates.
type NodeRecord struct {
	ID         string `json:"id" bson:"id"`
	Kind       string `json:"kind" bson:"kind"`
	X          int    `json:"x,omitempty" bson:"x,omitempty"`
	Y          int    `json:"y,omitempty" bson:"y,omitempty"`
	Symbol     string `json:"symbol,omitempty" bson:"symbol,omitempty"`
	Visibility int    `json:"visibility,omitempty" bson:"visibility,omitempty"`
	OriginX    int    `json:"originX,omitempty" bson:"originX,omitempty"`
	OriginY    int    `json:"originY,omitempty" bson:"originY,omitempty"`
	EndX       int    `json:"endX,omitempty" bson:"endX,omitempty"`
	EndY       int    `json:"endY,omitempty" bson:"endY,omitempty"`
	Corridor   bool   `json:"isCorridor,omitempty" bson:"isCorridor,omitempty"`
}

// LinkRecord is the serialization form of an undirected weighted edge.
type LinkRecord struct {
	Source string  `json:"source" bson:"source"`
	Target string  `json:"target" bson:"target"`
	Weight float64 `json:"weight,omitempty" bson:"weight,omitempty"`
}

// =============================================================================
// Graph ↔ Snapshot Conversion
// =============================================================================

// FromGraph converts a graph to its serialization format. Nodes and
// links keep insertion order so the snapshot round-trips exactly.
func FromGraph(g *Graph) Snapshot {
	nodes := g.Nodes()
	edges := g.Edges()

	out := Snapshot{
		Nodes: make([]NodeRecord, len(nodes)),
		Links: make([]LinkRecord, len(edges)),
	}

	for i, n := range nodes {
		out.Nodes[i] = nodeRecord(n)
	}
	for i, e := range edges {
		out.Links[i] = LinkRecord{Source: e.From, Target: e.To, Weight: e.Weight}
	}
	return out
}

// ToGraph converts a snapshot back to a graph. Returns an error when
// a record carries an unknown kind or the structure is inconsistent
// (duplicate IDs, dangling link endpoints).
func ToGraph(s Snapshot) (*Graph, error) {
	g := New()

	for _, r := range s.Nodes {
		attrs, err := recordAttrs(r)
		if err != nil {
			return nil, err
		}
		if err := g.AddNode(Node{ID: r.ID, Attrs: attrs}); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "add node %s", r.ID)
		}
	}

	for _, l := range s.Links {
		if err := g.AddEdge(Edge{From: l.Source, To: l.Target, Weight: l.Weight}); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "add link %s-%s", l.Source, l.Target)
		}
	}
	return g, nil
}

// UnmarshalSnapshot deserializes JSON bytes to a Snapshot.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode graph snapshot")
	}
	return s, nil
}

// =============================================================================
// Internal Helpers
// =============================================================================

func nodeRecord(n *Node) NodeRecord {
	r := NodeRecord{ID: n.ID, Kind: n.Attrs.Kind()}

	switch a := n.Attrs.(type) {
	case AreaNode:
		r.OriginX = a.Room.OriginX
		r.OriginY = a.Room.OriginY
		r.EndX = a.Room.EndX
		r.EndY = a.Room.EndY
		r.Corridor = a.Room.Corridor
	case ResourceNode:
		r.X = a.X
		r.Y = a.Y
		r.Symbol = string(a.Symbol)
	case TileNode:
		r.X = a.X
		r.Y = a.Y
		r.Symbol = string(a.Symbol)
		r.Visibility = a.Visibility
	case CornerNode:
		r.X = a.X
		r.Y = a.Y
	}
	return r
}

func recordAttrs(r NodeRecord) (Attrs, error) {
	switch r.Kind {
	case KindArea:
		return AreaNode{Room: arena.Room{
			OriginX:  r.OriginX,
			OriginY:  r.OriginY,
			EndX:     r.EndX,
			EndY:     r.EndY,
			Corridor: r.Corridor,
		}}, nil
	case KindResource:
		if len(r.Symbol) != 1 {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "node %s: resource symbol %q must be a single character", r.ID, r.Symbol)
		}
		return ResourceNode{X: r.X, Y: r.Y, Symbol: r.Symbol[0]}, nil
	case KindTile:
		if len(r.Symbol) != 1 {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "node %s: tile symbol %q must be a single character", r.ID, r.Symbol)
		}
		return TileNode{X: r.X, Y: r.Y, Symbol: r.Symbol[0], Visibility: r.Visibility}, nil
	case KindCorner:
		return CornerNode{X: r.X, Y: r.Y}, nil
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "node %s: unknown kind %q", r.ID, r.Kind)
	}
}
