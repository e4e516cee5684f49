package graph

import (
	"errors"
	"slices"

	"github.com/Hanteus/ProjectArena/pkg/arena"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with
	// the same ID already exists. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownEndpoint is returned by [Graph.AddEdge] when either
	// endpoint does not exist in the graph.
	ErrUnknownEndpoint = errors.New("unknown edge endpoint")
)

// Node is a vertex in a level graph. Its payload describes what the
// vertex stands for: a room rectangle, a placed object, a walkable
// tile or an outline corner.
//
// The zero value is not usable - ID and Attrs must be set before
// adding to a Graph.
type Node struct {
	ID    string
	Attrs Attrs
}

// Edge is an undirected weighted connection between two nodes.
// From/To record the order the endpoints were passed to AddEdge;
// the graph itself treats them symmetrically.
type Edge struct {
	From   string
	To     string
	Weight float64
}

// Graph is an undirected weighted graph with insertion-ordered node
// iteration. The placement engine breaks score ties by first-encountered
// node, so iteration order is part of the contract: [Graph.Nodes] and
// [Graph.NodeIDs] always return nodes in the order they were added.
//
// Adding an edge that already exists (in either direction) updates its
// weight instead of duplicating it.
//
// The zero value is not usable - use New to create a Graph.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	nodes map[string]*Node
	order []string
	edges []Edge
	index map[edgeKey]int     // canonical endpoint pair -> position in edges
	adj   map[string][]string // nodeID -> neighbor IDs, insertion order
}

// edgeKey identifies an undirected edge regardless of endpoint order.
type edgeKey struct {
	a, b string
}

func newEdgeKey(from, to string) edgeKey {
	if from > to {
		from, to = to, from
	}
	return edgeKey{a: from, b: to}
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		index: make(map[edgeKey]int),
		adj:   make(map[string][]string),
	}
}

// AddNode adds a node to the graph. Returns ErrInvalidNodeID if the
// node ID is empty, or ErrDuplicateNodeID if a node with the same ID
// already exists.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := &n
	g.nodes[node.ID] = node
	g.order = append(g.order, node.ID)
	return nil
}

// AddEdge adds an undirected edge between two existing nodes, or
// updates the weight if the pair is already connected. Returns
// ErrUnknownEndpoint if either node doesn't exist.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return ErrUnknownEndpoint
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrUnknownEndpoint
	}

	key := newEdgeKey(e.From, e.To)
	if i, ok := g.index[key]; ok {
		g.edges[i].Weight = e.Weight
		return nil
	}

	g.index[key] = len(g.edges)
	g.edges = append(g.edges, e)
	g.adj[e.From] = append(g.adj[e.From], e.To)
	g.adj[e.To] = append(g.adj[e.To], e.From)
	return nil
}

// Node returns the node with the given ID and true, or nil and false
// if not found. The returned pointer refers to the actual node, so
// payload updates through it affect the graph.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order. The returned slice
// contains pointers to the actual node structs.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, len(g.order))
	for i, id := range g.order {
		nodes[i] = g.nodes[id]
	}
	return nodes
}

// NodeIDs returns all node IDs in insertion order.
func (g *Graph) NodeIDs() []string { return slices.Clone(g.order) }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Neighbors returns the IDs of nodes sharing an edge with this node,
// in the order the edges were added. Returns nil for an unknown or
// isolated node. The returned slice should not be modified.
func (g *Graph) Neighbors(id string) []string { return g.adj[id] }

// Degree returns the number of edges incident to the node.
// Returns 0 if the node doesn't exist.
func (g *Graph) Degree(id string) int { return len(g.adj[id]) }

// HasEdge reports whether the two nodes are connected, in either
// endpoint order.
func (g *Graph) HasEdge(a, b string) bool {
	_, ok := g.index[newEdgeKey(a, b)]
	return ok
}

// Weight returns the weight of the edge between two nodes and true,
// or 0 and false when no such edge exists.
func (g *Graph) Weight(a, b string) (float64, bool) {
	i, ok := g.index[newEdgeKey(a, b)]
	if !ok {
		return 0, false
	}
	return g.edges[i].Weight, true
}

// Area returns the rectangle payload of an area node, or false when
// the node is missing or carries a different payload.
func (g *Graph) Area(id string) (AreaNode, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return AreaNode{}, false
	}
	a, ok := n.Attrs.(AreaNode)
	return a, ok
}

// Resource returns the placed-object payload of a resource node, or
// false when the node is missing or carries a different payload.
func (g *Graph) Resource(id string) (ResourceNode, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return ResourceNode{}, false
	}
	r, ok := n.Attrs.(ResourceNode)
	return r, ok
}

// AddResource inserts a placed object into a rooms graph: a resource
// node at the tile, plus one weighted edge to every area node whose
// rectangle contains the tile (weight = distance from area center to
// the tile). Area nodes and their edges are never modified, so a rooms
// graph only ever grows by resource nodes and their containment edges.
func (g *Graph) AddResource(x, y int, symbol byte) error {
	id := ResourceID(x, y)
	if err := g.AddNode(Node{ID: id, Attrs: ResourceNode{X: x, Y: y, Symbol: symbol}}); err != nil {
		return err
	}

	for _, areaID := range g.order {
		a, ok := g.Area(areaID)
		if !ok || !a.Room.ContainsTile(x, y) {
			continue
		}
		w := arena.EuclideanDistance(a.Room.CenterX(), a.Room.CenterY(), float64(x), float64(y))
		if err := g.AddEdge(Edge{From: areaID, To: id, Weight: w}); err != nil {
			return err
		}
	}
	return nil
}
