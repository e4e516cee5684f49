// Package graph provides the level-graph views derived from a reduced
// room list and a tile grid, plus their serialization format.
//
// # Overview
//
// ProjectArena reasons about a level through graphs rather than raw
// geometry. This package builds those graphs and defines the node-link
// snapshot format used for JSON files, API responses, caching, and
// archived runs.
//
// # Graph Views
//
// Five views are built over the same level, each serving a different
// consumer:
//
//   - [NewRoomsGraph]: area nodes with center-distance weighted
//     adjacency; the structure the placement engine searches.
//   - [NewObjectsGraph]: the rooms view plus one resource node per
//     object already present in the grid.
//   - [NewTileGraph]: walkable tiles with king-move adjacency.
//   - [NewVisibilityGraph]: walkable tiles with an edge per mutually
//     visible pair and per-node visible-tile counts.
//   - [NewOutlineGraph]: room rectangle corners chained into loops,
//     for wireframe rendering.
//
// The placement engine extends a rooms graph through
// [Graph.AddResource]; area nodes and their edges are never modified
// after construction.
//
// # Node Payloads
//
// Every node carries a typed payload ([AreaNode], [ResourceNode],
// [TileNode] or [CornerNode]) behind the [Attrs] interface. Payloads
// hold only the fields meaningful for their kind; consumers type-switch
// for anything beyond position.
//
// # Iteration Order
//
// [Graph.Nodes] returns nodes in insertion order. Placement resolves
// score ties by first-encountered node, so this order is load-bearing
// and survives snapshot round-trips.
//
// # Visibility
//
// [VisibilityMatrix] computes the normalized per-tile visibility used
// by tile scoring. The underlying [Visible] test samples the segment
// between two tiles at unit steps along its longer axis; see its doc
// for the accepted approximation.
//
// # Snapshot Serialization
//
// Graphs serialize to a node-link JSON format:
//
//	{
//	  "nodes": [{"id": "r0", "kind": "area", "endX": 3, "endY": 3}],
//	  "links": [{"source": "r0", "target": "r1", "weight": 2.5}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("rooms.json")  // File → Graph
//	graph.WriteGraphFile(g, "out.json")        // Graph → File
//	data, _ := graph.MarshalGraph(g)           // Graph → []byte
//	snap, _ := graph.UnmarshalSnapshot(data)   // []byte → Snapshot
//
// # Concurrency
//
// Graph instances are not safe for concurrent mutation. The visibility
// matrix parallelizes its scan internally but its inputs and outputs
// are plain values; everything else is single-threaded.
package graph
