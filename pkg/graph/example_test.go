package graph_test

import (
	"fmt"

	"github.com/Hanteus/ProjectArena/pkg/arena"
	"github.com/Hanteus/ProjectArena/pkg/graph"
)

func ExampleNewRoomsGraph() {
	// Two overlapping rooms and a corridor threading through both.
	rooms := []arena.Room{
		{OriginX: 0, OriginY: 0, EndX: 3, EndY: 3},
		{OriginX: 3, OriginY: 2, EndX: 6, EndY: 5},
		{OriginX: 2, OriginY: 3, EndX: 4, EndY: 4, Corridor: true},
	}

	g := graph.NewRoomsGraph(rooms)
	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Degree of r2:", g.Degree("r2"))
	// Output:
	// Nodes: 3
	// Edges: 3
	// Degree of r2: 2
}

func ExampleGraph_AddResource() {
	g := graph.NewRoomsGraph([]arena.Room{
		{OriginX: 0, OriginY: 0, EndX: 3, EndY: 3},
	})

	_ = g.AddResource(1, 2, 's')

	r, _ := g.Resource(graph.ResourceID(1, 2))
	fmt.Printf("Placed %q at (%d,%d)\n", r.Symbol, r.X, r.Y)
	fmt.Println("Linked areas:", g.Neighbors(graph.ResourceID(1, 2)))
	// Output:
	// Placed 's' at (1,2)
	// Linked areas: [r0]
}
