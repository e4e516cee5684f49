// Package metrics computes structural measures over level graphs: weighted
// shortest paths, graph diameter, degree normalization, and interval-fit
// scores used to rank rooms during resource placement.
package metrics

import (
	"container/heap"
	"math"

	"github.com/Hanteus/ProjectArena/pkg/graph"
)

// NodeValue pairs a node ID with a computed per-node measure. Slices of
// NodeValue follow the graph's node insertion order.
type NodeValue struct {
	ID    string
	Value float64
}

// ShortestPaths returns the weighted shortest-path distance from source to
// every reachable node, computed with Dijkstra's algorithm. The map contains
// an entry for each reachable node, including source itself with distance 0;
// unreachable nodes have no entry. An unknown source yields nil.
func ShortestPaths(g *graph.Graph, source string) map[string]float64 {
	if _, ok := g.Node(source); !ok {
		return nil
	}

	dist := map[string]float64{source: 0}
	queue := pathQueue{{id: source}}
	for queue.Len() > 0 {
		item := heap.Pop(&queue).(pathItem)
		if item.dist > dist[item.id] {
			continue // stale entry, a shorter path was already settled
		}
		for _, neighbor := range g.Neighbors(item.id) {
			weight, _ := g.Weight(item.id, neighbor)
			candidate := item.dist + weight
			if current, seen := dist[neighbor]; !seen || candidate < current {
				dist[neighbor] = candidate
				heap.Push(&queue, pathItem{id: neighbor, dist: candidate})
			}
		}
	}
	return dist
}

// PathLength returns the weighted shortest-path distance between two nodes.
// The second return value is false when no path exists or either node is
// unknown.
func PathLength(g *graph.Graph, from, to string) (float64, bool) {
	d, ok := ShortestPaths(g, from)[to]
	return d, ok
}

// Diameter returns the largest weighted shortest-path distance between any
// pair of mutually reachable nodes. On a disconnected graph only pairs within
// the same component contribute, so the result underestimates the true extent
// of the level. An empty graph has diameter 0.
func Diameter(g *graph.Graph) float64 {
	var diameter float64
	for _, id := range g.NodeIDs() {
		for _, d := range ShortestPaths(g, id) {
			if d > diameter {
				diameter = d
			}
		}
	}
	return diameter
}

// NormalizedDegrees returns each node's degree divided by the sum of the
// graph's maximum and minimum degree, in node insertion order. Note the
// divisor is the max+min sum, not the usual max-min range. When every node is
// isolated the sum is zero and all normalized degrees are reported as 0.
func NormalizedDegrees(g *graph.Graph) []NodeValue {
	ids := g.NodeIDs()
	if len(ids) == 0 {
		return nil
	}

	lowest, highest := g.Degree(ids[0]), g.Degree(ids[0])
	for _, id := range ids[1:] {
		deg := g.Degree(id)
		if deg < lowest {
			lowest = deg
		}
		if deg > highest {
			highest = deg
		}
	}

	values := make([]NodeValue, len(ids))
	for i, id := range ids {
		var v float64
		if divisor := lowest + highest; divisor > 0 {
			v = float64(g.Degree(id)) / float64(divisor)
		}
		values[i] = NodeValue{ID: id, Value: v}
	}
	return values
}

// IntervalDistance measures how far value sits from the target interval
// [lo, hi] as ||lo|-|value|| + ||hi|-|value||. A value inside the interval
// still has nonzero distance; smaller means a better fit.
func IntervalDistance(lo, hi, value float64) float64 {
	return math.Abs(math.Abs(lo)-math.Abs(value)) + math.Abs(math.Abs(hi)-math.Abs(value))
}

// IntervalFits scores every value against the target interval [lo, hi] and
// rescales the scores across the input so the best-fitting node gets 1 and
// the worst gets 0. When all nodes are equally distant from the interval,
// every node scores 1.
func IntervalFits(values []NodeValue, lo, hi float64) map[string]float64 {
	fits := make(map[string]float64, len(values))
	if len(values) == 0 {
		return fits
	}

	distances := make([]float64, len(values))
	lowest, highest := math.Inf(1), math.Inf(-1)
	for i, v := range values {
		d := IntervalDistance(lo, hi, v.Value)
		distances[i] = d
		if d < lowest {
			lowest = d
		}
		if d > highest {
			highest = d
		}
	}

	if highest == lowest {
		for _, v := range values {
			fits[v.ID] = 1
		}
		return fits
	}
	for i, v := range values {
		fits[v.ID] = 1 - (distances[i]-lowest)/(highest-lowest)
	}
	return fits
}

// pathItem is a pending Dijkstra visit. Items superseded by a shorter settled
// distance are skipped on pop instead of being removed from the heap.
type pathItem struct {
	id   string
	dist float64
}

type pathQueue []pathItem

func (q pathQueue) Len() int           { return len(q) }
func (q pathQueue) Less(i, j int) bool { return q[i].dist < q[j].dist }
func (q pathQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *pathQueue) Push(x any) { *q = append(*q, x.(pathItem)) }

func (q *pathQueue) Pop() any {
	old := *q
	item := old[len(old)-1]
	*q = old[:len(old)-1]
	return item
}
