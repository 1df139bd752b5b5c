// Package graph provides the weighted walkability graph and shortest-path
// search used by the board's enemy pathfinding. Node keys are opaque strings;
// the engine encodes cell coordinates, tests use plain labels.
package graph

import (
	"container/heap"
	"math"
)

// DefaultWeight is used when AddEdge/AddArc receive a non-positive weight.
const DefaultWeight = 1

type edge struct {
	to     string
	weight float64
}

// Graph is a weighted graph with directed arcs; AddEdge inserts both
// directions. Adjacency is kept in insertion-order slices rather than maps so
// that equal-cost searches resolve the same way on every run.
type Graph struct {
	adjacency map[string][]edge
	nodes     []string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{adjacency: make(map[string][]edge)}
}

// AddEdge inserts a bidirectional edge between a and b. A non-positive weight
// falls back to DefaultWeight. Re-adding an existing edge updates its weight.
func (g *Graph) AddEdge(a, b string, weight float64) {
	g.AddArc(a, b, weight)
	g.AddArc(b, a, weight)
}

// AddArc inserts a directed edge from a to b, updating the weight if the arc
// already exists.
func (g *Graph) AddArc(a, b string, weight float64) {
	if weight <= 0 {
		weight = DefaultWeight
	}

	g.ensureNode(a)
	g.ensureNode(b)

	for i, e := range g.adjacency[a] {
		if e.to == b {
			g.adjacency[a][i].weight = weight
			return
		}
	}
	g.adjacency[a] = append(g.adjacency[a], edge{to: b, weight: weight})
}

// HasNode reports whether the node is known to the graph.
func (g *Graph) HasNode(n string) bool {
	_, ok := g.adjacency[n]
	return ok
}

// HasEdge reports whether a directed arc from a to b exists.
func (g *Graph) HasEdge(a, b string) bool {
	for _, e := range g.adjacency[a] {
		if e.to == b {
			return true
		}
	}
	return false
}

func (g *Graph) ensureNode(n string) {
	if _, ok := g.adjacency[n]; !ok {
		g.adjacency[n] = nil
		g.nodes = append(g.nodes, n)
	}
}

// Route is the result of a shortest-path search. An unreachable target yields
// a nil Path and an infinite Distance.
type Route struct {
	Path     []string
	Distance float64
}

// Reachable reports whether the route reaches its target.
func (r Route) Reachable() bool {
	return !math.IsInf(r.Distance, 1)
}

// frontierItem is a pending node in the Dijkstra frontier. seq records
// insertion order so that equal-distance nodes settle first-in first-out,
// keeping results deterministic.
type frontierItem struct {
	node string
	dist float64
	seq  int
}

type frontier []*frontierItem

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].dist != f[j].dist {
		return f[i].dist < f[j].dist
	}
	return f[i].seq < f[j].seq
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(*frontierItem)) }

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*f = old[:n-1]
	return item
}

// ShortestPath runs Dijkstra from start to end over non-negative weights.
// Ties are broken by discovery order: the first settled route wins. If start
// equals end the route is the single node with distance zero. Unknown or
// disconnected endpoints yield an empty route with infinite distance.
func (g *Graph) ShortestPath(start, end string) Route {
	unreachable := Route{Distance: math.Inf(1)}

	if !g.HasNode(start) || !g.HasNode(end) {
		return unreachable
	}
	if start == end {
		return Route{Path: []string{start}, Distance: 0}
	}

	dist := map[string]float64{start: 0}
	prev := make(map[string]string)
	settled := make(map[string]bool)

	seq := 0
	pending := &frontier{{node: start, dist: 0, seq: seq}}
	heap.Init(pending)

	for pending.Len() > 0 {
		current := heap.Pop(pending).(*frontierItem)
		if settled[current.node] {
			continue
		}
		settled[current.node] = true

		if current.node == end {
			break
		}

		for _, e := range g.adjacency[current.node] {
			if settled[e.to] {
				continue
			}
			candidate := dist[current.node] + e.weight
			if known, ok := dist[e.to]; !ok || candidate < known {
				dist[e.to] = candidate
				prev[e.to] = current.node
				seq++
				heap.Push(pending, &frontierItem{node: e.to, dist: candidate, seq: seq})
			}
		}
	}

	if !settled[end] {
		return unreachable
	}

	path := []string{end}
	for node := end; node != start; {
		node = prev[node]
		path = append(path, node)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return Route{Path: path, Distance: dist[end]}
}
