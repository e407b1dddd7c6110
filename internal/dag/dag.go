// Package dag provides the directed graph utilities shared by the schedule
// network engine and the validation checks: an insertion-ordered graph,
// Kahn topological ordering with an input-order fallback, cycle detection,
// transitive queries and connected-fragment partitioning.
package dag

import (
	"errors"
	"fmt"
	"sort"
)

// ErrCycle is returned when the graph contains a cycle.
var ErrCycle = errors.New("cycle detected")

// ErrNodeNotFound is returned when an operation references a non-existent node.
var ErrNodeNotFound = errors.New("node not found")

// ErrDuplicateNode is returned when adding a node that already exists.
var ErrDuplicateNode = errors.New("duplicate node")

// ErrSelfEdge is returned when an edge would create a self-loop.
var ErrSelfEdge = errors.New("self-referencing edge")

// Graph is a directed graph whose edges point from a predecessor to a
// successor. Unlike a strict DAG it accepts cycles; callers that need an
// acyclic graph check TopologicalSort or DetectCycle. Nodes and edges keep
// their insertion order so every traversal is deterministic.
type Graph struct {
	order []string
	index map[string]int
	// succ maps nodeID → successor IDs in edge insertion order.
	succ map[string][]string
	// pred maps nodeID → predecessor IDs in edge insertion order.
	pred  map[string][]string
	edges map[[2]string]bool
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		index: make(map[string]int),
		succ:  make(map[string][]string),
		pred:  make(map[string][]string),
		edges: make(map[[2]string]bool),
	}
}

// AddNode appends a node. Returns ErrDuplicateNode if the ID already exists.
func (g *Graph) AddNode(id string) error {
	if _, exists := g.index[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, id)
	}
	g.index[id] = len(g.order)
	g.order = append(g.order, id)
	return nil
}

// AddEdge adds a precedence edge from → to. Both nodes must exist. Adding an
// edge that already exists is a no-op.
func (g *Graph) AddEdge(from, to string) error {
	if from == to {
		return fmt.Errorf("%w: %s", ErrSelfEdge, from)
	}
	if _, ok := g.index[from]; !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, from)
	}
	if _, ok := g.index[to]; !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, to)
	}
	key := [2]string{from, to}
	if g.edges[key] {
		return nil
	}
	g.edges[key] = true
	g.succ[from] = append(g.succ[from], to)
	g.pred[to] = append(g.pred[to], from)
	return nil
}

// Has reports whether the node exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// HasEdge reports whether the edge from → to exists.
func (g *Graph) HasEdge(from, to string) bool {
	return g.edges[[2]string{from, to}]
}

// Nodes returns all node IDs in insertion order.
func (g *Graph) Nodes() []string {
	return append([]string(nil), g.order...)
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Successors returns the direct successors of id in edge insertion order.
func (g *Graph) Successors(id string) []string {
	return append([]string(nil), g.succ[id]...)
}

// Predecessors returns the direct predecessors of id in edge insertion order.
func (g *Graph) Predecessors(id string) []string {
	return append([]string(nil), g.pred[id]...)
}

// Roots returns nodes without predecessors, in insertion order.
func (g *Graph) Roots() []string {
	var roots []string
	for _, id := range g.order {
		if len(g.pred[id]) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// Leaves returns nodes without successors, in insertion order.
func (g *Graph) Leaves() []string {
	var leaves []string
	for _, id := range g.order {
		if len(g.succ[id]) == 0 {
			leaves = append(leaves, id)
		}
	}
	return leaves
}

// TopologicalSort returns node IDs ordered so that every predecessor comes
// before its successors, using Kahn's algorithm. The queue is seeded with
// zero in-degree nodes in insertion order and freed successors are appended
// in edge order. Returns ErrCycle if not every node could be ordered.
func (g *Graph) TopologicalSort() ([]string, error) {
	inDegree := make(map[string]int, len(g.order))
	for _, id := range g.order {
		inDegree[id] = len(g.pred[id])
	}

	var queue []string
	for _, id := range g.order {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	sorted := make([]string, 0, len(g.order))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		sorted = append(sorted, id)

		for _, next := range g.succ[id] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(sorted) != len(g.order) {
		return nil, fmt.Errorf("%w: not all nodes could be ordered (%d of %d)",
			ErrCycle, len(sorted), len(g.order))
	}
	return sorted, nil
}

// Order returns a topological order when one exists and reports true.
// Otherwise it falls back to insertion order and reports false.
func (g *Graph) Order() ([]string, bool) {
	order, err := g.TopologicalSort()
	if err != nil {
		return g.Nodes(), false
	}
	return order, true
}

// DetectCycle returns one cycle as a node path (first node repeated at the
// end is omitted), or nil if the graph is acyclic. Uses DFS with coloring:
// white (unvisited), gray (in progress), black (done).
func (g *Graph) DetectCycle() []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[string]int, len(g.order))
	parent := make(map[string]string)

	var dfs func(node string) []string
	dfs = func(node string) []string {
		color[node] = gray
		for _, next := range g.succ[node] {
			if color[next] == gray {
				cycle := []string{node}
				for cur := node; cur != next; {
					cur = parent[cur]
					cycle = append(cycle, cur)
				}
				for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}
				return cycle
			}
			if color[next] == white {
				parent[next] = node
				if cycle := dfs(next); cycle != nil {
					return cycle
				}
			}
		}
		color[node] = black
		return nil
	}

	for _, id := range g.order {
		if color[id] == white {
			if cycle := dfs(id); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// Ancestors returns every node that can reach id, sorted alphabetically.
// Returns nil if the node does not exist or has no predecessors.
func (g *Graph) Ancestors(id string) []string {
	if !g.Has(id) {
		return nil
	}
	return g.reach(id, g.pred)
}

// Descendants returns every node reachable from id, sorted alphabetically.
// Returns nil if the node does not exist or has no successors.
func (g *Graph) Descendants(id string) []string {
	if !g.Has(id) {
		return nil
	}
	return g.reach(id, g.succ)
}

// HasPath reports whether there is a directed path from src to dst.
func (g *Graph) HasPath(src, dst string) bool {
	if src == dst || !g.Has(src) || !g.Has(dst) {
		return false
	}
	visited := make(map[string]bool)
	queue := []string{src}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range g.succ[cur] {
			if next == dst {
				return true
			}
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

// reach performs a BFS over the given adjacency from id, excluding id.
func (g *Graph) reach(id string, adj map[string][]string) []string {
	visited := map[string]bool{id: true}
	queue := []string{id}
	var result []string
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if !visited[next] {
				visited[next] = true
				result = append(result, next)
				queue = append(queue, next)
			}
		}
	}
	sort.Strings(result)
	return result
}
