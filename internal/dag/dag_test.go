package dag

import (
	"errors"
	"reflect"
	"testing"
)

// edgeSpec is a predecessor → successor pair.
type edgeSpec struct {
	from, to string
}

func buildGraph(t *testing.T, nodes []string, edges []edgeSpec) *Graph {
	t.Helper()
	g := New()
	for _, id := range nodes {
		if err := g.AddNode(id); err != nil {
			t.Fatalf("AddNode(%q): %v", id, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(e.from, e.to); err != nil {
			t.Fatalf("AddEdge(%q, %q): %v", e.from, e.to, err)
		}
	}
	return g
}

// validTopologicalOrder checks that every predecessor appears before its
// successor in the ordering.
func validTopologicalOrder(g *Graph, order []string) bool {
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	for key := range g.edges {
		if pos[key[0]] >= pos[key[1]] {
			return false
		}
	}
	return true
}

func TestNew(t *testing.T) {
	t.Parallel()
	g := New()
	if g.Len() != 0 {
		t.Errorf("new graph has %d nodes, want 0", g.Len())
	}
	if nodes := g.Nodes(); len(nodes) != 0 {
		t.Errorf("new graph Nodes() = %v, want empty", nodes)
	}
	if g.Fragments() != nil {
		t.Error("empty graph should have no fragments")
	}
}

func TestAddNode(t *testing.T) {
	t.Parallel()
	g := New()
	if err := g.AddNode("a"); err != nil {
		t.Fatalf("AddNode(a): %v", err)
	}
	err := g.AddNode("a")
	if !errors.Is(err, ErrDuplicateNode) {
		t.Errorf("duplicate AddNode error = %v, want ErrDuplicateNode", err)
	}
	if !g.Has("a") || g.Has("b") {
		t.Error("Has() reports wrong membership")
	}
}

func TestAddEdge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		from    string
		to      string
		wantErr error
	}{
		{name: "valid", from: "a", to: "b"},
		{name: "self loop", from: "a", to: "a", wantErr: ErrSelfEdge},
		{name: "missing from", from: "x", to: "b", wantErr: ErrNodeNotFound},
		{name: "missing to", from: "a", to: "x", wantErr: ErrNodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := buildGraph(t, []string{"a", "b"}, nil)
			err := g.AddEdge(tt.from, tt.to)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("AddEdge: %v", err)
				}
				if !g.HasEdge(tt.from, tt.to) {
					t.Errorf("edge %s → %s missing", tt.from, tt.to)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddEdge error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddEdge_Duplicate(t *testing.T) {
	t.Parallel()
	g := buildGraph(t, []string{"a", "b"}, []edgeSpec{{"a", "b"}, {"a", "b"}})
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if got := g.Successors("a"); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("Successors(a) = %v, want [b]", got)
	}
}

func TestNeighbours(t *testing.T) {
	t.Parallel()
	g := buildGraph(t, []string{"a", "b", "c", "d"},
		[]edgeSpec{{"a", "c"}, {"b", "c"}, {"c", "d"}})

	if got := g.Predecessors("c"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Predecessors(c) = %v, want [a b]", got)
	}
	if got := g.Successors("c"); !reflect.DeepEqual(got, []string{"d"}) {
		t.Errorf("Successors(c) = %v, want [d]", got)
	}
	if got := g.Roots(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Roots() = %v, want [a b]", got)
	}
	if got := g.Leaves(); !reflect.DeepEqual(got, []string{"d"}) {
		t.Errorf("Leaves() = %v, want [d]", got)
	}
}

func TestTopologicalSort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		nodes []string
		edges []edgeSpec
		want  []string
	}{
		{
			name:  "insertion order without edges",
			nodes: []string{"c", "a", "b"},
			want:  []string{"c", "a", "b"},
		},
		{
			name:  "chain declared backwards",
			nodes: []string{"c", "b", "a"},
			edges: []edgeSpec{{"a", "b"}, {"b", "c"}},
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "diamond",
			nodes: []string{"a", "b", "c", "d"},
			edges: []edgeSpec{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}},
			want:  []string{"a", "b", "c", "d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := buildGraph(t, tt.nodes, tt.edges)
			got, err := g.TopologicalSort()
			if err != nil {
				t.Fatalf("TopologicalSort: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TopologicalSort() = %v, want %v", got, tt.want)
			}
			if !validTopologicalOrder(g, got) {
				t.Errorf("order %v violates an edge", got)
			}
		})
	}
}

func TestTopologicalSort_Cycle(t *testing.T) {
	t.Parallel()
	g := buildGraph(t, []string{"a", "b", "c"},
		[]edgeSpec{{"a", "b"}, {"b", "c"}, {"c", "a"}})

	if _, err := g.TopologicalSort(); !errors.Is(err, ErrCycle) {
		t.Errorf("TopologicalSort error = %v, want ErrCycle", err)
	}

	order, ok := g.Order()
	if ok {
		t.Error("Order() reported acyclic for a cycle")
	}
	if !reflect.DeepEqual(order, []string{"a", "b", "c"}) {
		t.Errorf("Order() fallback = %v, want insertion order", order)
	}
}

func TestDetectCycle(t *testing.T) {
	t.Parallel()

	acyclic := buildGraph(t, []string{"a", "b"}, []edgeSpec{{"a", "b"}})
	if cycle := acyclic.DetectCycle(); cycle != nil {
		t.Errorf("DetectCycle() = %v on acyclic graph", cycle)
	}

	g := buildGraph(t, []string{"s", "a", "b", "c"},
		[]edgeSpec{{"s", "a"}, {"a", "b"}, {"b", "c"}, {"c", "a"}})
	cycle := g.DetectCycle()
	if len(cycle) != 3 {
		t.Fatalf("DetectCycle() = %v, want 3 nodes", cycle)
	}
	for i, id := range cycle {
		next := cycle[(i+1)%len(cycle)]
		if !g.HasEdge(id, next) {
			t.Errorf("cycle %v: no edge %s → %s", cycle, id, next)
		}
	}
}

func TestAncestorsDescendants(t *testing.T) {
	t.Parallel()
	g := buildGraph(t, []string{"a", "b", "c", "d", "e"},
		[]edgeSpec{{"a", "b"}, {"b", "c"}, {"d", "c"}})

	if got := g.Ancestors("c"); !reflect.DeepEqual(got, []string{"a", "b", "d"}) {
		t.Errorf("Ancestors(c) = %v, want [a b d]", got)
	}
	if got := g.Descendants("a"); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("Descendants(a) = %v, want [b c]", got)
	}
	if got := g.Ancestors("e"); got != nil {
		t.Errorf("Ancestors(e) = %v, want nil", got)
	}
	if got := g.Descendants("missing"); got != nil {
		t.Errorf("Descendants(missing) = %v, want nil", got)
	}
}

func TestHasPath(t *testing.T) {
	t.Parallel()
	g := buildGraph(t, []string{"a", "b", "c", "d"},
		[]edgeSpec{{"a", "b"}, {"b", "c"}})

	tests := []struct {
		src, dst string
		want     bool
	}{
		{"a", "c", true},
		{"c", "a", false},
		{"a", "d", false},
		{"a", "a", false},
		{"a", "missing", false},
	}
	for _, tt := range tests {
		if got := g.HasPath(tt.src, tt.dst); got != tt.want {
			t.Errorf("HasPath(%s, %s) = %v, want %v", tt.src, tt.dst, got, tt.want)
		}
	}
}

func TestNodes_ReturnsCopy(t *testing.T) {
	t.Parallel()
	g := buildGraph(t, []string{"a", "b"}, nil)
	nodes := g.Nodes()
	nodes[0] = "z"
	if g.Nodes()[0] != "a" {
		t.Error("mutating Nodes() result changed the graph")
	}
}
