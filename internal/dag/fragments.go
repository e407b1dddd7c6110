package dag

import "sort"

// Fragment is a weakly connected subset of the graph: its nodes share no
// edge with nodes in any other fragment. A schedule split into several
// fragments has activities that cannot influence each other's dates.
type Fragment struct {
	// ID is the integer identifier assigned to this fragment, starting at 0.
	ID int

	// NodeIDs lists the node IDs in this fragment in graph order
	// (topological when the graph is acyclic, insertion order otherwise).
	NodeIDs []string
}

// Fragments partitions the graph into weakly connected fragments using
// Union-Find. Fragments are ordered by size descending, with the position
// of the first member as tiebreaker, and numbered in that order.
func (g *Graph) Fragments() []Fragment {
	if len(g.order) == 0 {
		return nil
	}

	order, _ := g.Order()
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}

	uf := NewUnionFind()
	for _, id := range g.order {
		uf.Add(id)
	}
	for _, from := range g.order {
		for _, to := range g.succ[from] {
			uf.Union(from, to)
		}
	}

	components := uf.Components()
	fragments := make([]Fragment, 0, len(components))
	for _, members := range components {
		sort.Slice(members, func(i, j int) bool {
			return pos[members[i]] < pos[members[j]]
		})
		fragments = append(fragments, Fragment{NodeIDs: members})
	}

	sort.Slice(fragments, func(i, j int) bool {
		if len(fragments[i].NodeIDs) != len(fragments[j].NodeIDs) {
			return len(fragments[i].NodeIDs) > len(fragments[j].NodeIDs)
		}
		return pos[fragments[i].NodeIDs[0]] < pos[fragments[j].NodeIDs[0]]
	})

	for i := range fragments {
		fragments[i].ID = i
	}
	return fragments
}
