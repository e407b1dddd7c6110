package cpm

// drivingPredecessors maps each activity to the predecessors whose
// relationship binds its early times, in relationship order.
func (n *network) drivingPredecessors() map[string][]string {
	drivers := make(map[string][]string)
	for _, id := range n.ids {
		t := n.at(id)
		for _, r := range n.in[id] {
			if !driving(n.at(r.PredecessorID), t, r.Type, r.LagDays) {
				continue
			}
			if containsID(drivers[id], r.PredecessorID) {
				continue
			}
			drivers[id] = append(drivers[id], r.PredecessorID)
		}
	}
	return drivers
}

// floatPaths numbers the network by walking driving predecessors
// breadth-first from the finish, which is path 1. The first driving
// predecessor of an activity stays on that activity's path; each further
// unassigned one opens the next number. Activities never reached share one
// trailing number.
func (n *network) floatPaths(finishID string) map[string]int {
	drivers := n.drivingPredecessors()

	paths := map[string]int{finishID: 1}
	next := 2
	queued := map[string]bool{finishID: true}
	queue := []string{finishID}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		path := paths[id]

		for i, pred := range drivers[id] {
			if _, ok := paths[pred]; !ok {
				if i == 0 {
					paths[pred] = path
				} else {
					paths[pred] = next
					next++
				}
			}
			if !queued[pred] {
				queued[pred] = true
				queue = append(queue, pred)
			}
		}
	}

	for _, id := range n.ids {
		if _, ok := paths[id]; !ok {
			paths[id] = next
		}
	}
	return paths
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
