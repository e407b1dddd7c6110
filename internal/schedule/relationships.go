package schedule

import (
	"fmt"
	"math"
	"strings"
)

// ParseRelationType converts a relationship type as written in import files
// ("FS", "ss", "PR_FF", ...) into a RelationType. An empty string yields FS.
func ParseRelationType(s string) (RelationType, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "PR_")
	switch RelationType(s) {
	case "", FinishToStart:
		return FinishToStart, nil
	case StartToStart, FinishToFinish, StartToFinish:
		return RelationType(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRelationType, s)
}

// Valid reports whether t is one of the four precedence types or empty.
func (t RelationType) Valid() bool {
	switch t {
	case "", FinishToStart, StartToStart, FinishToFinish, StartToFinish:
		return true
	}
	return false
}

// CheckLag rejects a lag that is NaN or infinite. Negative lags (leads)
// are valid.
func (r Relationship) CheckLag() error {
	if math.IsNaN(r.LagDays) || math.IsInf(r.LagDays, 0) {
		return &ValidationError{
			Category: ValCatInvalidNumber, ActivityID: r.SuccessorID, Field: "lagDays",
			Err: fmt.Errorf("%w: %v from %s", ErrInvalidNumber, r.LagDays, r.PredecessorID),
		}
	}
	return nil
}

// Link returns copies of the activities with Predecessors and Successors
// rebuilt from the relationship list. Relationships referencing unknown
// activities are ignored and each neighbour is listed once.
func Link(activities []Activity, relationships []Relationship) []Activity {
	out := CloneActivities(activities)
	index := make(map[string]int, len(out))
	for i := range out {
		out[i].Predecessors = []string{}
		out[i].Successors = []string{}
		if _, dup := index[out[i].ID]; !dup {
			index[out[i].ID] = i
		}
	}

	for _, r := range relationships {
		pi, okPred := index[r.PredecessorID]
		si, okSucc := index[r.SuccessorID]
		if !okPred || !okSucc {
			continue
		}
		if !contains(out[pi].Successors, r.SuccessorID) {
			out[pi].Successors = append(out[pi].Successors, r.SuccessorID)
		}
		if !contains(out[si].Predecessors, r.PredecessorID) {
			out[si].Predecessors = append(out[si].Predecessors, r.PredecessorID)
		}
	}
	return out
}

// FindRelationship returns the first relationship from pred to succ.
func FindRelationship(pred, succ string, relationships []Relationship) (Relationship, bool) {
	for _, r := range relationships {
		if r.PredecessorID == pred && r.SuccessorID == succ {
			return r, true
		}
	}
	return Relationship{}, false
}

// Neighbours returns the activities whose IDs appear in ids, in activity order.
func Neighbours(ids []string, activities []Activity) []Activity {
	if len(ids) == 0 {
		return nil
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []Activity
	for _, a := range activities {
		if want[a.ID] {
			out = append(out, a)
		}
	}
	return out
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
