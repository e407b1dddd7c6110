package layout

import (
	"sort"
	"time"
	"unicode/utf8"

	"github.com/papapumpkin/planworks/internal/schedule"
)

// heuristic describes one candidate-generation strategy. pick selects and
// orders the row-sharing opportunities it will try, greedily, in order.
type heuristic struct {
	algorithm   Algorithm
	id          string
	name        string
	description string
	constraints []string
	pick        func(p *planner, opps []Opportunity, c Constraints) []Opportunity
}

// heuristics returns the strategies in generation order.
func heuristics() []heuristic {
	return []heuristic{
		{
			algorithm:   MaxCompression,
			id:          "max_compression",
			name:        "Maximum Compression",
			description: "Aggressive space optimization with maximum row sharing",
			constraints: []string{"time_overlap_prevention"},
			pick:        pickMaxCompression,
		},
		{
			algorithm:   Balanced,
			id:          "balanced",
			name:        "Balanced Optimization",
			description: "Balanced approach optimizing space while maintaining readability",
			constraints: []string{"critical_path_preservation", "readability_maintenance"},
			pick:        pickBalanced,
		},
		{
			algorithm:   StructurePreserving,
			id:          "structure_preserving",
			name:        "Structure Preserving",
			description: "Maintains WBS grouping while optimizing space",
			constraints: []string{"wbs_grouping_preservation"},
			pick:        pickStructurePreserving,
		},
		{
			algorithm:   CriticalPathFocus,
			id:          "critical_path_focus",
			name:        "Critical Path Focus",
			description: "Optimizes non-critical activities while preserving critical path",
			constraints: []string{"critical_path_preservation"},
			pick:        pickCriticalPathFocus,
		},
	}
}

// planner holds the activity lookups shared by every heuristic. An
// activity's original row is its index in the input.
type planner struct {
	activities []schedule.Activity
	row        map[string]int
}

func newPlanner(activities []schedule.Activity) *planner {
	p := &planner{activities: activities, row: make(map[string]int, len(activities))}
	for i, a := range activities {
		if _, dup := p.row[a.ID]; !dup {
			p.row[a.ID] = i
		}
	}
	return p
}

func (p *planner) activity(id string) (schedule.Activity, bool) {
	i, ok := p.row[id]
	if !ok {
		return schedule.Activity{}, false
	}
	return p.activities[i], true
}

// gapDays is the idle time between two non-overlapping activities, zero
// when either span does not parse.
func (p *planner) gapDays(id1, id2 string) float64 {
	a1, ok1 := p.activity(id1)
	a2, ok2 := p.activity(id2)
	if !ok1 || !ok2 {
		return 0
	}
	s1, f1, err1 := a1.Span()
	s2, f2, err2 := a2.Span()
	if err1 != nil || err2 != nil {
		return 0
	}
	return max(0, schedule.DaysBetween(f1, s2), schedule.DaysBetween(f2, s1))
}

func (p *planner) critical(id string) bool {
	a, ok := p.activity(id)
	return ok && a.IsCritical
}

// canShare reports whether two activities may be merged onto one row:
// both exist, neither has moved yet and their spans do not overlap.
func (p *planner) canShare(id1, id2 string, moved map[string]bool) bool {
	if moved[id1] || moved[id2] {
		return false
	}
	a1, ok1 := p.activity(id1)
	a2, ok2 := p.activity(id2)
	if !ok1 || !ok2 {
		return false
	}
	s1, f1, err := a1.Span()
	if err != nil {
		return false
	}
	s2, f2, err := a2.Span()
	if err != nil {
		return false
	}
	return !schedule.Overlaps(s1, f1, s2, f2)
}

// GenerateCandidates runs the four heuristics over the row-sharing
// opportunities and returns the candidates ranked by score. A heuristic
// that moves nothing yields no candidate; with no candidates BestCandidate
// is nil.
func GenerateCandidates(activities []schedule.Activity, opportunities []Opportunity, c Constraints) *Result {
	began := time.Now()
	p := newPlanner(activities)
	opps := rowSharing(opportunities, c)

	var candidates []Candidate
	for _, h := range heuristics() {
		if cand, ok := p.run(h, opps, c); ok {
			candidates = append(candidates, cand)
		}
	}
	rank(candidates)

	res := &Result{Candidates: candidates, Algorithm: MultiAlgorithm}
	if len(candidates) > 0 {
		res.BestCandidate = &res.Candidates[0]
		res.TotalSpaceSavings = res.BestCandidate.SpaceSavings
	}
	res.Recommended = recommend(res.Candidates, p, c)
	res.ProcessingTime = time.Since(began)
	return res
}

// rowSharing keeps the row_sharing opportunities. Sharing is impossible
// when fewer than two activities may be drawn concurrently on a row.
func rowSharing(opportunities []Opportunity, c Constraints) []Opportunity {
	if c.MaxConcurrentActivities < 2 {
		return nil
	}
	var out []Opportunity
	for _, o := range opportunities {
		if o.Type != RowSharing || len(o.ActivityIDs) < 2 {
			continue
		}
		out = append(out, o)
	}
	return out
}

// run applies the heuristic's opportunities first-come-first-served. Each
// merge moves both activities to the lower of their original rows.
func (p *planner) run(h heuristic, opps []Opportunity, c Constraints) (Candidate, bool) {
	moved := make(map[string]bool)
	var (
		moves   []Move
		savings int
	)
	for _, o := range h.pick(p, opps, c) {
		id1, id2 := o.ActivityIDs[0], o.ActivityIDs[1]
		if !p.canShare(id1, id2, moved) {
			continue
		}
		r1, r2 := p.row[id1], p.row[id2]
		target := min(r1, r2)
		moves = append(moves,
			Move{ID: id1, OriginalRow: r1, OptimizedRow: target, RowChange: target - r1, PairedWith: id2},
			Move{ID: id2, OriginalRow: r2, OptimizedRow: target, RowChange: target - r2, PairedWith: id1},
		)
		moved[id1], moved[id2] = true, true
		savings += o.SpaceSavings
	}
	if len(moves) == 0 {
		return Candidate{}, false
	}
	return Candidate{
		ID:           h.id,
		Name:         h.name,
		Description:  h.description,
		SpaceSavings: savings,
		Moves:        moves,
		Constraints:  h.constraints,
		Score:        score(savings, len(moves), h.algorithm),
		Algorithm:    h.algorithm,
	}, true
}

func bySavings(opps []Opportunity) []Opportunity {
	sorted := append([]Opportunity(nil), opps...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SpaceSavings > sorted[j].SpaceSavings
	})
	return sorted
}

func head(opps []Opportunity, n int) []Opportunity {
	if n < 0 {
		n = 0
	}
	if len(opps) > n {
		return opps[:n]
	}
	return opps
}

func pickMaxCompression(_ *planner, opps []Opportunity, c Constraints) []Opportunity {
	return head(bySavings(opps), c.MaxRowChanges)
}

func pickBalanced(p *planner, opps []Opportunity, c Constraints) []Opportunity {
	var keep []Opportunity
	for _, o := range opps {
		ok := true
		for _, id := range o.ActivityIDs {
			a, found := p.activity(id)
			if !found || a.IsCritical {
				ok = false
				break
			}
		}
		if ok {
			keep = append(keep, o)
		}
	}
	return head(bySavings(keep), min(50, c.MaxRowChanges))
}

func pickStructurePreserving(p *planner, opps []Opportunity, _ Constraints) []Opportunity {
	var groups []string
	seen := make(map[string]bool)
	for _, a := range p.activities {
		g := GroupKey(a.ID)
		if !seen[g] {
			seen[g] = true
			groups = append(groups, g)
		}
	}

	var out []Opportunity
	for _, g := range groups {
		var within []Opportunity
		for _, o := range opps {
			if sameGroup(p, o.ActivityIDs, g) {
				within = append(within, o)
			}
		}
		out = append(out, head(within, 10)...)
	}
	return out
}

func sameGroup(p *planner, ids []string, group string) bool {
	for _, id := range ids {
		if _, ok := p.row[id]; !ok || GroupKey(id) != group {
			return false
		}
	}
	return true
}

func pickCriticalPathFocus(p *planner, opps []Opportunity, _ Constraints) []Opportunity {
	var keep []Opportunity
	for _, o := range opps {
		ok := true
		for _, id := range o.ActivityIDs {
			if p.critical(id) {
				ok = false
				break
			}
		}
		if ok {
			keep = append(keep, o)
		}
	}
	return head(keep, 30)
}

// GroupKey is the structural group of an activity: the first character of
// its ID, standing in for its WBS placement.
func GroupKey(id string) string {
	r, size := utf8.DecodeRuneInString(id)
	if size == 0 {
		return ""
	}
	return string(r)
}

// score rewards saved rows, slightly penalizes moves and favours the
// balanced heuristic. Never negative.
func score(savings, changes int, alg Algorithm) float64 {
	s := float64(savings)*10 - float64(changes)*0.1
	if alg == Balanced {
		s += 5
	}
	return max(0, s)
}

// rank sorts candidates by score, best first, then adds a ranking bonus of
// half a point per place from the bottom.
func rank(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	n := len(candidates)
	for i := range candidates {
		candidates[i].Score += float64(n-i) * 0.5
	}
}

// recommend returns the best-ranked candidate that moves no critical
// activity when PreserveCriticalPath is set, only pairs activities of one
// group when PreserveWBSGrouping is set and only pairs activities at least
// MinGapDuration days apart.
func recommend(candidates []Candidate, p *planner, c Constraints) *Candidate {
	for i := range candidates {
		if acceptable(&candidates[i], p, c) {
			return &candidates[i]
		}
	}
	return nil
}

func acceptable(cand *Candidate, p *planner, c Constraints) bool {
	for _, m := range cand.Moves {
		if c.PreserveCriticalPath && p.critical(m.ID) {
			return false
		}
		if c.PreserveWBSGrouping && GroupKey(m.ID) != GroupKey(m.PairedWith) {
			return false
		}
		if p.gapDays(m.ID, m.PairedWith) < c.MinGapDuration {
			return false
		}
	}
	return true
}

// Apply returns copies of the activities annotated with the candidate's
// rows. Activities the candidate does not move keep their original row
// index and a zero row change. A nil candidate leaves every row unchanged.
func Apply(activities []schedule.Activity, candidate *Candidate) []schedule.Activity {
	out := schedule.CloneActivities(activities)
	moves := make(map[string]Move)
	if candidate != nil {
		for _, m := range candidate.Moves {
			moves[m.ID] = m
		}
	}

	done := make(map[string]bool, len(out))
	for i := range out {
		row, change := i, 0
		if m, ok := moves[out[i].ID]; ok && !done[out[i].ID] {
			row, change = m.OptimizedRow, m.RowChange
		}
		done[out[i].ID] = true
		out[i].OptimizedRow = &row
		out[i].RowChange = change
	}
	return out
}
