package cpm

import (
	"math"
	"time"

	"github.com/papapumpkin/planworks/internal/dag"
	"github.com/papapumpkin/planworks/internal/schedule"
)

// network is the validated input of one computation.
type network struct {
	ids      []string
	index    map[string]int
	times    []*times
	in       map[string][]schedule.Relationship
	out      map[string][]schedule.Relationship
	rels     []schedule.Relationship
	baseline time.Time
	order    []string
	ordered  bool
}

// Compute runs the forward and backward passes and returns one Metrics
// record per computable activity. Inputs are not modified. Activities with
// unparseable dates, missing IDs or repeated IDs are reported in
// Result.Issues and left out, as are activities whose DurationDays is
// negative or not finite. Relationships touching them, and relationships
// whose lag is not finite, are ignored.
func Compute(activities []schedule.Activity, relationships []schedule.Relationship, opts Options) *Result {
	res := &Result{Converged: true, Ordered: true}
	if len(activities) == 0 {
		return res
	}

	net, issues := build(activities, relationships)
	res.Issues = issues
	if len(net.ids) == 0 {
		return res
	}
	res.Baseline = net.baseline
	res.Ordered = net.ordered
	res.Order = net.order
	res.Relationships = net.rels

	maxIter := opts.maxIterations()

	var fwdOK, bwdOK bool
	res.ForwardIterations, fwdOK = net.forward(maxIter)

	finish := 0
	for i, t := range net.times {
		if t.ef > net.times[finish].ef {
			finish = i
		}
	}
	res.FinishID = net.ids[finish]
	res.ProjectFinish = net.times[finish].ef

	res.BackwardIterations, bwdOK = net.backward(maxIter, res.ProjectFinish)
	res.Converged = fwdOK && bwdOK

	// Anchor the finish so it carries zero float regardless of drift.
	ft := net.times[finish]
	ft.lf = ft.ef
	ft.ls = ft.es

	paths := net.floatPaths(res.FinishID)

	res.Metrics = make([]Metrics, len(net.ids))
	for i, id := range net.ids {
		t := net.times[i]
		tf := math.Min(t.ls-t.es, t.lf-t.ef)
		if math.Abs(tf) < Epsilon {
			tf = 0
		}
		res.Metrics[i] = Metrics{
			ActivityID:      id,
			DurationDays:    t.duration,
			TotalFloatDays:  tf,
			FreeFloatDays:   net.freeFloat(id, tf),
			FloatPathNumber: paths[id],
			ES:              t.es,
			EF:              t.ef,
			LS:              t.ls,
			LF:              t.lf,
			IsCritical:      math.Abs(tf) < Epsilon,
		}
	}
	return res
}

// build validates activities, picks the baseline, initializes times from
// each activity's own dates and orders the network.
func build(activities []schedule.Activity, relationships []schedule.Relationship) (*network, []ActivityIssue) {
	type span struct {
		start, finish time.Time
	}

	net := &network{
		index: make(map[string]int, len(activities)),
		in:    make(map[string][]schedule.Relationship),
		out:   make(map[string][]schedule.Relationship),
	}

	var (
		issues []ActivityIssue
		spans  []span
		durs   []float64
	)
	for _, a := range activities {
		if a.ID == "" {
			issues = append(issues, newIssue(a.ID, &schedule.ValidationError{
				Category: schedule.ValCatMissingID, Err: schedule.ErrMissingID,
			}))
			continue
		}
		if _, dup := net.index[a.ID]; dup {
			issues = append(issues, newIssue(a.ID, &schedule.ValidationError{
				Category: schedule.ValCatDuplicateID, ActivityID: a.ID, Err: schedule.ErrDuplicateID,
			}))
			continue
		}
		start, finish, err := a.Span()
		if err != nil {
			issues = append(issues, newIssue(a.ID, err))
			continue
		}
		dur, err := a.Duration()
		if err != nil {
			issues = append(issues, newIssue(a.ID, err))
			continue
		}

		net.index[a.ID] = len(net.ids)
		net.ids = append(net.ids, a.ID)
		spans = append(spans, span{start, finish})
		durs = append(durs, dur)
	}
	if len(net.ids) == 0 {
		return net, issues
	}

	net.baseline = spans[0].start
	for _, s := range spans[1:] {
		if s.start.Before(net.baseline) {
			net.baseline = s.start
		}
	}

	net.times = make([]*times, len(net.ids))
	for i, s := range spans {
		es := schedule.DaysBetween(net.baseline, s.start)
		ef := schedule.DaysBetween(net.baseline, s.finish)
		net.times[i] = &times{es: es, ef: ef, ls: es, lf: ef, duration: durs[i]}
	}

	g := dag.New()
	for _, id := range net.ids {
		_ = g.AddNode(id) // ids are unique here
	}
	for _, r := range relationships {
		r = r.Normalized()
		if r.CheckLag() != nil {
			continue
		}
		if _, ok := net.index[r.PredecessorID]; !ok {
			continue
		}
		if _, ok := net.index[r.SuccessorID]; !ok {
			continue
		}
		if err := g.AddEdge(r.PredecessorID, r.SuccessorID); err != nil {
			continue
		}
		net.in[r.SuccessorID] = append(net.in[r.SuccessorID], r)
		net.out[r.PredecessorID] = append(net.out[r.PredecessorID], r)
		net.rels = append(net.rels, r)
	}
	net.order, net.ordered = g.Order()
	return net, issues
}

func newIssue(id string, err error) ActivityIssue {
	return ActivityIssue{ActivityID: id, Message: err.Error(), Err: err}
}

func (n *network) at(id string) *times {
	return n.times[n.index[id]]
}

// forward runs the forward pass until no early time moves by more than
// Epsilon or the cap is reached. Activities without predecessors keep their
// own early start.
func (n *network) forward(maxIter int) (int, bool) {
	for iter := 1; iter <= maxIter; iter++ {
		moved := false
		for _, id := range n.order {
			t := n.at(id)
			es := t.es
			if preds := n.in[id]; len(preds) > 0 {
				es = math.Inf(-1)
				for _, r := range preds {
					es = math.Max(es, earliestStart(n.at(r.PredecessorID), t, r.Type, r.LagDays))
				}
			}
			ef := es + t.duration
			if changed(es, t.es) || changed(ef, t.ef) {
				t.es, t.ef = es, ef
				moved = true
			}
		}
		if !moved {
			return iter, true
		}
	}
	return maxIter, false
}

// backward runs the backward pass in reverse order. Terminal activities
// finish at projectFinish; no late finish exceeds it.
func (n *network) backward(maxIter int, projectFinish float64) (int, bool) {
	for iter := 1; iter <= maxIter; iter++ {
		moved := false
		for i := len(n.order) - 1; i >= 0; i-- {
			id := n.order[i]
			t := n.at(id)
			lf := projectFinish
			for _, r := range n.out[id] {
				lf = math.Min(lf, latestFinish(t, n.at(r.SuccessorID), r.Type, r.LagDays))
			}
			ls := lf - t.duration
			if changed(lf, t.lf) || changed(ls, t.ls) {
				t.lf, t.ls = lf, ls
				moved = true
			}
		}
		if !moved {
			return iter, true
		}
	}
	return maxIter, false
}

// freeFloat is the smallest slack to any immediate successor, floored at
// zero and capped at total float. Terminal activities use their total float.
func (n *network) freeFloat(id string, totalFloat float64) float64 {
	succs := n.out[id]
	if len(succs) == 0 {
		return totalFloat
	}
	t := n.at(id)
	ff := math.Inf(1)
	for _, r := range succs {
		ff = math.Min(ff, slack(t, n.at(r.SuccessorID), r.Type, r.LagDays))
	}
	if ff < Epsilon {
		return 0
	}
	return math.Min(ff, math.Max(totalFloat, 0))
}
