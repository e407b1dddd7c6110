package check

import (
	"context"
	"fmt"
	"time"

	"github.com/papapumpkin/planworks/internal/dag"
	"github.com/papapumpkin/planworks/internal/schedule"
)

// Check is a single named check in the chain.
type Check struct {
	Name     string
	Severity Severity
	Fn       func(ctx context.Context, p *schedule.Project) []error
}

var _ Validator = (*Chain)(nil)

// Chain runs checks sequentially, stopping after the first failed
// error-level check.
type Chain struct {
	Checks []Check
}

// Run executes each check in sequence. A non-nil error is only returned
// when the context is cancelled; findings are captured in CheckResult.
func (c *Chain) Run(ctx context.Context, p *schedule.Project) (*Result, error) {
	result := &Result{Passed: true}

	for _, check := range c.Checks {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("check chain cancelled: %w", err)
		}

		start := time.Now()
		findings := check.Fn(ctx, p)
		elapsed := time.Since(start)

		cr := CheckResult{
			Name:     check.Name,
			Severity: check.Severity,
			Passed:   len(findings) == 0,
			Findings: findings,
			Elapsed:  elapsed,
		}
		result.Checks = append(result.Checks, cr)

		if !cr.Passed && check.Severity == SeverityError {
			result.Passed = false
			return result, nil
		}
	}

	return result, nil
}

// DefaultChain returns the standard pre-computation chain: ids, dates,
// relationships and cycles as errors; dangling relationships, isolated
// activities and disconnected fragments as warnings.
func DefaultChain() *Chain {
	return &Chain{Checks: []Check{
		{Name: "ids", Severity: SeverityError, Fn: idsCheck},
		{Name: "dates", Severity: SeverityError, Fn: datesCheck},
		{Name: "relationships", Severity: SeverityError, Fn: relationshipsCheck},
		{Name: "cycles", Severity: SeverityError, Fn: cyclesCheck},
		{Name: "dangling", Severity: SeverityWarning, Fn: danglingCheck},
		{Name: "isolated", Severity: SeverityWarning, Fn: isolatedCheck},
		{Name: "fragments", Severity: SeverityWarning, Fn: fragmentsCheck},
	}}
}

// idsCheck reports activities without an ID and repeated IDs.
func idsCheck(_ context.Context, p *schedule.Project) []error {
	var errs []error
	seen := make(map[string]bool, len(p.Activities))
	for i, a := range p.Activities {
		if a.ID == "" {
			errs = append(errs, &schedule.ValidationError{
				Category: schedule.ValCatMissingID,
				Field:    fmt.Sprintf("activities[%d]", i),
				Err:      schedule.ErrMissingID,
			})
			continue
		}
		if seen[a.ID] {
			errs = append(errs, &schedule.ValidationError{
				Category: schedule.ValCatDuplicateID, ActivityID: a.ID, Field: "id",
				Err: schedule.ErrDuplicateID,
			})
		}
		seen[a.ID] = true
	}
	return errs
}

// datesCheck reports unparseable dates, finishes before starts and
// durations that are negative or not finite.
func datesCheck(_ context.Context, p *schedule.Project) []error {
	var errs []error
	for _, a := range p.Activities {
		start, finish, err := a.Span()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if finish.Before(start) {
			errs = append(errs, &schedule.ValidationError{
				Category: schedule.ValCatSpan, ActivityID: a.ID, Field: "finish",
				Err: fmt.Errorf("%w: %s < %s", schedule.ErrFinishBeforeStart, a.Finish, a.Start),
			})
		}
		if _, err := a.Duration(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// relationshipsCheck reports self relationships, unknown types and lags
// that are not finite.
func relationshipsCheck(_ context.Context, p *schedule.Project) []error {
	var errs []error
	for _, r := range p.Relationships {
		if r.PredecessorID == r.SuccessorID {
			errs = append(errs, &schedule.ValidationError{
				Category: schedule.ValCatSelfLoop, ActivityID: r.PredecessorID, Field: "relationship",
				Err: schedule.ErrSelfRelationship,
			})
		}
		if !r.Type.Valid() {
			errs = append(errs, &schedule.ValidationError{
				Category: schedule.ValCatRelationType, ActivityID: r.SuccessorID, Field: "relationship",
				Err: fmt.Errorf("%w: %q from %s", schedule.ErrInvalidRelationType, r.Type, r.PredecessorID),
			})
		}
		if err := r.CheckLag(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// cyclesCheck reports one cycle, if any, as a path of activity IDs.
func cyclesCheck(_ context.Context, p *schedule.Project) []error {
	cycle := network(p).DetectCycle()
	if cycle == nil {
		return nil
	}
	return []error{&schedule.ValidationError{
		Category: schedule.ValCatCycle, ActivityID: cycle[0],
		Err: fmt.Errorf("%w: %v", dag.ErrCycle, append(cycle, cycle[0])),
	}}
}

// danglingCheck reports relationships whose endpoints are not activities.
// The engine ignores them.
func danglingCheck(_ context.Context, p *schedule.Project) []error {
	ids := make(map[string]bool, len(p.Activities))
	for _, a := range p.Activities {
		ids[a.ID] = true
	}
	var errs []error
	for _, r := range p.Relationships {
		for _, id := range []string{r.PredecessorID, r.SuccessorID} {
			if !ids[id] {
				errs = append(errs, &schedule.ValidationError{
					Category: schedule.ValCatDangling, ActivityID: id, Field: "relationship",
					Err: fmt.Errorf("%w: %s → %s", schedule.ErrUnknownActivity, r.PredecessorID, r.SuccessorID),
				})
			}
		}
	}
	return errs
}

// isolatedCheck reports activities without relationships in a project
// that has some.
func isolatedCheck(_ context.Context, p *schedule.Project) []error {
	g := network(p)
	if g.EdgeCount() == 0 {
		return nil
	}
	var errs []error
	for _, id := range g.Nodes() {
		if len(g.Predecessors(id)) == 0 && len(g.Successors(id)) == 0 {
			errs = append(errs, &schedule.ValidationError{
				Category: schedule.ValCatIsolated, ActivityID: id, Err: schedule.ErrIsolated,
			})
		}
	}
	return errs
}

// fragmentsCheck reports a network made of several unconnected groups of
// linked activities. Isolated activities are reported separately.
func fragmentsCheck(_ context.Context, p *schedule.Project) []error {
	var linked int
	for _, f := range network(p).Fragments() {
		if len(f.NodeIDs) > 1 {
			linked++
		}
	}
	if linked < 2 {
		return nil
	}
	return []error{&schedule.ValidationError{
		Category: schedule.ValCatFragment,
		Err:      fmt.Errorf("%w: %d linked fragments", schedule.ErrDisconnected, linked),
	}}
}

// network builds the relationship graph over the project's distinct
// activity IDs, skipping relationships the engine would ignore.
func network(p *schedule.Project) *dag.Graph {
	g := dag.New()
	for _, a := range p.Activities {
		if a.ID != "" && !g.Has(a.ID) {
			_ = g.AddNode(a.ID)
		}
	}
	for _, r := range p.Relationships {
		_ = g.AddEdge(r.PredecessorID, r.SuccessorID) // dangling and self edges are reported elsewhere
	}
	return g
}
