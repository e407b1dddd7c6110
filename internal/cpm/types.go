// Package cpm implements the schedule network engine: iterative forward and
// backward passes over an activity-on-node network with FS, SS, FF and SF
// relationships and lags, total and free float, driving-predecessor
// detection and the multiple-float-path partition.
package cpm

import (
	"time"

	"github.com/papapumpkin/planworks/internal/schedule"
)

// DefaultMaxIterations is the iteration cap applied to each pass when
// Options.MaxIterations is not set.
const DefaultMaxIterations = 100

// Epsilon is the tolerance used for every equality and convergence check.
const Epsilon = 1e-6

// Options tunes a computation.
type Options struct {
	// MaxIterations caps the forward and the backward pass independently.
	// Zero or negative means DefaultMaxIterations.
	MaxIterations int
}

func (o Options) maxIterations() int {
	if o.MaxIterations < 1 {
		return DefaultMaxIterations
	}
	return o.MaxIterations
}

// Metrics is the computed schedule of one activity. Times are fractional
// day offsets from Result.Baseline. FreeFloatDays is measured against the
// immediate successors' early times, not their late times, and is capped
// at TotalFloatDays.
type Metrics struct {
	ActivityID      string  `json:"activityId"`
	DurationDays    float64 `json:"durationDays"`
	TotalFloatDays  float64 `json:"totalFloatDays"`
	FreeFloatDays   float64 `json:"freeFloatDays"`
	FloatPathNumber int     `json:"floatPathNumber"`
	ES              float64 `json:"es"`
	EF              float64 `json:"ef"`
	LS              float64 `json:"ls"`
	LF              float64 `json:"lf"`
	IsCritical      bool    `json:"isCritical"`
}

// ActivityIssue records an activity that was left out of the computation.
type ActivityIssue struct {
	ActivityID string `json:"activityId"`
	Message    string `json:"message"`
	Err        error  `json:"-"`
}

// Error implements error so issues can be reported directly.
func (i ActivityIssue) Error() string {
	return i.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (i ActivityIssue) Unwrap() error {
	return i.Err
}

// Result is the outcome of Compute.
type Result struct {
	// Metrics holds one entry per computed activity, in input order.
	Metrics []Metrics `json:"metrics"`

	// FinishID is the project-finish activity: the latest early finish,
	// first in input order on ties.
	FinishID string `json:"finishId,omitempty"`

	// ProjectFinish is the early finish of FinishID.
	ProjectFinish float64 `json:"projectFinish"`

	// Baseline is the earliest start among computed activities. Every
	// time in Metrics is an offset from it.
	Baseline time.Time `json:"baseline"`

	// Converged is false when a pass stopped at the iteration cap without
	// reaching a fixed point, which happens on cyclic networks.
	Converged bool `json:"converged"`

	ForwardIterations  int `json:"forwardIterations"`
	BackwardIterations int `json:"backwardIterations"`

	// Ordered is false when the network could not be ordered
	// topologically and input order was used instead.
	Ordered bool `json:"ordered"`

	// Order is the activity order the passes iterated in.
	Order []string `json:"order,omitempty"`

	// Relationships are the normalized relationships that took part in
	// the computation. Dangling ones are dropped.
	Relationships []schedule.Relationship `json:"relationships,omitempty"`

	// Issues lists activities excluded from the computation.
	Issues []ActivityIssue `json:"issues,omitempty"`
}

// Metric returns the metrics for id.
func (r *Result) Metric(id string) (Metrics, bool) {
	for _, m := range r.Metrics {
		if m.ActivityID == id {
			return m, true
		}
	}
	return Metrics{}, false
}

// FloatPath is one group of the float-path partition.
type FloatPath struct {
	Number int `json:"number"`

	// ActivityIDs lists the members in computation order.
	ActivityIDs []string `json:"activityIds"`

	// Critical is true when every member is critical.
	Critical bool `json:"critical"`

	MinTotalFloat float64 `json:"minTotalFloat"`
}
