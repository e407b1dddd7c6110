// Package check validates a schedule before it is computed. Each check
// inspects the whole project and reports findings; error-level checks stop
// the chain on failure because later checks assume their invariants, while
// warnings are collected and the chain continues.
package check

import (
	"context"
	"time"

	"github.com/papapumpkin/planworks/internal/schedule"
)

// Severity is the level of a check.
type Severity string

// Check severities.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Validator runs checks over a project. Returns an error only when the
// validation itself could not run, never for findings.
type Validator interface {
	Run(ctx context.Context, p *schedule.Project) (*Result, error)
}

// Result contains the outcome of a chain run.
type Result struct {
	Passed bool          // false if an error-level check failed
	Checks []CheckResult // individual check outcomes, in run order
}

// CheckResult is the outcome of a single check.
type CheckResult struct {
	Name     string        // "ids", "dates", "relationships", ...
	Severity Severity      // error or warning
	Passed   bool          // true when the check has no findings
	Findings []error       // usually *schedule.ValidationError
	Elapsed  time.Duration // wall-clock time for this check
}

// FirstFailure returns the first failing error-level check, or nil.
func (r *Result) FirstFailure() *CheckResult {
	for i := range r.Checks {
		if !r.Checks[i].Passed && r.Checks[i].Severity == SeverityError {
			return &r.Checks[i]
		}
	}
	return nil
}

// Errors returns every error-level finding.
func (r *Result) Errors() []error {
	return r.findings(SeverityError)
}

// Warnings returns every warning-level finding.
func (r *Result) Warnings() []error {
	return r.findings(SeverityWarning)
}

func (r *Result) findings(sev Severity) []error {
	var out []error
	for _, c := range r.Checks {
		if c.Severity == sev {
			out = append(out, c.Findings...)
		}
	}
	return out
}
