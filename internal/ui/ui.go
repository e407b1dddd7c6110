// Package ui provides human-readable terminal output for planworks: a
// Printer for status lines on stderr and a Renderer for tables, Gantt charts
// and float-path summaries.
package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/papapumpkin/planworks/internal/check"
	"github.com/papapumpkin/planworks/internal/cpm"
	"github.com/papapumpkin/planworks/internal/layout"
)

// Printer writes status lines for the user. Command results go to stdout;
// the Printer is meant for stderr.
type Printer struct {
	w       io.Writer
	r       Renderer
	verbose bool
}

// New returns a Printer writing to w.
func New(w io.Writer, color, verbose bool) *Printer {
	return &Printer{w: w, r: Renderer{Color: color}, verbose: verbose}
}

// Error prints an error line.
func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.w, "%s %s\n", p.r.paint(styleError, "error:"), msg)
}

// Warn prints a warning line.
func (p *Printer) Warn(msg string) {
	fmt.Fprintf(p.w, "%s %s\n", p.r.paint(styleWarn, iconWarn), msg)
}

// Info prints a de-emphasized line.
func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.w, p.r.paint(styleDim, msg))
}

// Debug prints msg only in verbose mode.
func (p *Printer) Debug(format string, args ...any) {
	if !p.verbose {
		return
	}
	fmt.Fprintln(p.w, p.r.paint(styleDim, fmt.Sprintf(format, args...)))
}

// Success prints a confirmation line.
func (p *Printer) Success(msg string) {
	fmt.Fprintf(p.w, "%s %s\n", p.r.paint(styleSuccess, iconDone), msg)
}

// Imported reports a loaded schedule.
func (p *Printer) Imported(name, source string, activities, relationships int) {
	fmt.Fprintf(p.w, "%s %s %s\n",
		p.r.paint(styleHeading, "◆ "+name),
		p.r.paint(styleDim, "from "+source),
		fmt.Sprintf("(%s activities, %s relationships)", humanize.Comma(int64(activities)), humanize.Comma(int64(relationships))))
}

// ValidationResult prints every finding of a check run, errors first.
func (p *Printer) ValidationResult(res *check.Result) {
	for _, c := range res.Checks {
		if c.Passed {
			p.Debug("  %s %s (%s)", iconDone, c.Name, c.Elapsed.Round(time.Microsecond))
			continue
		}
		st, icon := styleWarn, iconWarn
		if c.Severity == check.SeverityError {
			st, icon = styleError, iconFailed
		}
		fmt.Fprintf(p.w, "%s (%s): %d finding(s)\n", p.r.paint(st, icon+" "+c.Name), c.Severity, len(c.Findings))
		for _, f := range c.Findings {
			fmt.Fprintf(p.w, "  %s %s\n", p.r.paint(st, iconItem), f.Error())
		}
	}
	if res.Passed {
		p.Success(fmt.Sprintf("validation passed (%d warning(s))", len(res.Warnings())))
		return
	}
	fmt.Fprintf(p.w, "%s validation failed\n", p.r.paint(styleError, iconFailed))
}

// AnalysisSummary prints the headline numbers of a network computation and
// any excluded activities.
func (p *Printer) AnalysisSummary(res *cpm.Result, elapsed time.Duration) {
	critical := 0
	paths := make(map[int]bool)
	for _, m := range res.Metrics {
		if m.IsCritical {
			critical++
		}
		paths[m.FloatPathNumber] = true
	}
	fmt.Fprintf(p.w, "%s %d activities, %d critical, %d float path(s), finish %s at day %s %s\n",
		p.r.paint(styleHeading, "network:"),
		len(res.Metrics), critical, len(paths),
		res.FinishID, days(res.ProjectFinish),
		p.r.paint(styleDim, "("+elapsed.Round(time.Microsecond).String()+")"))
	p.Debug("  forward passes: %d, backward passes: %d, topological: %t",
		res.ForwardIterations, res.BackwardIterations, res.Ordered)

	for _, issue := range res.Issues {
		p.Warn(fmt.Sprintf("skipped %s", issue.Error()))
	}
	if !res.Converged {
		p.NonConvergence(res)
	}
}

// NonConvergence warns that the passes stopped at the iteration cap.
func (p *Printer) NonConvergence(res *cpm.Result) {
	p.Warn(fmt.Sprintf("network did not converge (forward %d, backward %d iterations); results are approximate, check for relationship loops",
		res.ForwardIterations, res.BackwardIterations))
}

// LayoutSummary prints the headline numbers of a layout optimization.
func (p *Printer) LayoutSummary(a *layout.Analysis, res *layout.Result) {
	fmt.Fprintf(p.w, "%s %d opportunities, %d candidate(s), best saves %d row(s) of %d %s\n",
		p.r.paint(styleHeading, "layout:"),
		len(a.Opportunities), len(res.Candidates), res.TotalSpaceSavings, a.Baseline.TotalHeight,
		p.r.paint(styleDim, "("+(a.ProcessingTime+res.ProcessingTime).Round(time.Microsecond).String()+")"))
	if res.Recommended == nil && res.BestCandidate != nil {
		p.Warn("no candidate honours the preservation constraints; showing the best scoring one")
	}
}
