package layout

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/papapumpkin/planworks/internal/schedule"
)

// dated is an activity whose dates parsed.
type dated struct {
	id       string
	start    time.Time
	finish   time.Time
	critical bool
}

// parseAll returns the activities with valid dates, in input order.
func parseAll(activities []schedule.Activity) []dated {
	out := make([]dated, 0, len(activities))
	for _, a := range activities {
		start, finish, err := a.Span()
		if err != nil {
			continue
		}
		out = append(out, dated{id: a.ID, start: start, finish: finish, critical: a.IsCritical})
	}
	return out
}

// Analyze inspects the current one-activity-per-row layout. Activities
// whose dates do not parse are ignored.
func Analyze(activities []schedule.Activity, opts AnalysisOptions) *Analysis {
	began := time.Now()
	acts := parseAll(activities)

	gaps := timeGaps(acts)
	compat := compatibility(acts, opts)
	opps := opportunities(gaps, compat, opts)

	baseline := baselineMetrics(acts)
	baseline.TotalGaps = len(gaps)
	for _, o := range opps {
		baseline.PotentialSavings += o.SpaceSavings
	}

	return &Analysis{
		TimeGaps:       gaps,
		Compatibility:  compat,
		Opportunities:  opps,
		Baseline:       baseline,
		ProcessingTime: time.Since(began),
	}
}

// timeGaps sorts activities by start and reports every point where one
// activity finishes before the next one starts.
func timeGaps(acts []dated) []TimeGap {
	sorted := append([]dated(nil), acts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].start.Before(sorted[j].start)
	})

	var gaps []TimeGap
	for i := 0; i+1 < len(sorted); i++ {
		cur, next := sorted[i], sorted[i+1]
		if !cur.finish.Before(next.start) {
			continue
		}
		gaps = append(gaps, TimeGap{
			Start:         cur.finish,
			End:           next.start,
			DurationDays:  schedule.DaysBetween(cur.finish, next.start),
			AvailableRows: 1,
			ActivityIDs:   []string{cur.id, next.id},
		})
	}
	return gaps
}

// compatibility compares each activity with the later ones in input order
// that start inside its time window, stopping after opts.MaxPairs pairs.
func compatibility(acts []dated, opts AnalysisOptions) []Compatibility {
	window := time.Duration(opts.TimeWindowDays * 24 * float64(time.Hour))

	var (
		out   []Compatibility
		pairs int
	)
	for i := 0; i < len(acts) && pairs < opts.MaxPairs; i++ {
		a := acts[i]
		lo, hi := a.start.Add(-window), a.finish.Add(window)

		for j := i + 1; j < len(acts) && pairs < opts.MaxPairs; j++ {
			b := acts[j]
			if b.start.Before(lo) || b.start.After(hi) {
				continue
			}
			pairs++

			overlap := schedule.Overlaps(a.start, a.finish, b.start, b.finish)
			var gap float64
			if !overlap {
				gap = math.Min(
					math.Abs(schedule.DaysBetween(a.finish, b.start)),
					math.Abs(schedule.DaysBetween(b.finish, a.start)),
				)
			}
			share := !overlap && gap > 0

			c := Compatibility{
				Activity1:   a.id,
				Activity2:   b.id,
				CanShareRow: share,
				TimeOverlap: overlap,
				GapDays:     gap,
				Constraints: []string{},
			}
			if share {
				c.SpaceSavings = 1
			}
			if overlap {
				c.Constraints = append(c.Constraints, TagTimeOverlap)
			}
			if a.critical && b.critical {
				c.Constraints = append(c.Constraints, TagBothCritical)
			}
			out = append(out, c)
		}
	}
	return out
}

func opportunities(gaps []TimeGap, compat []Compatibility, opts AnalysisOptions) []Opportunity {
	var out []Opportunity

	var shared int
	for _, c := range compat {
		if !c.CanShareRow {
			continue
		}
		if shared >= opts.MaxRowSharing {
			break
		}
		priority := 2
		if c.GapDays > 30 {
			priority = 1
		}
		out = append(out, Opportunity{
			ID:           fmt.Sprintf("row_sharing_%d", shared),
			Type:         RowSharing,
			ActivityIDs:  []string{c.Activity1, c.Activity2},
			SpaceSavings: c.SpaceSavings,
			Constraints:  c.Constraints,
			Priority:     priority,
			GapDays:      c.GapDays,
			Description: fmt.Sprintf("Activities %s and %s can share a row (%.1f day gap)",
				c.Activity1, c.Activity2, c.GapDays),
		})
		shared++
	}

	var filled int
	for _, g := range gaps {
		if g.DurationDays <= opts.MinGapDays {
			continue
		}
		if filled >= opts.MaxGapFilling {
			break
		}
		priority := 3
		if g.DurationDays > 7 {
			priority = 1
		}
		out = append(out, Opportunity{
			ID:          fmt.Sprintf("gap_filling_%d", filled),
			Type:        GapFilling,
			ActivityIDs: g.ActivityIDs,
			Constraints: []string{},
			Priority:    priority,
			GapDays:     g.DurationDays,
			Description: fmt.Sprintf("Gap between activities: %.1f days (%s - %s)",
				g.DurationDays, g.Start.Format("2006-01-02"), g.End.Format("2006-01-02")),
		})
		filled++
	}
	return out
}

// baselineMetrics measures the one-activity-per-row layout. Utilization is
// the share of the project span covered by bars, averaged over rows.
func baselineMetrics(acts []dated) Baseline {
	b := Baseline{
		TotalHeight:           len(acts),
		TotalActivities:       len(acts),
		AverageRowUtilization: 1,
	}
	if len(acts) == 0 {
		return b
	}

	first, last := acts[0].start, acts[0].finish
	var busy float64
	for _, a := range acts {
		if a.critical {
			b.CriticalPathLength++
		}
		if a.start.Before(first) {
			first = a.start
		}
		if a.finish.After(last) {
			last = a.finish
		}
		busy += math.Max(0, schedule.DaysBetween(a.start, a.finish))
	}

	span := schedule.DaysBetween(first, last)
	if span <= 0 {
		return b
	}
	b.AverageRowUtilization = busy / (span * float64(len(acts)))
	b.WhiteSpacePercentage = (1 - b.AverageRowUtilization) * 100
	return b
}
