package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/papapumpkin/planworks/internal/cpm"
	"github.com/papapumpkin/planworks/internal/schedule"
)

// Row is one computed activity prepared for display.
type Row struct {
	Activity schedule.Activity
	Metrics  cpm.Metrics
}

// BuildRows pairs each computed activity with its metrics, in result order.
// Activities excluded from the computation are omitted.
func BuildRows(activities []schedule.Activity, res *cpm.Result) []Row {
	byID := make(map[string]schedule.Activity, len(activities))
	for _, a := range activities {
		if _, dup := byID[a.ID]; !dup {
			byID[a.ID] = a
		}
	}
	rows := make([]Row, 0, len(res.Metrics))
	for _, m := range res.Metrics {
		rows = append(rows, Row{Activity: byID[m.ActivityID], Metrics: m})
	}
	return rows
}

// RowFilter narrows the rows shown to the user.
type RowFilter struct {
	CriticalOnly bool
	// Path keeps only the given float path. Zero keeps every path.
	Path int
}

// Apply returns the rows matching f, preserving order.
func (f RowFilter) Apply(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if f.CriticalOnly && !r.Metrics.IsCritical {
			continue
		}
		if f.Path > 0 && r.Metrics.FloatPathNumber != f.Path {
			continue
		}
		out = append(out, r)
	}
	return out
}

// SortKey orders rows for display.
type SortKey string

// Supported sort keys.
const (
	SortByID    SortKey = "id"
	SortByStart SortKey = "start"
	SortByFloat SortKey = "float"
	SortByPath  SortKey = "path"
)

// ParseSortKey validates a sort key. An empty string means SortByStart.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortByStart, nil
	case SortByID, SortByStart, SortByFloat, SortByPath:
		return k, nil
	default:
		return "", fmt.Errorf("unknown sort key %q (want id, start, float or path)", s)
	}
}

// SortRows sorts rows in place. Ties keep their existing order.
func SortRows(rows []Row, key SortKey) {
	var less func(a, b Row) bool
	switch key {
	case SortByID:
		less = func(a, b Row) bool { return a.Metrics.ActivityID < b.Metrics.ActivityID }
	case SortByFloat:
		less = func(a, b Row) bool { return a.Metrics.TotalFloatDays < b.Metrics.TotalFloatDays }
	case SortByPath:
		less = func(a, b Row) bool {
			if a.Metrics.FloatPathNumber != b.Metrics.FloatPathNumber {
				return a.Metrics.FloatPathNumber < b.Metrics.FloatPathNumber
			}
			return a.Metrics.ES < b.Metrics.ES
		}
	default:
		less = func(a, b Row) bool { return a.Metrics.ES < b.Metrics.ES }
	}
	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
}
