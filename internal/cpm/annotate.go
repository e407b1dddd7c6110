package cpm

import (
	"math"
	"sort"

	"github.com/papapumpkin/planworks/internal/schedule"
)

// Annotate returns copies of activities with the computed duration, float,
// criticality, float path and predecessor/successor views filled in.
// Activities that were not computed keep their imported values apart from
// the relationship views.
func Annotate(activities []schedule.Activity, result *Result) []schedule.Activity {
	out := schedule.Link(activities, result.Relationships)
	byID := make(map[string]Metrics, len(result.Metrics))
	for _, m := range result.Metrics {
		byID[m.ActivityID] = m
	}

	done := make(map[string]bool, len(out))
	for i := range out {
		m, ok := byID[out[i].ID]
		if !ok || done[out[i].ID] {
			continue
		}
		done[out[i].ID] = true

		dur, tf, ff := m.DurationDays, m.TotalFloatDays, m.FreeFloatDays
		out[i].DurationDays = &dur
		out[i].TotalFloatDays = &tf
		out[i].FreeFloatDays = &ff
		out[i].IsCritical = m.IsCritical
		out[i].FloatPathNumber = m.FloatPathNumber
	}
	return out
}

// Paths groups the computed activities by float path number, lowest first.
// Members are listed in computation order.
func Paths(result *Result) []FloatPath {
	if len(result.Metrics) == 0 {
		return nil
	}

	pos := make(map[string]int, len(result.Order))
	for i, id := range result.Order {
		pos[id] = i
	}

	byNumber := make(map[int]*FloatPath)
	var numbers []int
	for _, m := range result.Metrics {
		p, ok := byNumber[m.FloatPathNumber]
		if !ok {
			p = &FloatPath{Number: m.FloatPathNumber, Critical: true, MinTotalFloat: math.Inf(1)}
			byNumber[m.FloatPathNumber] = p
			numbers = append(numbers, m.FloatPathNumber)
		}
		p.ActivityIDs = append(p.ActivityIDs, m.ActivityID)
		p.Critical = p.Critical && m.IsCritical
		p.MinTotalFloat = math.Min(p.MinTotalFloat, m.TotalFloatDays)
	}

	sort.Ints(numbers)
	paths := make([]FloatPath, 0, len(numbers))
	for _, n := range numbers {
		p := byNumber[n]
		sort.SliceStable(p.ActivityIDs, func(i, j int) bool {
			return pos[p.ActivityIDs[i]] < pos[p.ActivityIDs[j]]
		})
		paths = append(paths, *p)
	}
	return paths
}
