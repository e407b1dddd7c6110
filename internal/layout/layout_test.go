package layout

import (
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/papapumpkin/planworks/internal/schedule"
)

func act(id, start, finish string) schedule.Activity {
	return schedule.Activity{ID: id, Name: id, Start: start, Finish: finish}
}

func critical(a schedule.Activity) schedule.Activity {
	a.IsCritical = true
	return a
}

func disjointPair() []schedule.Activity {
	return []schedule.Activity{
		act("A1", "2024-01-01", "2024-01-05"),
		act("A2", "2024-01-10", "2024-01-15"),
	}
}

func findCandidate(t *testing.T, res *Result, alg Algorithm) Candidate {
	t.Helper()
	for _, c := range res.Candidates {
		if c.Algorithm == alg {
			return c
		}
	}
	t.Fatalf("no %s candidate among %d", alg, len(res.Candidates))
	return Candidate{}
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAnalyze_NonOverlappingPair(t *testing.T) {
	t.Parallel()
	a := Analyze(disjointPair(), DefaultAnalysisOptions())

	if len(a.Compatibility) != 1 {
		t.Fatalf("compatibility entries = %d, want 1", len(a.Compatibility))
	}
	c := a.Compatibility[0]
	if !c.CanShareRow || c.TimeOverlap || !near(c.GapDays, 5) || c.SpaceSavings != 1 {
		t.Errorf("compatibility = %+v", c)
	}

	if len(a.Opportunities) != 2 {
		t.Fatalf("opportunities = %d, want 2", len(a.Opportunities))
	}
	rs := a.Opportunities[0]
	if rs.Type != RowSharing || rs.SpaceSavings != 1 || rs.Priority != 2 {
		t.Errorf("row sharing opportunity = %+v", rs)
	}
	if !reflect.DeepEqual(rs.ActivityIDs, []string{"A1", "A2"}) {
		t.Errorf("row sharing activities = %v", rs.ActivityIDs)
	}
	gf := a.Opportunities[1]
	if gf.Type != GapFilling || gf.SpaceSavings != 0 || gf.Priority != 3 || gf.ID != "gap_filling_0" {
		t.Errorf("gap filling opportunity = %+v", gf)
	}

	if a.Baseline.TotalGaps != 1 || a.Baseline.PotentialSavings != 1 || a.Baseline.TotalHeight != 2 {
		t.Errorf("baseline = %+v", a.Baseline)
	}
	if !near(a.Baseline.AverageRowUtilization, 9.0/28.0) {
		t.Errorf("row utilization = %v, want %v", a.Baseline.AverageRowUtilization, 9.0/28.0)
	}
}

func TestAnalyze_OverlapAndTags(t *testing.T) {
	t.Parallel()
	acts := []schedule.Activity{
		critical(act("A", "2024-01-01", "2024-01-10")),
		critical(act("B", "2024-01-05", "2024-01-12")),
	}
	a := Analyze(acts, DefaultAnalysisOptions())

	c := a.Compatibility[0]
	if c.CanShareRow || !c.TimeOverlap || c.GapDays != 0 {
		t.Errorf("compatibility = %+v", c)
	}
	if want := []string{TagTimeOverlap, TagBothCritical}; !reflect.DeepEqual(c.Constraints, want) {
		t.Errorf("constraints = %v, want %v", c.Constraints, want)
	}
	if len(a.Opportunities) != 0 {
		t.Errorf("opportunities = %v, want none", a.Opportunities)
	}
}

func TestAnalyze_AdjacentCannotShare(t *testing.T) {
	t.Parallel()
	acts := []schedule.Activity{
		act("A", "2024-01-01", "2024-01-05"),
		act("B", "2024-01-05", "2024-01-08"),
	}
	a := Analyze(acts, DefaultAnalysisOptions())
	if c := a.Compatibility[0]; c.CanShareRow || c.TimeOverlap {
		t.Errorf("touching spans: %+v, want no overlap and no sharing", c)
	}
}

func TestAnalyze_TimeWindow(t *testing.T) {
	t.Parallel()
	acts := []schedule.Activity{
		act("A", "2024-01-01", "2024-01-05"),
		act("FAR", "2024-03-01", "2024-03-05"),
		act("NEAR", "2024-02-01", "2024-02-03"),
	}
	a := Analyze(acts, DefaultAnalysisOptions())

	for _, c := range a.Compatibility {
		if c.Activity1 == "A" && c.Activity2 == "FAR" {
			t.Error("pair outside the time window was analyzed")
		}
	}
	if len(a.Compatibility) != 2 {
		t.Errorf("compatibility entries = %d, want 2 (A-NEAR, FAR-NEAR)", len(a.Compatibility))
	}
}

func TestAnalyze_MaxPairs(t *testing.T) {
	t.Parallel()
	var acts []schedule.Activity
	for i := 0; i < 6; i++ {
		acts = append(acts, act(fmt.Sprintf("X%d", i), "2024-01-01", "2024-01-02"))
	}
	opts := DefaultAnalysisOptions()
	opts.MaxPairs = 4
	a := Analyze(acts, opts)
	if len(a.Compatibility) != 4 {
		t.Errorf("compatibility entries = %d, want 4", len(a.Compatibility))
	}
}

func TestAnalyze_InvalidDatesIgnored(t *testing.T) {
	t.Parallel()
	acts := append(disjointPair(), act("BAD", "soon", "later"))
	a := Analyze(acts, DefaultAnalysisOptions())
	if a.Baseline.TotalActivities != 2 {
		t.Errorf("TotalActivities = %d, want 2", a.Baseline.TotalActivities)
	}
}

func TestAnalyze_Empty(t *testing.T) {
	t.Parallel()
	a := Analyze(nil, DefaultAnalysisOptions())
	if len(a.TimeGaps) != 0 || len(a.Compatibility) != 0 || len(a.Opportunities) != 0 {
		t.Errorf("empty analysis = %+v", a)
	}
}

func TestTimeGaps(t *testing.T) {
	t.Parallel()
	acts := parseAll([]schedule.Activity{
		act("C", "2024-01-20", "2024-01-25"),
		act("A", "2024-01-01", "2024-01-05"),
		act("B", "2024-01-03", "2024-01-10"),
	})
	gaps := timeGaps(acts)

	if len(gaps) != 1 {
		t.Fatalf("gaps = %d, want 1", len(gaps))
	}
	if !reflect.DeepEqual(gaps[0].ActivityIDs, []string{"B", "C"}) || !near(gaps[0].DurationDays, 10) {
		t.Errorf("gap = %+v", gaps[0])
	}
}

func TestGenerateCandidates_MaxCompressionSharesRow(t *testing.T) {
	t.Parallel()
	acts := disjointPair()
	a := Analyze(acts, DefaultAnalysisOptions())
	res := GenerateCandidates(acts, a.Opportunities, DefaultConstraints())

	mc := findCandidate(t, res, MaxCompression)
	if mc.SpaceSavings != 1 || len(mc.Moves) != 2 {
		t.Fatalf("max compression = %+v", mc)
	}
	if mc.Moves[0].OptimizedRow != mc.Moves[1].OptimizedRow {
		t.Errorf("rows %d and %d differ", mc.Moves[0].OptimizedRow, mc.Moves[1].OptimizedRow)
	}
	if mc.Moves[1].RowChange != -1 {
		t.Errorf("A2 row change = %d, want -1", mc.Moves[1].RowChange)
	}

	out := Apply(acts, &mc)
	if *out[0].OptimizedRow != 0 || *out[1].OptimizedRow != 0 {
		t.Errorf("applied rows = %d/%d, want 0/0", *out[0].OptimizedRow, *out[1].OptimizedRow)
	}
	if acts[1].OptimizedRow != nil {
		t.Error("Apply mutated the input")
	}
}

func TestGenerateCandidates_ScoringAndRanking(t *testing.T) {
	t.Parallel()
	acts := disjointPair()
	a := Analyze(acts, DefaultAnalysisOptions())
	res := GenerateCandidates(acts, a.Opportunities, DefaultConstraints())

	want := []struct {
		alg   Algorithm
		score float64
	}{
		{Balanced, 14.8 + 2},
		{MaxCompression, 9.8 + 1.5},
		{StructurePreserving, 9.8 + 1},
		{CriticalPathFocus, 9.8 + 0.5},
	}
	if len(res.Candidates) != len(want) {
		t.Fatalf("candidates = %d, want %d", len(res.Candidates), len(want))
	}
	for i, w := range want {
		c := res.Candidates[i]
		if c.Algorithm != w.alg || !near(c.Score, w.score) {
			t.Errorf("rank %d = %s %.2f, want %s %.2f", i, c.Algorithm, c.Score, w.alg, w.score)
		}
	}
	if res.BestCandidate == nil || res.BestCandidate.Algorithm != Balanced {
		t.Errorf("best candidate = %+v, want balanced", res.BestCandidate)
	}
	if res.TotalSpaceSavings != 1 || res.Algorithm != MultiAlgorithm {
		t.Errorf("total savings %d algorithm %q", res.TotalSpaceSavings, res.Algorithm)
	}
	if res.Recommended == nil || res.Recommended.Algorithm != Balanced {
		t.Errorf("recommended = %+v, want balanced", res.Recommended)
	}
}

func TestGenerateCandidates_NoOpportunities(t *testing.T) {
	t.Parallel()
	res := GenerateCandidates(disjointPair(), nil, DefaultConstraints())
	if len(res.Candidates) != 0 || res.BestCandidate != nil || res.Recommended != nil {
		t.Errorf("result = %+v, want no candidates", res)
	}
	if res.TotalSpaceSavings != 0 {
		t.Errorf("TotalSpaceSavings = %d, want 0", res.TotalSpaceSavings)
	}

	empty := GenerateCandidates(nil, nil, DefaultConstraints())
	if empty.BestCandidate != nil {
		t.Error("empty input produced a best candidate")
	}
}

func TestGenerateCandidates_CriticalActivities(t *testing.T) {
	t.Parallel()
	acts := []schedule.Activity{
		critical(act("A1", "2024-01-01", "2024-01-05")),
		act("A2", "2024-01-10", "2024-01-15"),
	}
	a := Analyze(acts, DefaultAnalysisOptions())
	res := GenerateCandidates(acts, a.Opportunities, DefaultConstraints())

	algs := make(map[Algorithm]bool)
	for _, c := range res.Candidates {
		algs[c.Algorithm] = true
	}
	if !algs[MaxCompression] || !algs[StructurePreserving] {
		t.Errorf("candidates %v should include max compression and structure preserving", algs)
	}
	if algs[Balanced] || algs[CriticalPathFocus] {
		t.Errorf("candidates %v should not move a critical activity", algs)
	}
	if res.Recommended != nil {
		t.Errorf("recommended %s moves a critical activity", res.Recommended.Algorithm)
	}

	c := DefaultConstraints()
	c.PreserveCriticalPath = false
	if res := GenerateCandidates(acts, a.Opportunities, c); res.Recommended == nil {
		t.Error("no recommendation without critical-path preservation")
	}
}

func TestGenerateCandidates_StructureGroups(t *testing.T) {
	t.Parallel()
	acts := []schedule.Activity{
		act("A1", "2024-01-01", "2024-01-05"),
		act("B1", "2024-01-10", "2024-01-15"),
	}
	a := Analyze(acts, DefaultAnalysisOptions())
	res := GenerateCandidates(acts, a.Opportunities, DefaultConstraints())

	for _, c := range res.Candidates {
		if c.Algorithm == StructurePreserving {
			t.Error("structure preserving merged activities of different groups")
		}
	}
	if res.Recommended != nil {
		t.Errorf("recommended %s breaks grouping", res.Recommended.Algorithm)
	}
}
