// Package layout packs a schedule's activities into fewer chart rows. Analyze
// finds time gaps and pairs of activities that can share a row;
// GenerateCandidates runs four greedy heuristics over those opportunities and
// ranks the resulting row assignments; Apply annotates activities with the
// chosen rows.
package layout

import "time"

// OpportunityType classifies an optimization opportunity.
type OpportunityType string

// Opportunity types produced by Analyze.
const (
	RowSharing OpportunityType = "row_sharing"
	GapFilling OpportunityType = "gap_filling"
)

// Pairwise constraint tags attached to compatibility entries.
const (
	TagTimeOverlap  = "time_overlap"
	TagBothCritical = "both_critical"
)

// Algorithm names a candidate-generation heuristic.
type Algorithm string

// The four heuristics run by GenerateCandidates.
const (
	MaxCompression      Algorithm = "maximum_compression"
	Balanced            Algorithm = "balanced"
	StructurePreserving Algorithm = "structure_preserving"
	CriticalPathFocus   Algorithm = "critical_path_focus"
)

// MultiAlgorithm is reported in Result.Algorithm.
const MultiAlgorithm = "multi_algorithm"

// TimeGap is an interval where one activity finishes before the next one
// (by start date) begins.
type TimeGap struct {
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	DurationDays  float64   `json:"durationDays"`
	AvailableRows int       `json:"availableRows"`
	ActivityIDs   []string  `json:"activityIds"`
}

// Compatibility describes whether two activities could be drawn on one row.
type Compatibility struct {
	Activity1    string   `json:"activity1"`
	Activity2    string   `json:"activity2"`
	CanShareRow  bool     `json:"canShareRow"`
	TimeOverlap  bool     `json:"timeOverlap"`
	GapDays      float64  `json:"gapDuration"`
	SpaceSavings int      `json:"spaceSavings"`
	Constraints  []string `json:"constraints"`
}

// Opportunity is a candidate change found by Analyze. Priority 1 is the
// most attractive.
type Opportunity struct {
	ID           string          `json:"id"`
	Type         OpportunityType `json:"type"`
	ActivityIDs  []string        `json:"activities"`
	SpaceSavings int             `json:"spaceSavings"`
	Constraints  []string        `json:"constraints"`
	Priority     int             `json:"priority"`
	GapDays      float64         `json:"gapDays"`
	Description  string          `json:"description"`
}

// Baseline summarizes the unoptimized layout, one activity per row.
type Baseline struct {
	TotalHeight           int     `json:"totalHeight"`
	WhiteSpacePercentage  float64 `json:"whiteSpacePercentage"`
	AverageRowUtilization float64 `json:"averageRowUtilization"`
	CriticalPathLength    int     `json:"criticalPathLength"`
	TotalActivities       int     `json:"totalActivities"`
	TotalGaps             int     `json:"totalGaps"`
	PotentialSavings      int     `json:"potentialSavings"`
}

// Analysis is the output of Analyze.
type Analysis struct {
	TimeGaps       []TimeGap       `json:"timeGaps"`
	Compatibility  []Compatibility `json:"compatibilityMatrix"`
	Opportunities  []Opportunity   `json:"optimizationOpportunities"`
	Baseline       Baseline        `json:"baselineMetrics"`
	ProcessingTime time.Duration   `json:"processingTime"`
}

// AnalysisOptions bounds the analysis so its cost stays roughly linear in
// the number of activities.
type AnalysisOptions struct {
	// TimeWindowDays limits the compatibility scan to activities starting
	// within this many days of the other activity's span.
	TimeWindowDays float64
	// MaxPairs stops the compatibility scan after this many pairs.
	MaxPairs int
	// MaxRowSharing caps row_sharing opportunities.
	MaxRowSharing int
	// MaxGapFilling caps gap_filling opportunities.
	MaxGapFilling int
	// MinGapDays is the shortest gap reported as a gap_filling opportunity
	// (exclusive).
	MinGapDays float64
}

// DefaultAnalysisOptions returns the standard analysis bounds.
func DefaultAnalysisOptions() AnalysisOptions {
	return AnalysisOptions{
		TimeWindowDays: 30,
		MaxPairs:       10000,
		MaxRowSharing:  1000,
		MaxGapFilling:  500,
		MinGapDays:     1,
	}
}

// Constraints steers candidate generation.
type Constraints struct {
	MaxRowChanges           int     `json:"maxRowChanges"`
	PreserveWBSGrouping     bool    `json:"preserveWBSGrouping"`
	PreserveCriticalPath    bool    `json:"preserveCriticalPath"`
	MinGapDuration          float64 `json:"minGapDuration"`
	MaxConcurrentActivities int     `json:"maxConcurrentActivities"`
}

// DefaultConstraints returns the standard candidate-generation constraints.
func DefaultConstraints() Constraints {
	return Constraints{
		MaxRowChanges:           100,
		PreserveWBSGrouping:     true,
		PreserveCriticalPath:    true,
		MinGapDuration:          1,
		MaxConcurrentActivities: 3,
	}
}

// Move is one activity's row reassignment within a candidate.
type Move struct {
	ID           string `json:"id"`
	OriginalRow  int    `json:"originalRow"`
	OptimizedRow int    `json:"optimizedRow"`
	RowChange    int    `json:"rowChange"`
	// PairedWith is the activity this one now shares a row with.
	PairedWith string `json:"pairedWith"`
}

// Candidate is one proposed row assignment.
type Candidate struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	SpaceSavings int       `json:"spaceSavings"`
	Moves        []Move    `json:"activities"`
	Constraints  []string  `json:"constraints"`
	Score        float64   `json:"score"`
	Algorithm    Algorithm `json:"algorithm"`
}

// Result is the output of GenerateCandidates.
type Result struct {
	// Candidates are ranked by score, best first.
	Candidates []Candidate `json:"candidates"`
	// BestCandidate is the top-scoring candidate, nil when none exists.
	BestCandidate *Candidate `json:"bestCandidate"`
	// Recommended is the best-ranked candidate that honours the
	// PreserveCriticalPath, PreserveWBSGrouping and MinGapDuration
	// constraints.
	Recommended       *Candidate    `json:"recommended"`
	TotalSpaceSavings int           `json:"totalSpaceSavings"`
	ProcessingTime    time.Duration `json:"processingTime"`
	Algorithm         string        `json:"algorithm"`
}
