package schedule

import "errors"

// Sentinel errors for schedule data problems.
var (
	// ErrInvalidDate indicates a start or finish that does not parse as a date.
	ErrInvalidDate = errors.New("invalid date")
	// ErrDuplicateID indicates two or more activities share the same ID.
	ErrDuplicateID = errors.New("duplicate activity ID")
	// ErrMissingID indicates an activity without an ID.
	ErrMissingID = errors.New("activity ID missing")
	// ErrUnknownActivity indicates a relationship endpoint that is not in the activity set.
	ErrUnknownActivity = errors.New("unknown activity")
	// ErrSelfRelationship indicates a relationship whose predecessor and successor are the same.
	ErrSelfRelationship = errors.New("self-referencing relationship")
	// ErrInvalidRelationType indicates a relationship type other than FS, SS, FF or SF.
	ErrInvalidRelationType = errors.New("invalid relationship type")
	// ErrFinishBeforeStart indicates an activity whose finish precedes its start.
	ErrFinishBeforeStart = errors.New("finish before start")
	// ErrIsolated indicates an activity with no predecessor and no successor.
	ErrIsolated = errors.New("activity has no relationships")
	// ErrInvalidNumber indicates a duration or lag that is not a finite
	// number, or a negative duration.
	ErrInvalidNumber = errors.New("invalid number")
	// ErrDisconnected indicates a network made of several unconnected fragments.
	ErrDisconnected = errors.New("network is disconnected")
)

// ValidationCategory classifies a validation error for programmatic handling.
type ValidationCategory string

const (
	// ValCatInvalidDate indicates an unparseable start or finish.
	ValCatInvalidDate ValidationCategory = "invalid_date"
	// ValCatDuplicateID indicates a repeated activity ID.
	ValCatDuplicateID ValidationCategory = "duplicate_id"
	// ValCatMissingID indicates an activity without an ID.
	ValCatMissingID ValidationCategory = "missing_id"
	// ValCatDangling indicates a relationship endpoint outside the activity set.
	ValCatDangling ValidationCategory = "dangling_relationship"
	// ValCatSelfLoop indicates a relationship from an activity to itself.
	ValCatSelfLoop ValidationCategory = "self_relationship"
	// ValCatRelationType indicates an unrecognised relationship type.
	ValCatRelationType ValidationCategory = "relation_type"
	// ValCatCycle indicates a cyclic relationship graph.
	ValCatCycle ValidationCategory = "cycle"
	// ValCatInvalidNumber indicates a non-finite duration or lag, or a
	// negative duration.
	ValCatInvalidNumber ValidationCategory = "invalid_number"
	// ValCatSpan indicates a finish date before the start date.
	ValCatSpan ValidationCategory = "span"
	// ValCatIsolated indicates an activity without any relationship.
	ValCatIsolated ValidationCategory = "isolated"
	// ValCatFragment indicates a network split into unconnected parts.
	ValCatFragment ValidationCategory = "fragment"
)

// ValidationError records a schedule data problem with activity context.
type ValidationError struct {
	Category   ValidationCategory
	ActivityID string
	Field      string
	Err        error
}

// Error returns a human-readable message including the activity and field.
func (e *ValidationError) Error() string {
	msg := e.Err.Error()
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.ActivityID != "" {
		return "activity " + e.ActivityID + ": " + msg
	}
	return msg
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
