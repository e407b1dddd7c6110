package schedule

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2024-01-01", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), false},
		{"2024-01-01T12:00:00Z", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), false},
		{"2024-01-01T12:00:00+02:00", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), false},
		{"2024-01-01 08:00", time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), false},
		{" 2024-03-05 ", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), false},
		{"", time.Time{}, true},
		{"not a date", time.Time{}, true},
		{"2024-13-40", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDate) {
					t.Fatalf("ParseDate(%q) error = %v, want ErrInvalidDate", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q): %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestActivityDuration(t *testing.T) {
	t.Parallel()

	override := 3.5
	nan, inf, negative := math.NaN(), math.Inf(1), -2.0
	tests := []struct {
		name      string
		act       Activity
		want      float64
		wantField string
		wantCat   ValidationCategory
	}{
		{"from dates", Activity{ID: "a", Start: "2024-01-01", Finish: "2024-01-10"}, 9, "", ""},
		{"override wins", Activity{ID: "a", Start: "2024-01-01", Finish: "2024-01-10", DurationDays: &override}, 3.5, "", ""},
		{"reversed dates floor at zero", Activity{ID: "a", Start: "2024-01-10", Finish: "2024-01-01"}, 0, "", ""},
		{"half day", Activity{ID: "a", Start: "2024-01-01 00:00", Finish: "2024-01-01 12:00"}, 0.5, "", ""},
		{"bad finish", Activity{ID: "a", Start: "2024-01-01", Finish: "soon"}, 0, "finish", ValCatInvalidDate},
		{"nan override", Activity{ID: "a", Start: "2024-01-01", Finish: "2024-01-10", DurationDays: &nan}, 0, "durationDays", ValCatInvalidNumber},
		{"infinite override", Activity{ID: "a", Start: "2024-01-01", Finish: "2024-01-10", DurationDays: &inf}, 0, "durationDays", ValCatInvalidNumber},
		{"negative override", Activity{ID: "a", Start: "2024-01-01", Finish: "2024-01-10", DurationDays: &negative}, 0, "durationDays", ValCatInvalidNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.act.Duration()
			if tt.wantField != "" {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("Duration() error = %v, want *ValidationError", err)
				}
				if ve.Field != tt.wantField || ve.Category != tt.wantCat {
					t.Errorf("ValidationError = %+v, want %s/%s", ve, tt.wantField, tt.wantCat)
				}
				return
			}
			if err != nil {
				t.Fatalf("Duration(): %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Duration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRelationshipCheckLag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		lag     float64
		wantErr bool
	}{
		{0, false},
		{-3, false},
		{2.5, false},
		{math.NaN(), true},
		{math.Inf(1), true},
		{math.Inf(-1), true},
	}
	for _, tt := range tests {
		r := Relationship{PredecessorID: "A", SuccessorID: "B", LagDays: tt.lag}
		err := r.CheckLag()
		if (err != nil) != tt.wantErr {
			t.Errorf("CheckLag(%v) = %v, wantErr %v", tt.lag, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidNumber) {
			t.Errorf("CheckLag(%v) = %v, want ErrInvalidNumber", tt.lag, err)
		}
	}
}

func TestOverlaps(t *testing.T) {
	t.Parallel()

	d := func(day int) time.Time { return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC) }
	tests := []struct {
		name           string
		s1, f1, s2, f2 time.Time
		want           bool
	}{
		{"disjoint", d(1), d(5), d(10), d(12), false},
		{"touching is not overlap", d(1), d(5), d(5), d(8), false},
		{"overlap", d(1), d(6), d(5), d(8), true},
		{"contained", d(1), d(20), d(5), d(8), true},
		{"reverse order disjoint", d(10), d(12), d(1), d(5), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Overlaps(tt.s1, tt.f1, tt.s2, tt.f2); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseRelationType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    RelationType
		wantErr bool
	}{
		{"", FinishToStart, false},
		{"FS", FinishToStart, false},
		{"ss", StartToStart, false},
		{"PR_FF", FinishToFinish, false},
		{"pr_sf", StartToFinish, false},
		{"XX", "", true},
	}
	for _, tt := range tests {
		got, err := ParseRelationType(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidRelationType) {
				t.Errorf("ParseRelationType(%q) error = %v, want ErrInvalidRelationType", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseRelationType(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestLink(t *testing.T) {
	t.Parallel()

	acts := []Activity{{ID: "A1"}, {ID: "A2"}, {ID: "A3"}}
	rels := []Relationship{
		{PredecessorID: "A1", SuccessorID: "A2"},
		{PredecessorID: "A1", SuccessorID: "A2", Type: StartToStart},
		{PredecessorID: "A2", SuccessorID: "A3"},
		{PredecessorID: "A2", SuccessorID: "ghost"},
	}

	linked := Link(acts, rels)

	if acts[0].Successors != nil {
		t.Fatal("Link mutated its input")
	}
	if got := linked[0].Successors; len(got) != 1 || got[0] != "A2" {
		t.Errorf("A1 successors = %v, want [A2]", got)
	}
	if got := linked[1].Predecessors; len(got) != 1 || got[0] != "A1" {
		t.Errorf("A2 predecessors = %v, want [A1]", got)
	}
	if got := linked[1].Successors; len(got) != 1 || got[0] != "A3" {
		t.Errorf("A2 successors = %v, want [A3] (dangling ignored)", got)
	}
	if got := linked[2].Successors; got == nil || len(got) != 0 {
		t.Errorf("A3 successors = %#v, want empty non-nil slice", got)
	}

	preds := Neighbours(linked[2].Predecessors, linked)
	if len(preds) != 1 || preds[0].ID != "A2" {
		t.Errorf("Neighbours(A3 preds) = %v, want [A2]", preds)
	}
}

func TestFindRelationship(t *testing.T) {
	t.Parallel()

	rels := []Relationship{
		{PredecessorID: "A", SuccessorID: "B", Type: StartToStart, LagDays: 2},
	}
	r, ok := FindRelationship("A", "B", rels)
	if !ok || r.Type != StartToStart || r.LagDays != 2 {
		t.Errorf("FindRelationship(A, B) = %+v, %v", r, ok)
	}
	if _, ok := FindRelationship("B", "A", rels); ok {
		t.Error("FindRelationship(B, A) should not match a reversed edge")
	}
}

func TestNormalizedAndClone(t *testing.T) {
	t.Parallel()

	if got := (Relationship{}).Normalized().Type; got != FinishToStart {
		t.Errorf("Normalized().Type = %q, want FS", got)
	}

	d := 4.0
	orig := Activity{ID: "a", DurationDays: &d, Predecessors: []string{"x"}}
	c := orig.Clone()
	*c.DurationDays = 9
	c.Predecessors[0] = "y"
	if *orig.DurationDays != 4 || orig.Predecessors[0] != "x" {
		t.Error("Clone shares memory with the original")
	}
}
