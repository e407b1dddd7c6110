// Package schedule defines the project-schedule data model shared by the
// network engine, the layout optimizer, the importers and the project store:
// activities, typed and lagged relationships, and the project envelope.
package schedule

// RelationType is the precedence type of a relationship.
type RelationType string

// Relationship types. An empty type is treated as FS.
const (
	FinishToStart  RelationType = "FS"
	StartToStart   RelationType = "SS"
	FinishToFinish RelationType = "FF"
	StartToFinish  RelationType = "SF"
)

// BarStyle is the line style used when drawing an activity bar.
type BarStyle string

// Bar styles understood by the renderers.
const (
	BarSolid  BarStyle = "solid"
	BarDashed BarStyle = "dashed"
	BarDotted BarStyle = "dotted"
)

// Activity is a single scheduled activity. Start and Finish are ISO date
// strings as imported; the remaining computed fields are populated by
// cpm.Annotate and layout.Apply on copies, never on caller-owned values.
type Activity struct {
	ID     string `json:"id" toml:"id" yaml:"id"`
	Name   string `json:"name" toml:"name" yaml:"name"`
	Start  string `json:"start" toml:"start" yaml:"start"`
	Finish string `json:"finish" toml:"finish" yaml:"finish"`

	// DurationDays overrides Finish-Start when set.
	DurationDays *float64 `json:"durationDays,omitempty" toml:"duration_days,omitempty" yaml:"duration_days,omitempty"`

	IsCritical      bool     `json:"isCritical,omitempty" toml:"is_critical,omitempty" yaml:"is_critical,omitempty"`
	TotalFloatDays  *float64 `json:"totalFloatDays,omitempty" toml:"total_float_days,omitempty" yaml:"total_float_days,omitempty"`
	FreeFloatDays   *float64 `json:"freeFloatDays,omitempty" toml:"free_float_days,omitempty" yaml:"free_float_days,omitempty"`
	FloatPathNumber int      `json:"floatPathNumber,omitempty" toml:"float_path_number,omitempty" yaml:"float_path_number,omitempty"`
	Predecessors    []string `json:"predecessors,omitempty" toml:"predecessors,omitempty" yaml:"predecessors,omitempty"`
	Successors      []string `json:"successors,omitempty" toml:"successors,omitempty" yaml:"successors,omitempty"`

	OptimizedRow *int `json:"optimizedRow,omitempty" toml:"optimized_row,omitempty" yaml:"optimized_row,omitempty"`
	RowChange    int  `json:"rowChange,omitempty" toml:"row_change,omitempty" yaml:"row_change,omitempty"`

	// Presentation hints carried through unchanged.
	CustomColor string   `json:"customColor,omitempty" toml:"custom_color,omitempty" yaml:"custom_color,omitempty"`
	BarStyle    BarStyle `json:"barStyle,omitempty" toml:"bar_style,omitempty" yaml:"bar_style,omitempty"`
	ShowLabel   *bool    `json:"showLabel,omitempty" toml:"show_label,omitempty" yaml:"show_label,omitempty"`
}

// Relationship is a directed precedence edge PredecessorID → SuccessorID.
type Relationship struct {
	PredecessorID string       `json:"predecessorId" toml:"predecessor_id" yaml:"predecessor_id"`
	SuccessorID   string       `json:"successorId" toml:"successor_id" yaml:"successor_id"`
	Type          RelationType `json:"type,omitempty" toml:"type,omitempty" yaml:"type,omitempty"`
	LagDays       float64      `json:"lagDays,omitempty" toml:"lag_days,omitempty" yaml:"lag_days,omitempty"`
}

// Project is the unit of import, persistence and analysis.
type Project struct {
	ProjectName   string         `json:"projectName,omitempty" toml:"project_name,omitempty" yaml:"project_name,omitempty"`
	Activities    []Activity     `json:"activities" toml:"activities" yaml:"activities"`
	Relationships []Relationship `json:"relationships,omitempty" toml:"relationships,omitempty" yaml:"relationships,omitempty"`
}

// Normalized returns a copy of r with an explicit type (FS when empty).
// LagDays already defaults to zero.
func (r Relationship) Normalized() Relationship {
	if r.Type == "" {
		r.Type = FinishToStart
	}
	return r
}

// Clone returns a deep copy of the activity so callers can annotate it
// without aliasing slices or pointers of the original.
func (a Activity) Clone() Activity {
	c := a
	c.DurationDays = cloneFloat(a.DurationDays)
	c.TotalFloatDays = cloneFloat(a.TotalFloatDays)
	c.FreeFloatDays = cloneFloat(a.FreeFloatDays)
	if a.OptimizedRow != nil {
		row := *a.OptimizedRow
		c.OptimizedRow = &row
	}
	if a.ShowLabel != nil {
		show := *a.ShowLabel
		c.ShowLabel = &show
	}
	if a.Predecessors != nil {
		c.Predecessors = append([]string(nil), a.Predecessors...)
	}
	if a.Successors != nil {
		c.Successors = append([]string(nil), a.Successors...)
	}
	return c
}

// CloneActivities deep-copies a slice of activities.
func CloneActivities(activities []Activity) []Activity {
	if activities == nil {
		return nil
	}
	out := make([]Activity, len(activities))
	for i := range activities {
		out[i] = activities[i].Clone()
	}
	return out
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
