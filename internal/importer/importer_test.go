package importer

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/papapumpkin/planworks/internal/schedule"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{".XER", FormatXER, false},
		{"toml", FormatTOML, false},
		{"yml", FormatYAML, false},
		{"yaml", FormatYAML, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownFormat) {
				t.Errorf("ParseFormat(%q) error = %v, want ErrUnknownFormat", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}

	if _, err := FormatFromPath("schedule"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("FormatFromPath without extension error = %v", err)
	}
}

func TestDetectJSONShape(t *testing.T) {
	t.Parallel()

	tests := map[string]JSONShape{
		`[{"id":"A"}]`: ShapeArray,
		`{"projectName":"P","activities":[]}`:                          ShapeProject,
		`{"activities":[],"layout":{},"visualSettings":{"global":{}}}`: ShapeComprehensive,
		`42`:    ShapeUnknown,
		`{oops`: ShapeUnknown,
	}
	for in, want := range tests {
		if got := DetectJSONShape([]byte(in)); got != want {
			t.Errorf("DetectJSONShape(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestParseJSON(t *testing.T) {
	t.Parallel()

	t.Run("Array", func(t *testing.T) {
		t.Parallel()
		p, err := Parse([]byte(`[{"id":"A","name":"Dig","start":"2024-01-01","finish":"2024-01-05"}]`), FormatJSON)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if len(p.Activities) != 1 || p.Activities[0].Name != "Dig" {
			t.Errorf("activities = %+v", p.Activities)
		}
		if p.ProjectName != "" {
			t.Errorf("ProjectName = %q, want empty", p.ProjectName)
		}
	})

	t.Run("ProjectWithRelationships", func(t *testing.T) {
		t.Parallel()
		data := `{
			"projectName": "Depot",
			"activities": [
				{"id":"A","name":"Dig","start":"2024-01-01","finish":"2024-01-05","isCritical":true},
				{"id":"B","name":"Pour","start":"2024-01-05","finish":"2024-01-08","durationDays":2.5}
			],
			"relationships": [{"predecessorId":"A","successorId":"B","type":"ss","lagDays":1}]
		}`
		p, err := Parse([]byte(data), FormatJSON)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if p.ProjectName != "Depot" {
			t.Errorf("ProjectName = %q", p.ProjectName)
		}
		want := schedule.Relationship{PredecessorID: "A", SuccessorID: "B", Type: schedule.StartToStart, LagDays: 1}
		if len(p.Relationships) != 1 || p.Relationships[0] != want {
			t.Errorf("relationships = %+v, want %+v", p.Relationships, want)
		}
		if !reflect.DeepEqual(p.Activities[1].Predecessors, []string{"A"}) {
			t.Errorf("B predecessors = %v", p.Activities[1].Predecessors)
		}
		if d := p.Activities[1].DurationDays; d == nil || *d != 2.5 {
			t.Errorf("B duration = %v", d)
		}
		if !p.Activities[0].IsCritical {
			t.Error("A should keep isCritical")
		}
	})

	t.Run("Comprehensive", func(t *testing.T) {
		t.Parallel()
		data := `{"projectName":"X","activities":[{"id":"A","start":"2024-01-01","finish":"2024-01-02","customColor":"#ff0000"}],
			"layout":{"panels":{}},"visualSettings":{"global":{}}}`
		p, err := Parse([]byte(data), FormatJSON)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if len(p.Activities) != 1 || p.Activities[0].CustomColor != "#ff0000" {
			t.Errorf("activities = %+v", p.Activities)
		}
	})

	t.Run("MissingActivities", func(t *testing.T) {
		t.Parallel()
		p, err := Parse([]byte(`{"projectName":"Empty"}`), FormatJSON)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if p.ProjectName != "Empty" || p.Activities == nil || len(p.Activities) != 0 {
			t.Errorf("project = %+v, want empty named project", p)
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		t.Parallel()
		if _, err := Parse([]byte(`{"activities": [`), FormatJSON); err == nil {
			t.Error("expected an error for malformed JSON")
		}
	})
}

const sampleXER = "ERMHDR\t19.12\n" +
	"%T\tPROJECT\n" +
	"%F\tproj_id\tproj_short_name\n" +
	"%R\t1\tDEPOT\n" +
	"%T\tTASK\n" +
	"%F\ttask_id\ttask_code\ttask_name\tearly_start_date\tearly_end_date\n" +
	"%R\t100\tA1000\tExcavate\t2024-01-01 08:00\t2024-01-05 17:00\n" +
	"%R\t\t\tNo id\t2024-01-02 08:00\t2024-01-03 17:00\n" +
	"%R\t\t\t\t\t\n" +
	"%R\t101\tA1010\t\t2024-01-06 08:00\t2024-01-09 17:00\r\n" +
	"%T\tTASKPRED\n" +
	"%F\ttask_pred_id\ttask_id\tpred_task_id\tpred_type\tlag_hr_cnt\n" +
	"%R\t1\t101\t100\tPR_SS\t16\n" +
	"%T\tRSRC\n" +
	"%F\trsrc_id\n" +
	"%R\t9\n" +
	"%E\n"

func TestParseXER(t *testing.T) {
	t.Parallel()
	p, err := Parse([]byte(sampleXER), FormatXER)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.ProjectName != "DEPOT" {
		t.Errorf("ProjectName = %q, want DEPOT", p.ProjectName)
	}
	wantIDs := []string{"100", "id_2", "101"}
	if len(p.Activities) != len(wantIDs) {
		t.Fatalf("activities = %+v, want %d", p.Activities, len(wantIDs))
	}
	for i, id := range wantIDs {
		if p.Activities[i].ID != id {
			t.Errorf("activity %d id = %q, want %q", i, p.Activities[i].ID, id)
		}
	}
	if p.Activities[2].Name != "Activity" {
		t.Errorf("default name = %q, want Activity", p.Activities[2].Name)
	}
	if p.Activities[2].Finish != "2024-01-09 17:00" {
		t.Errorf("finish = %q, want CR stripped", p.Activities[2].Finish)
	}
	if _, _, err := p.Activities[0].Span(); err != nil {
		t.Errorf("XER dates should parse: %v", err)
	}

	want := schedule.Relationship{PredecessorID: "100", SuccessorID: "101", Type: schedule.StartToStart, LagDays: 2}
	if len(p.Relationships) != 1 || p.Relationships[0] != want {
		t.Errorf("relationships = %+v, want %+v", p.Relationships, want)
	}
}

func TestParseXER_NonFiniteLagDropped(t *testing.T) {
	t.Parallel()
	for _, lag := range []string{"NaN", "Inf", "-Inf"} {
		data := "%T\tTASK\n" +
			"%F\ttask_id\tearly_start_date\tearly_end_date\n" +
			"%R\t1\t2024-01-01\t2024-01-02\n" +
			"%R\t2\t2024-01-02\t2024-01-03\n" +
			"%T\tTASKPRED\n" +
			"%F\ttask_id\tpred_task_id\tpred_type\tlag_hr_cnt\n" +
			"%R\t2\t1\tPR_FS\t" + lag + "\n"
		p, err := Parse([]byte(data), FormatXER)
		if err != nil {
			t.Fatalf("Parse(lag %s): %v", lag, err)
		}
		if len(p.Relationships) != 1 || p.Relationships[0].LagDays != 0 {
			t.Errorf("lag %s: relationships = %+v, want one with zero lag", lag, p.Relationships)
		}
		if err := p.Relationships[0].CheckLag(); err != nil {
			t.Errorf("lag %s: CheckLag = %v", lag, err)
		}
	}
}

func TestParseDocuments(t *testing.T) {
	t.Parallel()

	tomlDoc := `
project_name = "Depot"

[[activities]]
id = "A"
name = "Dig"
start = "2024-01-01"
finish = "2024-01-05"

[[activities]]
id = "B"
start = "2024-01-05"
finish = "2024-01-07"
duration_days = 1.5

[[relationships]]
predecessor_id = "A"
successor_id = "B"
type = "FF"
lag_days = -1.0
`
	yamlDoc := `
project_name: Depot
activities:
  - id: A
    name: Dig
    start: "2024-01-01"
    finish: "2024-01-05"
  - id: B
    start: "2024-01-05"
    finish: "2024-01-07"
    duration_days: 1.5
relationships:
  - predecessor_id: A
    successor_id: B
    type: ff
    lag_days: -1
`
	tests := []struct {
		format Format
		data   string
	}{
		{FormatTOML, tomlDoc},
		{FormatYAML, yamlDoc},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()
			p, err := Parse([]byte(tt.data), tt.format)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if p.ProjectName != "Depot" || len(p.Activities) != 2 {
				t.Fatalf("project = %+v", p)
			}
			if d := p.Activities[1].DurationDays; d == nil || *d != 1.5 {
				t.Errorf("B duration = %v, want 1.5", d)
			}
			want := schedule.Relationship{PredecessorID: "A", SuccessorID: "B", Type: schedule.FinishToFinish, LagDays: -1}
			if len(p.Relationships) != 1 || p.Relationships[0] != want {
				t.Errorf("relationships = %+v, want %+v", p.Relationships, want)
			}
			if !reflect.DeepEqual(p.Activities[0].Successors, []string{"B"}) {
				t.Errorf("A successors = %v", p.Activities[0].Successors)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	path := filepath.Join(dir, "site-works.json")
	if err := os.WriteFile(path, []byte(`[{"id":"A","start":"2024-01-01","finish":"2024-01-02"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.ProjectName != "site-works" {
		t.Errorf("ProjectName = %q, want file stem", p.ProjectName)
	}

	if _, err := Load(filepath.Join(dir, "plan.csv"), ""); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Load(.csv) error = %v, want ErrUnknownFormat", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.json"), ""); err == nil {
		t.Error("Load of a missing file should fail")
	}
	if _, err := Parse(nil, Format("csv")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Parse(csv) error = %v", err)
	}
}
