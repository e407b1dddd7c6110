package importer

import (
	"bufio"
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/papapumpkin/planworks/internal/schedule"
)

// hoursPerDay converts XER lag hours into days.
const hoursPerDay = 8

// xerTable is the %T section being read.
type xerTable struct {
	name   string
	fields []string
}

// ParseXER reads the TASK, TASKPRED and PROJECT tables of a Primavera XER
// export. Every other table is skipped. TASK rows without a start or
// finish are dropped; rows without an identifier get id_<n>.
func ParseXER(data []byte) (*schedule.Project, error) {
	p := &schedule.Project{}

	var (
		table xerTable
		tasks int
	)
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		cols := strings.Split(line, "\t")
		switch cols[0] {
		case "%T":
			table = xerTable{}
			if len(cols) > 1 {
				table.name = strings.TrimSpace(cols[1])
			}
		case "%F":
			table.fields = cols[1:]
		case "%R":
			if table.fields == nil {
				continue
			}
			row := make(map[string]string, len(table.fields))
			for i, f := range table.fields {
				if i+1 < len(cols) {
					row[f] = strings.TrimSpace(cols[i+1])
				}
			}
			switch table.name {
			case "TASK":
				tasks++
				if a, ok := xerActivity(row, tasks); ok {
					p.Activities = append(p.Activities, a)
				}
			case "TASKPRED":
				if r, ok := xerRelationship(row); ok {
					p.Relationships = append(p.Relationships, r)
				}
			case "PROJECT":
				if p.ProjectName == "" {
					p.ProjectName = first(row, "proj_short_name", "proj_name")
				}
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading XER: %w", err)
	}
	return p, nil
}

func xerActivity(row map[string]string, n int) (schedule.Activity, bool) {
	a := schedule.Activity{
		ID:     first(row, "task_id", "act_id", "task_code"),
		Name:   first(row, "task_name", "act_name"),
		Start:  first(row, "early_start_date", "start_date", "act_start_date"),
		Finish: first(row, "early_end_date", "finish_date", "act_end_date"),
	}
	if a.ID == "" {
		a.ID = "id_" + strconv.Itoa(n)
	}
	if a.Name == "" {
		a.Name = "Activity"
	}
	if a.Start == "" || a.Finish == "" {
		return schedule.Activity{}, false
	}
	return a, true
}

func xerRelationship(row map[string]string) (schedule.Relationship, bool) {
	r := schedule.Relationship{
		PredecessorID: row["pred_task_id"],
		SuccessorID:   row["task_id"],
		Type:          schedule.RelationType(row["pred_type"]),
	}
	if r.PredecessorID == "" || r.SuccessorID == "" {
		return schedule.Relationship{}, false
	}
	if hrs, err := strconv.ParseFloat(row["lag_hr_cnt"], 64); err == nil && !math.IsNaN(hrs) && !math.IsInf(hrs, 0) {
		r.LagDays = hrs / hoursPerDay
	}
	return r, true
}

// first returns the first non-empty value among keys.
func first(row map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := row[k]; v != "" {
			return v
		}
	}
	return ""
}
