package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/papapumpkin/planworks/internal/cpm"
	"github.com/papapumpkin/planworks/internal/layout"
	"github.com/papapumpkin/planworks/internal/schedule"
	"github.com/papapumpkin/planworks/internal/store"
)

const dateLayout = "2006-01-02"

// Renderer draws schedule results as terminal text. With Color false the
// output carries no escape sequences, which keeps it pipe- and test-friendly.
type Renderer struct {
	// Width is the available terminal width in columns. Zero means 100.
	Width int

	// Color controls whether lipgloss styles are applied.
	Color bool
}

func (r Renderer) width() int {
	if r.Width <= 0 {
		return 100
	}
	return r.Width
}

// style returns st, or a colorless style with the same padding.
func (r Renderer) style(st lipgloss.Style) lipgloss.Style {
	if r.Color {
		return st
	}
	top, right, bottom, left := st.GetPadding()
	return lipgloss.NewStyle().Padding(top, right, bottom, left)
}

func (r Renderer) paint(st lipgloss.Style, s string) string {
	if !r.Color {
		return s
	}
	return st.Render(s)
}

func (r Renderer) table(headers []string, rows [][]string, cell func(row, col int) lipgloss.Style) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.style(styleTableBorder)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.style(styleTableHeader)
			}
			if cell != nil && r.Color {
				return cell(row, col)
			}
			return r.style(styleTableCell)
		})
	return t.Render()
}

// days formats a day count with at most two decimals.
func days(v float64) string {
	if math.Abs(v) < cpm.Epsilon {
		v = 0
	}
	return humanize.FtoaWithDigits(v, 2)
}

func offsetDate(base time.Time, offset float64) string {
	if base.IsZero() {
		return days(offset)
	}
	return base.Add(time.Duration(offset * 24 * float64(time.Hour))).Format(dateLayout)
}

// MetricsTable renders one line per row with early dates, duration, float
// and float path.
func (r Renderer) MetricsTable(rows []Row, baseline time.Time) string {
	headers := []string{"ID", "Name", "Early start", "Early finish", "Dur", "TF", "FF", "Path", "Crit"}
	cells := make([][]string, len(rows))
	for i, row := range rows {
		m := row.Metrics
		crit := ""
		if m.IsCritical {
			crit = iconDone
		}
		cells[i] = []string{
			m.ActivityID,
			row.Activity.Name,
			offsetDate(baseline, m.ES),
			offsetDate(baseline, m.EF),
			days(m.DurationDays),
			days(m.TotalFloatDays),
			days(m.FreeFloatDays),
			strconv.Itoa(m.FloatPathNumber),
			crit,
		}
	}
	return r.table(headers, cells, func(row, _ int) lipgloss.Style {
		st := styleTableCell
		if row >= 0 && row < len(rows) {
			st = st.Foreground(pathColor(rows[row].Metrics.FloatPathNumber))
			if rows[row].Metrics.IsCritical {
				st = st.Bold(true)
			}
		}
		return st
	})
}

// Gantt renders a text Gantt chart of early dates, one bar per row, colored
// by float path. Zero-duration activities are drawn as milestones.
func (r Renderer) Gantt(rows []Row, baseline time.Time) string {
	if len(rows) == 0 {
		return ""
	}

	label := 0
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range rows {
		label = max(label, len(row.Metrics.ActivityID))
		lo = math.Min(lo, row.Metrics.ES)
		hi = math.Max(hi, row.Metrics.EF)
	}
	label = min(label, 16)
	plot := max(r.width()-label-3, 10)
	span := hi - lo
	if span <= 0 {
		span = 1
	}
	col := func(x float64) int {
		return int(math.Round((x - lo) / span * float64(plot-1)))
	}

	var b strings.Builder
	from, to := offsetDate(baseline, lo), offsetDate(baseline, hi)
	gap := max(plot-len(from)-len(to), 1)
	fmt.Fprintf(&b, "%s   %s%s%s\n", strings.Repeat(" ", label), r.paint(styleDim, from), strings.Repeat(" ", gap), r.paint(styleDim, to))

	for _, row := range rows {
		m := row.Metrics
		id := m.ActivityID
		if len(id) > label {
			id = id[:label]
		}

		start, end := col(m.ES), col(m.EF)
		var bar string
		if m.DurationDays < cpm.Epsilon {
			bar = iconMilestone
		} else {
			bar = strings.Repeat(glyph(row.Activity.BarStyle), max(end-start, 1))
		}

		st := lipgloss.NewStyle().Foreground(pathColor(m.FloatPathNumber))
		if row.Activity.CustomColor != "" {
			st = st.Foreground(lipgloss.Color(row.Activity.CustomColor))
		}
		if m.IsCritical {
			st = st.Bold(true)
		}

		fmt.Fprintf(&b, "%-*s │ %s%s", label, id, strings.Repeat(" ", start), r.paint(st, bar))
		if row.Activity.ShowLabel == nil || *row.Activity.ShowLabel {
			if name := row.Activity.Name; name != "" {
				b.WriteString(" " + r.paint(styleDim, name))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func glyph(s schedule.BarStyle) string {
	switch s {
	case schedule.BarDashed:
		return glyphDashed
	case schedule.BarDotted:
		return glyphDotted
	default:
		return glyphSolid
	}
}

// Paths renders the float-path partition, one line per path.
func (r Renderer) Paths(paths []cpm.FloatPath) string {
	var b strings.Builder
	for _, p := range paths {
		head := fmt.Sprintf("Path %d", p.Number)
		st := lipgloss.NewStyle().Foreground(pathColor(p.Number)).Bold(true)
		tag := fmt.Sprintf("min TF %s", days(p.MinTotalFloat))
		if p.Critical {
			tag = "critical"
		}
		fmt.Fprintf(&b, "%s %s %s %s\n",
			r.paint(st, head),
			r.paint(styleDim, "("+tag+", "+strconv.Itoa(len(p.ActivityIDs))+" activities)"),
			iconItem,
			strings.Join(p.ActivityIDs, " → "))
	}
	return b.String()
}

// Baseline renders the unoptimized layout summary.
func (r Renderer) Baseline(bl layout.Baseline) string {
	lines := [][2]string{
		{"activities", strconv.Itoa(bl.TotalActivities)},
		{"rows", strconv.Itoa(bl.TotalHeight)},
		{"white space", humanize.FtoaWithDigits(bl.WhiteSpacePercentage, 1) + "%"},
		{"row utilization", humanize.FtoaWithDigits(bl.AverageRowUtilization*100, 1) + "%"},
		{"critical activities", strconv.Itoa(bl.CriticalPathLength)},
		{"time gaps", strconv.Itoa(bl.TotalGaps)},
		{"potential savings", strconv.Itoa(bl.PotentialSavings) + " rows"},
	}
	var b strings.Builder
	b.WriteString(r.paint(styleHeading, "layout baseline") + "\n")
	for _, l := range lines {
		fmt.Fprintf(&b, "  %-20s %s\n", l[0]+":", l[1])
	}
	return b.String()
}

// Candidates renders ranked layout candidates, flagging the best and the
// recommended one.
func (r Renderer) Candidates(res *layout.Result) string {
	if res == nil || len(res.Candidates) == 0 {
		return r.paint(styleDim, "no layout candidates") + "\n"
	}
	headers := []string{"#", "Algorithm", "Saves", "Moves", "Score", ""}
	cells := make([][]string, len(res.Candidates))
	for i, c := range res.Candidates {
		var flags []string
		if res.BestCandidate != nil && res.BestCandidate.ID == c.ID {
			flags = append(flags, "best")
		}
		if res.Recommended != nil && res.Recommended.ID == c.ID {
			flags = append(flags, "recommended")
		}
		cells[i] = []string{
			strconv.Itoa(i + 1),
			string(c.Algorithm),
			strconv.Itoa(c.SpaceSavings) + " rows",
			strconv.Itoa(len(c.Moves)),
			humanize.FtoaWithDigits(c.Score, 2),
			strings.Join(flags, ", "),
		}
	}
	recommended := ""
	if res.Recommended != nil {
		recommended = res.Recommended.ID
	}
	return r.table(headers, cells, func(row, _ int) lipgloss.Style {
		if row >= 0 && row < len(res.Candidates) && res.Candidates[row].ID == recommended {
			return styleTableCell.Foreground(colorSuccess).Bold(true)
		}
		return styleTableCell
	})
}

// Moves renders the row reassignments of one candidate.
func (r Renderer) Moves(c *layout.Candidate) string {
	if c == nil || len(c.Moves) == 0 {
		return r.paint(styleDim, "no moves") + "\n"
	}
	headers := []string{"Activity", "From row", "To row", "Change", "Shares row with"}
	cells := make([][]string, len(c.Moves))
	for i, m := range c.Moves {
		cells[i] = []string{
			m.ID,
			strconv.Itoa(m.OriginalRow),
			strconv.Itoa(m.OptimizedRow),
			fmt.Sprintf("%+d", m.RowChange),
			m.PairedWith,
		}
	}
	return r.table(headers, cells, nil)
}

// Projects renders saved projects with their age relative to now.
func (r Renderer) Projects(metas []store.ProjectMeta, now time.Time) string {
	if len(metas) == 0 {
		return r.paint(styleDim, "no saved projects") + "\n"
	}
	headers := []string{"Name", "Activities", "Relationships", "Saved"}
	cells := make([][]string, len(metas))
	for i, m := range metas {
		cells[i] = []string{
			m.Name,
			humanize.Comma(int64(m.Activities)),
			humanize.Comma(int64(m.Relationships)),
			humanize.RelTime(m.SavedAt, now, "ago", "from now"),
		}
	}
	return r.table(headers, cells, nil)
}
