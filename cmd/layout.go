package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/planworks/internal/cpm"
	"github.com/papapumpkin/planworks/internal/layout"
	"github.com/papapumpkin/planworks/internal/schedule"
	"github.com/papapumpkin/planworks/internal/telemetry"
)

var layoutCmd = &cobra.Command{
	Use:   "layout [file]",
	Short: "Propose compact Gantt row layouts",
	Long: `Computes the network to learn which activities are critical, analyzes the
one-row-per-activity layout for time gaps and row-sharing pairs, and ranks the
candidates of four packing heuristics.

--apply writes the project with the chosen candidate's rows to a JSON file. The
chosen candidate is --candidate N (1 = top ranked) or, by default, the
recommended one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLayout,
}

func init() {
	addSourceFlags(layoutCmd)
	f := layoutCmd.Flags()
	f.Int("max-row-changes", 100, "maximum moves per candidate")
	f.Bool("preserve-critical", true, "recommend only candidates that leave critical activities in place")
	f.Bool("preserve-wbs", true, "recommend only candidates that merge activities of the same group")
	f.Int("min-gap", 1, "minimum gap in days between activities sharing a row")
	f.Int("max-concurrent", 3, "activities allowed per row; below 2 disables row sharing")
	f.Int("time-window", 30, "compatibility scan window in days")
	f.Int("candidate", 0, "candidate rank to apply (default: recommended)")
	f.String("apply", "", "write the project with the chosen rows as JSON to this file")

	for key, flag := range map[string]string{
		"layout.max_row_changes":           "max-row-changes",
		"layout.preserve_critical_path":    "preserve-critical",
		"layout.preserve_wbs_grouping":     "preserve-wbs",
		"layout.min_gap_duration":          "min-gap",
		"layout.max_concurrent_activities": "max-concurrent",
		"layout.time_window_days":          "time-window",
	} {
		if err := viper.BindPFlag(key, f.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", flag, err))
		}
	}
	rootCmd.AddCommand(layoutCmd)
}

// layoutJSON is the --output json document of layout.
type layoutJSON struct {
	Project  string           `json:"projectName"`
	Analysis *layout.Analysis `json:"analysis"`
	Result   *layout.Result   `json:"result"`
}

func runLayout(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	p, err := s.loadSource(cmd, args)
	if err != nil {
		return err
	}

	annotated := cpm.Annotate(p.Activities, s.compute(p))
	analysis, res := s.optimize(p.ProjectName, annotated)

	rank, _ := cmd.Flags().GetInt("candidate")
	chosen, err := chooseCandidate(res, rank)
	if err != nil {
		return err
	}

	if out, _ := cmd.Flags().GetString("apply"); out != "" {
		if chosen == nil {
			return fmt.Errorf("no layout candidate to apply")
		}
		if err := writeProjectFile(out, &schedule.Project{
			ProjectName:   p.ProjectName,
			Activities:    layout.Apply(annotated, chosen),
			Relationships: p.Relationships,
		}); err != nil {
			return err
		}
		s.printer.Success(fmt.Sprintf("%s layout written to %s", chosen.Algorithm, out))
	}

	w := cmd.OutOrStdout()
	if s.json() {
		return writeJSON(w, layoutJSON{Project: p.ProjectName, Analysis: analysis, Result: res})
	}
	s.printer.LayoutSummary(analysis, res)
	fmt.Fprint(w, s.render.Baseline(analysis.Baseline))
	fmt.Fprintln(w)
	fmt.Fprint(w, s.render.Candidates(res))
	if chosen != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s (%s)\n", chosen.Name, chosen.Description)
		fmt.Fprint(w, s.render.Moves(chosen))
	}
	return nil
}

// optimize analyzes the layout of activities and generates candidates.
func (s *session) optimize(project string, activities []schedule.Activity) (*layout.Analysis, *layout.Result) {
	analysis := layout.Analyze(activities, s.analysisOptions())
	res := layout.GenerateCandidates(activities, analysis.Opportunities, s.layoutConstraints())
	s.emit(telemetry.KindLayoutDone, project, map[string]any{
		"opportunities": len(analysis.Opportunities),
		"candidates":    len(res.Candidates),
		"savings":       res.TotalSpaceSavings,
		"rows":          analysis.Baseline.TotalHeight,
		"elapsed_ms":    (analysis.ProcessingTime + res.ProcessingTime).Milliseconds(),
	})
	return analysis, res
}

// chooseCandidate returns the candidate at 1-based rank, or the recommended
// candidate (falling back to the best) when rank is zero.
func chooseCandidate(res *layout.Result, rank int) (*layout.Candidate, error) {
	if rank == 0 {
		if res.Recommended != nil {
			return res.Recommended, nil
		}
		return res.BestCandidate, nil
	}
	if rank < 0 || rank > len(res.Candidates) {
		return nil, fmt.Errorf("--candidate %d out of range (1-%d)", rank, len(res.Candidates))
	}
	return &res.Candidates[rank-1], nil
}
