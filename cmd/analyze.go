package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/planworks/internal/cpm"
	"github.com/papapumpkin/planworks/internal/schedule"
	"github.com/papapumpkin/planworks/internal/ui"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Compute dates, float, the critical path and float paths",
	Long: `Imports a schedule, validates it and runs the forward and backward passes.

The network is always computed; validation errors only stop the command with
--strict. Rows can be narrowed with --critical-only or --path and ordered with
--sort. --gantt adds a text Gantt chart and --out writes the annotated project.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	addSourceFlags(analyzeCmd)
	f := analyzeCmd.Flags()
	f.Bool("critical-only", false, "show only critical activities")
	f.Int("path", 0, "show only this float path")
	f.String("sort", "start", "sort rows by id, start, float or path")
	f.Bool("gantt", false, "draw a text Gantt chart")
	f.Bool("strict", false, "fail when validation reports errors")
	f.String("out", "", "write the annotated project as JSON to this file")
	rootCmd.AddCommand(analyzeCmd)
}

// analysisJSON is the --output json document of analyze.
type analysisJSON struct {
	Project    string              `json:"projectName"`
	Result     *cpm.Result         `json:"result"`
	Paths      []cpm.FloatPath     `json:"floatPaths"`
	Activities []schedule.Activity `json:"activities"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	filter, key, err := rowOptions(cmd)
	if err != nil {
		return err
	}

	p, err := s.loadSource(cmd, args)
	if err != nil {
		return err
	}

	strict, _ := cmd.Flags().GetBool("strict")
	if err := s.validate(cmd, p, strict); err != nil {
		return err
	}

	res := s.compute(p)
	annotated := cpm.Annotate(p.Activities, res)

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if err := writeProjectFile(out, &schedule.Project{
			ProjectName:   p.ProjectName,
			Activities:    annotated,
			Relationships: p.Relationships,
		}); err != nil {
			return err
		}
		s.printer.Success("annotated project written to " + out)
	}

	rows := filter.Apply(ui.BuildRows(p.Activities, res))
	ui.SortRows(rows, key)

	w := cmd.OutOrStdout()
	if s.json() {
		keep := make(map[string]bool, len(rows))
		for _, r := range rows {
			keep[r.Metrics.ActivityID] = true
		}
		var acts []schedule.Activity
		for _, a := range annotated {
			if keep[a.ID] {
				acts = append(acts, a)
			}
		}
		return writeJSON(w, analysisJSON{
			Project:    p.ProjectName,
			Result:     res,
			Paths:      cpm.Paths(res),
			Activities: acts,
		})
	}

	fmt.Fprint(w, s.render.MetricsTable(rows, res.Baseline))
	fmt.Fprintln(w)
	if gantt, _ := cmd.Flags().GetBool("gantt"); gantt {
		fmt.Fprint(w, s.render.Gantt(rows, res.Baseline))
		fmt.Fprintln(w)
	}
	fmt.Fprint(w, s.render.Paths(cpm.Paths(res)))
	return nil
}

// rowOptions reads the row filter and sort flags.
func rowOptions(cmd *cobra.Command) (ui.RowFilter, ui.SortKey, error) {
	criticalOnly, _ := cmd.Flags().GetBool("critical-only")
	path, _ := cmd.Flags().GetInt("path")
	sortName, _ := cmd.Flags().GetString("sort")
	key, err := ui.ParseSortKey(sortName)
	if err != nil {
		return ui.RowFilter{}, "", err
	}
	if path < 0 {
		return ui.RowFilter{}, "", fmt.Errorf("--path must be positive, got %d", path)
	}
	return ui.RowFilter{CriticalOnly: criticalOnly, Path: path}, key, nil
}

// validate runs the check chain over p. Findings are printed; the error is
// non-nil only when strict is set and an error-level check failed.
func (s *session) validate(cmd *cobra.Command, p *schedule.Project, strict bool) error {
	res, err := s.runChecks(cmd.Context(), p)
	if err != nil {
		return err
	}
	if !s.json() || !res.Passed {
		s.printer.ValidationResult(res)
	}
	if strict && !res.Passed {
		return fmt.Errorf("validation failed with %d error(s)", len(res.Errors()))
	}
	return nil
}

func writeProjectFile(path string, p *schedule.Project) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := writeJSON(f, p); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
