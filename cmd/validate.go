package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/planworks/internal/check"
	"github.com/papapumpkin/planworks/internal/schedule"
	"github.com/papapumpkin/planworks/internal/telemetry"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a schedule for data and network problems",
	Long: `Runs the validation chain: activity ids, dates, relationship endpoints and
types, and relationship loops are errors; dangling relationships, activities
without relationships and disconnected fragments are warnings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	addSourceFlags(validateCmd)
	rootCmd.AddCommand(validateCmd)
}

// validationJSON is the --output json document of validate.
type validationJSON struct {
	Project string      `json:"projectName"`
	Passed  bool        `json:"passed"`
	Checks  []checkJSON `json:"checks"`
}

type checkJSON struct {
	Name     string   `json:"name"`
	Severity string   `json:"severity"`
	Passed   bool     `json:"passed"`
	Findings []string `json:"findings,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	p, err := s.loadSource(cmd, args)
	if err != nil {
		return err
	}

	res, err := s.runChecks(cmd.Context(), p)
	if err != nil {
		return err
	}

	if s.json() {
		if err := writeJSON(cmd.OutOrStdout(), toValidationJSON(p.ProjectName, res)); err != nil {
			return err
		}
	} else {
		s.printer.ValidationResult(res)
	}
	if !res.Passed {
		return fmt.Errorf("validation failed with %d error(s)", len(res.Errors()))
	}
	return nil
}

// runChecks runs the default validation chain over p and records the outcome.
func (s *session) runChecks(ctx context.Context, p *schedule.Project) (*check.Result, error) {
	var v check.Validator = check.DefaultChain()
	res, err := v.Run(ctx, p)
	if err != nil {
		return nil, err
	}
	s.emit(telemetry.KindValidationDone, p.ProjectName, map[string]any{
		"passed":   res.Passed,
		"errors":   len(res.Errors()),
		"warnings": len(res.Warnings()),
	})
	return res, nil
}

func toValidationJSON(project string, res *check.Result) validationJSON {
	out := validationJSON{Project: project, Passed: res.Passed, Checks: make([]checkJSON, 0, len(res.Checks))}
	for _, c := range res.Checks {
		cj := checkJSON{Name: c.Name, Severity: string(c.Severity), Passed: c.Passed}
		for _, f := range c.Findings {
			cj.Findings = append(cj.Findings, f.Error())
		}
		out.Checks = append(out.Checks, cj)
	}
	return out
}
