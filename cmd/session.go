package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/planworks/internal/config"
	"github.com/papapumpkin/planworks/internal/cpm"
	"github.com/papapumpkin/planworks/internal/importer"
	"github.com/papapumpkin/planworks/internal/layout"
	"github.com/papapumpkin/planworks/internal/schedule"
	"github.com/papapumpkin/planworks/internal/store"
	"github.com/papapumpkin/planworks/internal/telemetry"
	"github.com/papapumpkin/planworks/internal/ui"
)

// session bundles what every command needs: configuration, the stderr
// printer and the telemetry emitter of this invocation.
type session struct {
	cfg     config.Config
	printer *ui.Printer
	render  ui.Renderer
	events  *telemetry.Emitter
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	s := &session{
		cfg:     cfg,
		printer: ui.New(cmd.ErrOrStderr(), cfg.Color, cfg.Verbose),
		render:  ui.Renderer{Width: cfg.Width, Color: cfg.Color},
	}
	if cfg.TelemetryPath != "" {
		em, err := telemetry.NewEmitter(cfg.TelemetryPath)
		if err != nil {
			return nil, err
		}
		s.events = em
		s.printer.Debug("telemetry run %s -> %s", em.RunID(), cfg.TelemetryPath)
	}
	return s, nil
}

func (s *session) close() {
	if err := s.events.Close(); err != nil {
		s.printer.Warn(err.Error())
	}
}

func (s *session) emit(kind, project string, data any) {
	if err := s.events.Emit(telemetry.Event{Kind: kind, Project: project, Data: data}); err != nil {
		s.printer.Warn(err.Error())
	}
}

func (s *session) json() bool {
	return s.cfg.Output == config.OutputJSON
}

func (s *session) cpmOptions() cpm.Options {
	return cpm.Options{MaxIterations: s.cfg.MaxIterations}
}

func (s *session) layoutConstraints() layout.Constraints {
	l := s.cfg.Layout
	return layout.Constraints{
		MaxRowChanges:           l.MaxRowChanges,
		PreserveWBSGrouping:     l.PreserveWBSGrouping,
		PreserveCriticalPath:    l.PreserveCriticalPath,
		MinGapDuration:          float64(l.MinGapDuration),
		MaxConcurrentActivities: l.MaxConcurrentActivities,
	}
}

func (s *session) analysisOptions() layout.AnalysisOptions {
	opts := layout.DefaultAnalysisOptions()
	opts.TimeWindowDays = float64(s.cfg.Layout.TimeWindowDays)
	opts.MaxPairs = s.cfg.Layout.MaxPairs
	return opts
}

func (s *session) openStore(ctx context.Context) (store.Store, error) {
	st, err := store.NewSQLiteStore(ctx, s.cfg.StorePath)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// addSourceFlags registers the flags shared by commands that read a schedule.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "", "input format: json, xer, toml or yaml (default from extension)")
	cmd.Flags().String("project", "", "read a saved project instead of a file")
}

// loadSource reads the schedule named by the first argument, or the saved
// project named by --project.
func (s *session) loadSource(cmd *cobra.Command, args []string) (*schedule.Project, error) {
	if name, _ := cmd.Flags().GetString("project"); name != "" {
		st, err := s.openStore(cmd.Context())
		if err != nil {
			return nil, err
		}
		defer st.Close()
		p, err := st.Load(cmd.Context(), name)
		if err != nil {
			return nil, err
		}
		s.printer.Imported(p.ProjectName, "store", len(p.Activities), len(p.Relationships))
		return p, nil
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("a schedule file or --project is required")
	}
	formatName, _ := cmd.Flags().GetString("format")
	return s.importFile(args[0], formatName)
}

func (s *session) importFile(path, formatName string) (*schedule.Project, error) {
	var format importer.Format
	if formatName != "" {
		f, err := importer.ParseFormat(formatName)
		if err != nil {
			return nil, err
		}
		format = f
	}
	start := time.Now()
	p, err := importer.Load(path, format)
	if err != nil {
		return nil, err
	}
	s.printer.Imported(p.ProjectName, filepath.Base(path), len(p.Activities), len(p.Relationships))
	s.emit(telemetry.KindImportDone, p.ProjectName, map[string]any{
		"source":        path,
		"activities":    len(p.Activities),
		"relationships": len(p.Relationships),
		"elapsed_ms":    time.Since(start).Milliseconds(),
	})
	return p, nil
}

// compute runs the network engine over p and reports the outcome.
func (s *session) compute(p *schedule.Project) *cpm.Result {
	start := time.Now()
	res := cpm.Compute(p.Activities, p.Relationships, s.cpmOptions())
	elapsed := time.Since(start)

	s.emit(telemetry.KindAnalysisDone, p.ProjectName, map[string]any{
		"activities": len(res.Metrics),
		"issues":     len(res.Issues),
		"finish":     res.FinishID,
		"duration":   res.ProjectFinish,
		"converged":  res.Converged,
		"ordered":    res.Ordered,
		"elapsed_ms": elapsed.Milliseconds(),
	})
	if !res.Converged {
		s.emit(telemetry.KindNonConvergence, p.ProjectName, map[string]int{
			"forward":  res.ForwardIterations,
			"backward": res.BackwardIterations,
			"cap":      s.cfg.MaxIterations,
		})
	}
	if !s.json() {
		s.printer.AnalysisSummary(res, elapsed)
	}
	return res
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
