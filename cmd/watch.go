package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/planworks/internal/cpm"
	"github.com/papapumpkin/planworks/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-analyze a schedule every time it changes",
	Long: `Watches a schedule file and re-imports and re-computes it after every save,
printing the network summary and float paths. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("format", "", "input format: json, xer, toml or yaml (default from extension)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	path := args[0]
	format, _ := cmd.Flags().GetString("format")

	w, err := watch.New(path)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		_ = w.Close()
		return err
	}
	defer w.Stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.reanalyze(cmd, path, format)
	s.printer.Info(fmt.Sprintf("watching %s (Ctrl-C to stop)", path))

	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-w.Changes:
			if !ok {
				return nil
			}
			if change.Kind == watch.ChangeRemoved {
				s.printer.Warn(fmt.Sprintf("%s was removed; waiting for it to reappear", change.File))
				continue
			}
			s.reanalyze(cmd, path, format)
		}
	}
}

// reanalyze imports and computes the file, reporting failures without
// stopping the watch.
func (s *session) reanalyze(cmd *cobra.Command, path, format string) {
	p, err := s.importFile(path, format)
	if err != nil {
		s.printer.Error(err.Error())
		return
	}
	res := s.compute(p)

	out := cmd.OutOrStdout()
	if s.json() {
		if err := writeJSON(out, analysisJSON{Project: p.ProjectName, Result: res, Paths: cpm.Paths(res)}); err != nil {
			s.printer.Error(err.Error())
		}
		return
	}
	fmt.Fprint(out, s.render.Paths(cpm.Paths(res)))
}
