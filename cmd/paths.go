package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/planworks/internal/cpm"
	"github.com/papapumpkin/planworks/internal/ui"
)

var pathsCmd = &cobra.Command{
	Use:   "paths [file]",
	Short: "Show the multiple float paths of a schedule",
	Long: `Groups activities by float path. Path 1 is the driving path into the project
finish; each further path is the next chain of driving predecessors. With
--gantt the chart is ordered by path.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPaths,
}

func init() {
	addSourceFlags(pathsCmd)
	pathsCmd.Flags().Int("path", 0, "show only this float path")
	pathsCmd.Flags().Bool("gantt", false, "draw a text Gantt chart ordered by path")
	rootCmd.AddCommand(pathsCmd)
}

func runPaths(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	only, _ := cmd.Flags().GetInt("path")

	p, err := s.loadSource(cmd, args)
	if err != nil {
		return err
	}
	res := s.compute(p)

	paths := cpm.Paths(res)
	if only > 0 {
		var kept []cpm.FloatPath
		for _, fp := range paths {
			if fp.Number == only {
				kept = append(kept, fp)
			}
		}
		if len(kept) == 0 {
			return fmt.Errorf("float path %d not found (schedule has %d)", only, len(paths))
		}
		paths = kept
	}

	w := cmd.OutOrStdout()
	if s.json() {
		return writeJSON(w, paths)
	}
	fmt.Fprint(w, s.render.Paths(paths))
	if gantt, _ := cmd.Flags().GetBool("gantt"); gantt {
		rows := ui.RowFilter{Path: only}.Apply(ui.BuildRows(p.Activities, res))
		ui.SortRows(rows, ui.SortByPath)
		fmt.Fprintln(w)
		fmt.Fprint(w, s.render.Gantt(rows, res.Baseline))
	}
	return nil
}
