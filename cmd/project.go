package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/planworks/internal/store"
	"github.com/papapumpkin/planworks/internal/telemetry"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage saved projects",
	Long:  "Saves imported schedules under a name so other commands can read them with --project.",
}

var projectSaveCmd = &cobra.Command{
	Use:   "save <file>",
	Short: "Import a schedule and save it",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectSave,
}

var projectLoadCmd = &cobra.Command{
	Use:   "load <name>",
	Short: "Print a saved project as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectLoad,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved projects, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runProjectList,
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectDelete,
}

func init() {
	projectSaveCmd.Flags().String("name", "", "save under this name (default: the project's name)")
	projectSaveCmd.Flags().String("format", "", "input format: json, xer, toml or yaml (default from extension)")
	projectLoadCmd.Flags().String("out", "", "write to this file instead of stdout")

	projectCmd.AddCommand(projectSaveCmd, projectLoadCmd, projectListCmd, projectDeleteCmd)
	rootCmd.AddCommand(projectCmd)
}

func runProjectSave(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	format, _ := cmd.Flags().GetString("format")
	p, err := s.importFile(args[0], format)
	if err != nil {
		return err
	}
	if name, _ := cmd.Flags().GetString("name"); name != "" {
		p.ProjectName = name
	}

	st, err := s.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Save(cmd.Context(), p); err != nil {
		if errors.Is(err, store.ErrEmptyName) {
			return fmt.Errorf("%w: pass --name", err)
		}
		return err
	}
	s.emit(telemetry.KindProjectSaved, p.ProjectName, map[string]int{
		"activities":    len(p.Activities),
		"relationships": len(p.Relationships),
	})
	s.printer.Success(fmt.Sprintf("saved %q (%s activities) to %s", p.ProjectName, humanize.Comma(int64(len(p.Activities))), s.cfg.StorePath))
	return nil
}

func runProjectLoad(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	st, err := s.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := st.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if err := writeProjectFile(out, p); err != nil {
			return err
		}
		s.printer.Success(fmt.Sprintf("wrote %q to %s", p.ProjectName, out))
		return nil
	}
	return writeJSON(cmd.OutOrStdout(), p)
}

func runProjectList(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	st, err := s.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close()

	metas, err := st.List(cmd.Context())
	if err != nil {
		return err
	}
	if s.json() {
		if metas == nil {
			metas = []store.ProjectMeta{}
		}
		return writeJSON(cmd.OutOrStdout(), metas)
	}
	fmt.Fprint(cmd.OutOrStdout(), s.render.Projects(metas, time.Now()))
	return nil
}

func runProjectDelete(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	st, err := s.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	s.emit(telemetry.KindProjectDeleted, args[0], nil)
	s.printer.Success(fmt.Sprintf("deleted %q", args[0]))
	return nil
}
