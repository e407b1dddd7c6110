package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "planworks",
	Short: "Schedule network analysis and Gantt layout optimization",
	Long: `planworks imports a project schedule, computes early and late dates, total and
free float, the critical path and the multiple float paths, and proposes
compact Gantt row layouts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default .planworks.yaml)")
	pf.BoolP("verbose", "v", false, "verbose output")
	pf.StringP("output", "o", "table", "output format: table or json")
	pf.Bool("color", true, "colorize terminal output")
	pf.Int("width", 100, "chart width in columns")
	pf.String("store", ".planworks/projects.db", "project store database")
	pf.String("telemetry", "", "append JSONL telemetry events to this file")
	pf.Int("max-iterations", 100, "iteration cap for each scheduling pass")

	bindFlag("verbose", "verbose")
	bindFlag("output", "output")
	bindFlag("color", "color")
	bindFlag("width", "width")
	bindFlag("store_path", "store")
	bindFlag("telemetry_path", "telemetry")
	bindFlag("max_iterations", "max-iterations")
}

func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", flag, err))
	}
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".planworks")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("PLANWORKS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}
