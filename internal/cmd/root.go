// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/aiimpact/tracker/internal/cmdtypes"
	"github.com/aiimpact/tracker/internal/config"
	"github.com/aiimpact/tracker/internal/output"
)

// NewRootCmd creates the root command for the ai-impact-tracker CLI.
func NewRootCmd() *cobra.Command {
	return NewRootCmdWith(&cmdtypes.GlobalConfig{})
}

// NewRootCmdWith creates the root command around cfg. Collaborators already
// set on cfg (runner, prompter, HTTP client, stdout) are kept; the resolved
// configuration is filled in before any sub-command runs.
func NewRootCmdWith(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		dashboardURLFlag string
		timestampsFlag   bool
	)

	rootCmd := &cobra.Command{
		Use:   "ai-impact-tracker",
		Short: "Scaffold and track AI sustainability dashboards",
		Long: `ai-impact-tracker scaffolds a sustainability dashboard project
(FastAPI backend, Next.js frontend) and wraps AI workloads to measure their
energy, emissions and water use and report them to that dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logCfg := output.LogConfig{Verbose: cfg.Verbose}
			if cmd.Flags().Changed("timestamps") {
				logCfg.Timestamps = output.BoolPtr(timestampsFlag)
			}
			output.SetupLogging(logCfg)

			resolved, err := config.Resolve(config.ResolveOptions{
				ConfigFlag:       cfg.ConfigPath,
				DashboardURLFlag: dashboardURLFlag,
			})
			if err != nil {
				return &cmdtypes.ExitError{Code: cmdtypes.ExitValidationError, Err: err}
			}
			cfg.Resolved = resolved

			output.Debug("initializing CLI", "config", resolved.ConfigPath, "found", resolved.ConfigFound)
			config.LogResolvedValues(resolved.Values)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfg.ConfigPath, "config", "",
		"Path to config file (env: "+config.EnvConfig+")")
	rootCmd.PersistentFlags().StringVar(&dashboardURLFlag, "dashboard-url", "",
		"Dashboard backend URL (env: "+config.EnvDashboardURL+")")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&timestampsFlag, "timestamps", true, "Show timestamps in log output")

	rootCmd.AddCommand(
		NewCreateCmd(cfg),
		NewSetupCmd(cfg),
		NewRunCmd(cfg),
		NewStatusCmd(cfg),
		NewConfigCmd(cfg),
		NewVersionCmd(cfg),
	)

	return rootCmd
}
