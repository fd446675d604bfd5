package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aiimpact/tracker/internal/cmdtypes"
	"github.com/aiimpact/tracker/internal/cmdutil"
	"github.com/aiimpact/tracker/internal/config"
	oerrors "github.com/aiimpact/tracker/internal/errors"
	"github.com/aiimpact/tracker/internal/output"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  `Manage the dashboard configuration in ~/.ai-dashboard/config.json.`,
	}

	c.AddCommand(newConfigInitCmd(cfg), newConfigShowCmd(cfg))

	return c
}

func newConfigInitCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var force bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Create a config file with default values",
		Long: `Create the config file with default values.

The file is created at ~/.ai-dashboard/config.json unless --config or
DASHBOARD_CONFIG names another location.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			path := cfg.ConfigPath
			if path == "" {
				var err error
				if path, err = config.GetConfigFile(); err != nil {
					return cmdutil.Fail("initializing config", err)
				}
			}
			expanded, err := config.ExpandPath(path)
			if err != nil {
				return cmdutil.Fail("initializing config", err)
			}

			exists, err := config.FileExists(expanded)
			if err != nil {
				return cmdutil.Fail("initializing config", err)
			}
			if exists && !force {
				return cmdutil.Fail("initializing config", &oerrors.DetailError{
					Type:     "validation failed",
					Message:  "configuration already exists",
					Location: expanded,
					Hint:     "Use --force to overwrite existing configuration.",
					Cause:    oerrors.ErrValidation,
				})
			}

			if err := config.Save(expanded, config.DefaultConfig()); err != nil {
				return cmdutil.Fail("initializing config", err)
			}
			fmt.Fprintln(cfg.Out(), output.FormatCheckmark("Configuration written to "+expanded))
			return nil
		},
	}
	c.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing configuration")

	return c
}

func newConfigShowCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration and where each value came from",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			w := cfg.Out()
			if cfg.Resolved == nil {
				return cmdutil.Fail("showing config", fmt.Errorf("configuration was not resolved"))
			}
			state := "not found, using defaults"
			if cfg.Resolved.ConfigFound {
				state = "loaded"
			}
			fmt.Fprintf(w, "Config file: %s (%s)\n", cfg.Resolved.ConfigPath, state)

			tbl := output.NewTable("KEY", "VALUE", "SOURCE")
			for _, v := range cfg.Resolved.Values {
				tbl.Row(v.Key, v.Value, string(v.Source))
			}
			fmt.Fprintln(w, tbl.String())
			return nil
		},
	}
}
