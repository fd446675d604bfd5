package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aiimpact/tracker/internal/cmdtypes"
	"github.com/aiimpact/tracker/internal/cmdutil"
	"github.com/aiimpact/tracker/internal/dashboard"
	"github.com/aiimpact/tracker/internal/tracker"
)

// NewRunCmd creates the run command.
func NewRunCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var flags cmdutil.TrackFlags

	c := &cobra.Command{
		Use:   "run [flags] <command> [args...]",
		Short: "Run a command and report its environmental impact",
		Long: `Run a command under energy measurement and report the result to the
dashboard.

Flags must come before the command; everything from the command on is passed
to it unchanged. The exit code is always the command's own, whether or not
the report reached the dashboard.

Examples:
  # Track a training script
  ai-impact-tracker run --project vision --team ml python train.py --epochs 10

  # Show what would run
  ai-impact-tracker run --dry-run python train.py`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runTrack(c, cfg, args, flags)
		},
	}
	c.Flags().SetInterspersed(false)
	flags.AddTo(c)

	return c
}

func newDashboardClient(cfg *cmdtypes.GlobalConfig) (*dashboard.Client, error) {
	dash := cfg.Dashboard()
	return dashboard.New(dash.DashboardURL,
		dashboard.WithTimeout(dash.TimeoutDuration()),
		dashboard.WithHTTPClient(cfg.HTTPClient),
	)
}

func runTrack(c *cobra.Command, cfg *cmdtypes.GlobalConfig, command []string, flags cmdutil.TrackFlags) error {
	client, err := newDashboardClient(cfg)
	if err != nil {
		return cmdutil.Fail("running command", err)
	}
	dash := cfg.Dashboard()

	t := tracker.New(cfg.ProcessRunner(), cfg.PrompterFor(flags.Yes), &tracker.DashboardReporter{
		Client: client,
		Credentials: dashboard.Credentials{
			APIKey:   dash.APIKey,
			Username: dash.Username,
			Password: dash.Password,
		},
	})
	t.Out = cfg.Out()

	code, err := t.Track(c.Context(), command, tracker.Options{
		Project:      flags.Project,
		Team:         flags.Team,
		Environment:  flags.Environment,
		DashboardURL: client.BaseURL(),
		NoTrack:      flags.NoTrack,
		DryRun:       flags.DryRun,
		AssumeYes:    flags.Yes,
	})
	if err != nil {
		cmdutil.PrintError("running command", err)
		return &cmdtypes.ExitError{Code: code, Err: err, Printed: true}
	}
	if code != 0 {
		return &cmdtypes.ExitError{Code: code, Err: fmt.Errorf("command exited with status %d", code), Printed: true}
	}
	return nil
}
