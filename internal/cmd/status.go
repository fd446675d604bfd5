package cmd

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/aiimpact/tracker/internal/cmdtypes"
	"github.com/aiimpact/tracker/internal/cmdutil"
	"github.com/aiimpact/tracker/internal/dashboard"
	"github.com/aiimpact/tracker/internal/output"
)

const defaultStatusLimit = 10

// NewStatusCmd creates the status command.
func NewStatusCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var limit int

	c := &cobra.Command{
		Use:   "status",
		Short: "Show dashboard configuration and recent runs",
		Long: `Show the resolved dashboard configuration and the most recent tracked
runs recorded by the dashboard.

Exits with code 3 when the dashboard cannot be reached.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runStatus(c, cfg, limit)
		},
	}
	c.Flags().IntVar(&limit, "limit", defaultStatusLimit, "Number of recent runs to show")

	return c
}

func runStatus(c *cobra.Command, cfg *cmdtypes.GlobalConfig, limit int) error {
	w := cfg.Out()
	dash := cfg.Dashboard()

	fmt.Fprintf(w, "Dashboard: %s\n", output.StyleNoun.Render(dash.DashboardURL))
	fmt.Fprintf(w, "Timeout:   %s\n", dash.TimeoutDuration())
	fmt.Fprintf(w, "Auth:      %s\n", authMode(dash.APIKey, dash.Username, dash.Password))
	fmt.Fprintln(w)

	client, err := newDashboardClient(cfg)
	if err != nil {
		return cmdutil.Fail("checking status", err)
	}

	token, err := client.Token(c.Context(), dashboard.Credentials{
		APIKey:   dash.APIKey,
		Username: dash.Username,
		Password: dash.Password,
	})
	if errors.Is(err, dashboard.ErrNoCredentials) {
		output.Warn("no dashboard credentials configured; recent runs are not shown",
			"hint", "set DASHBOARD_API_KEY or DASHBOARD_USERNAME and DASHBOARD_PASSWORD")
		return nil
	}
	if err != nil {
		return cmdutil.Fail("checking status", err)
	}

	records, err := client.ListMetrics(c.Context(), token)
	if err != nil {
		return cmdutil.Fail("checking status", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(w, "No runs recorded yet.")
		return nil
	}

	fmt.Fprintln(w, metricsTable(records, limit))
	return nil
}

func authMode(apiKey, username, password string) string {
	switch {
	case apiKey != "":
		return "api key"
	case username != "" && password != "":
		return "login as " + username
	default:
		return "none"
	}
}

// metricsTable renders the newest limit records, newest first.
func metricsTable(records []dashboard.RunMetricRecord, limit int) string {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b dashboard.RunMetricRecord) int {
		return b.Timestamp.Compare(a.Timestamp.Time)
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	tbl := output.NewTable("TIME", "PROJECT", "TEAM", "ENV", "DURATION", "ENERGY (kWh)", "CO2 (g)", "WATER (L)")
	for _, r := range sorted {
		tbl.Row(
			r.Timestamp.Local().Format("2006-01-02 15:04"),
			r.Project,
			r.Team,
			r.Environment,
			fmt.Sprintf("%.1fs", r.Duration),
			fmt.Sprintf("%.6f", r.EnergyConsumed),
			fmt.Sprintf("%.3f", r.Emissions),
			fmt.Sprintf("%.4f", r.WaterUsage),
		)
	}
	return tbl.String()
}
