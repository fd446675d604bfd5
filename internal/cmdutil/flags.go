// Package cmdutil provides shared command utilities: flag groups used by
// more than one command and error reporting helpers.
package cmdutil

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aiimpact/tracker/internal/templates"
)

// ScaffoldFlags holds flags common to commands that write a project
// (create, setup).
type ScaffoldFlags struct {
	Yes          bool
	SkipInstall  bool
	TemplatesDir string
}

// AddTo registers the scaffold flags on the given cobra command.
func (f *ScaffoldFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.Yes, "yes", "y", false,
		"Accept defaults without prompting")
	cmd.Flags().BoolVar(&f.SkipInstall, "skip-install", false,
		"Do not install backend and frontend dependencies")
	cmd.Flags().StringVar(&f.TemplatesDir, "templates-dir", "",
		fmt.Sprintf("Template directory to use instead of searching (env: %s)", templates.EnvTemplatesDir))
}

// DatabaseFlags holds the database and port choices (create, setup).
type DatabaseFlags struct {
	Database  string
	Port      int
	SecretKey string
}

// AddTo registers the database flags on the given cobra command.
func (f *DatabaseFlags) AddTo(cmd *cobra.Command) {
	names := make([]string, 0, len(templates.Databases))
	for _, d := range templates.Databases {
		names = append(names, string(d))
	}
	cmd.Flags().StringVar(&f.Database, "database", "",
		fmt.Sprintf("Database to use (%s)", strings.Join(names, ", ")))
	cmd.Flags().IntVar(&f.Port, "port", 0,
		fmt.Sprintf("Dashboard port (default %d)", templates.DefaultFrontendPort))
	cmd.Flags().StringVar(&f.SecretKey, "secret-key", "",
		"JWT secret for the backend (default: generated)")
}

// TrackFlags holds flags that label a tracked run.
type TrackFlags struct {
	Project     string
	Team        string
	Environment string
	NoTrack     bool
	DryRun      bool
	Yes         bool
}

// AddTo registers the tracking flags on the given cobra command.
func (f *TrackFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Project, "project", "p", "",
		"Project name recorded with the run (default \"default\")")
	cmd.Flags().StringVarP(&f.Team, "team", "t", "",
		"Team name recorded with the run (default \"default\")")
	cmd.Flags().StringVarP(&f.Environment, "environment", "e", "",
		"Environment recorded with the run (default \"development\")")
	cmd.Flags().BoolVar(&f.NoTrack, "no-track", false,
		"Run the command without measuring or reporting")
	cmd.Flags().BoolVar(&f.DryRun, "dry-run", false,
		"Show what would run without running it")
	cmd.Flags().BoolVarP(&f.Yes, "yes", "y", false,
		"Install missing measurement packages without asking")
}
