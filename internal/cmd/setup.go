package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aiimpact/tracker/internal/cmdtypes"
	"github.com/aiimpact/tracker/internal/cmdutil"
	"github.com/aiimpact/tracker/internal/output"
	"github.com/aiimpact/tracker/internal/templates"
	"github.com/aiimpact/tracker/internal/validation"
)

// fallbackSetupName names the project when the directory name is not a
// valid project name.
const fallbackSetupName = "ai-impact-dashboard"

// NewSetupCmd creates the setup command.
func NewSetupCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		scaffold cmdutil.ScaffoldFlags
		db       cmdutil.DatabaseFlags
		force    bool
	)

	c := &cobra.Command{
		Use:   "setup",
		Short: "Set up the dashboard in the current directory",
		Long: `Set up the sustainability dashboard in the current directory.

Creates the backend and data directories, copies the template files and
writes .env and package.json. Running setup again is safe: directories are
reused and existing generated files are kept unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runSetup(c, cfg, scaffold, db, force)
		},
	}

	scaffold.AddTo(c)
	db.AddTo(c)
	c.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing .env, package.json and README")

	return c
}

func runSetup(c *cobra.Command, cfg *cmdtypes.GlobalConfig, flags cmdutil.ScaffoldFlags, db cmdutil.DatabaseFlags, force bool) error {
	cwd, err := os.Getwd()
	if err != nil {
		return cmdutil.Fail("setting up dashboard", err)
	}
	name := filepath.Base(cwd)
	if validation.IsValidProjectName(name) != nil {
		name = fallbackSetupName
	}
	log := output.ProjectLogger(name)
	prompter := cfg.PrompterFor(flags.Yes)

	project, err := promptProject(prompter, templates.DefaultProjectConfig(name), db, false)
	if err != nil {
		return cmdutil.Fail("setting up dashboard", err)
	}
	if db.SecretKey == "" {
		project.SecretKey, err = prompter.Input("JWT secret key", project.SecretKey, validation.IsValidSecretKey)
		if err != nil {
			return cmdutil.Fail("setting up dashboard", err)
		}
	}
	if err := project.Validate(); err != nil {
		return cmdutil.Fail("setting up dashboard", err)
	}

	root, err := locateTemplates(flags.TemplatesDir)
	if err != nil {
		return cmdutil.Fail("setting up dashboard", err)
	}
	manifest, err := templates.DefaultManifest()
	if err != nil {
		return cmdutil.Fail("setting up dashboard", err)
	}
	if manifest, err = manifest.ForTemplateSet(templates.DefaultTemplateName); err != nil {
		return cmdutil.Fail("setting up dashboard", err)
	}

	log.Info("setting up dashboard", "dir", cwd, "database", project.Database)
	mt := &templates.Materializer{Skeleton: templates.SetupSkeleton}
	report, err := mt.Materialize(cwd, root, manifest)
	printReport(cfg.Out(), report)
	if err != nil {
		return cmdutil.Fail("setting up dashboard", err)
	}

	synth := &templates.Synthesizer{Overwrite: force}
	written, err := synth.Synthesize(cwd, project)
	if err != nil {
		return cmdutil.Fail("generating dashboard files", err)
	}
	log.Debug("generated project files", "count", len(written))

	if flags.SkipInstall {
		log.Info("skipping dependency installation")
	} else {
		installDependencies(c.Context(), cfg, cwd)
	}

	w := cfg.Out()
	fmt.Fprintln(w, output.FormatCheckmark("Dashboard set up"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Next steps:")
	fmt.Fprintln(w, "  npm run db:init-users")
	fmt.Fprintln(w, "  npm run dev")
	fmt.Fprintf(w, "\nDashboard: http://localhost:%d\n", project.Port)
	return nil
}
