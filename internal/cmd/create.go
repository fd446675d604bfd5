package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aiimpact/tracker/internal/cmdtypes"
	"github.com/aiimpact/tracker/internal/cmdutil"
	oerrors "github.com/aiimpact/tracker/internal/errors"
	"github.com/aiimpact/tracker/internal/output"
	"github.com/aiimpact/tracker/internal/templates"
	"github.com/aiimpact/tracker/internal/validation"
)

// NewCreateCmd creates the create command.
func NewCreateCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		templateFlag string
		scaffold     cmdutil.ScaffoldFlags
	)

	c := &cobra.Command{
		Use:   "create <project-name>",
		Short: "Create a new sustainability dashboard project",
		Long: fmt.Sprintf(`Create a new sustainability dashboard project in ./<project-name>.

Template files are copied from the first templates directory found; the
build configs, README and .env are generated. Dependencies are installed
with pip and npm unless --skip-install is given.

Templates:
%s
Examples:
  # Create a project, answering prompts
  ai-impact-tracker create my-dashboard

  # Create with defaults and no installs
  ai-impact-tracker create my-dashboard --yes --skip-install`, templateHelp()),
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runCreate(c, cfg, args[0], templateFlag, scaffold)
		},
	}

	c.Flags().StringVar(&templateFlag, "template", templates.DefaultTemplateName,
		"Template set: "+strings.Join(templates.Names(), ", "))
	scaffold.AddTo(c)

	return c
}

func templateHelp() string {
	var b strings.Builder
	for _, t := range templates.List() {
		fmt.Fprintf(&b, "  %-8s %s\n", t.Name, t.Description)
	}
	return b.String()
}

func runCreate(c *cobra.Command, cfg *cmdtypes.GlobalConfig, name, templateName string, flags cmdutil.ScaffoldFlags) error {
	if err := validation.IsValidProjectName(name); err != nil {
		return cmdutil.Fail("creating project", oerrors.NewValidationError(err.Error(), name,
			"Use letters, digits, '-' and '_', starting with a letter."))
	}
	set, err := templates.Get(templateName)
	if err != nil {
		return cmdutil.Fail("creating project", oerrors.NewValidationError(err.Error(), "--template", ""))
	}

	dest, err := filepath.Abs(name)
	if err != nil {
		return cmdutil.Fail("creating project", err)
	}
	if _, err := os.Stat(dest); err == nil {
		return cmdutil.Fail("creating project", oerrors.NewAlreadyExistsError(dest))
	} else if !errors.Is(err, fs.ErrNotExist) {
		return cmdutil.Fail("creating project", fmt.Errorf("checking %s: %w", dest, err))
	}

	log := output.ProjectLogger(name)
	prompter := cfg.PrompterFor(flags.Yes)

	project := templates.DefaultProjectConfig(name)
	project.Template = set.Name
	if project, err = promptProject(prompter, project, cmdutil.DatabaseFlags{}, true); err != nil {
		return cmdutil.Fail("creating project", err)
	}
	if project, err = promptFeatures(prompter, project); err != nil {
		return cmdutil.Fail("creating project", err)
	}
	if err := project.Validate(); err != nil {
		return cmdutil.Fail("creating project", err)
	}

	root, err := locateTemplates(flags.TemplatesDir)
	if err != nil {
		return cmdutil.Fail("creating project", err)
	}
	log.Debug("using templates", "root", root)

	manifest, err := templates.DefaultManifest()
	if err != nil {
		return cmdutil.Fail("creating project", err)
	}
	if manifest, err = manifest.ForTemplateSet(set.Name); err != nil {
		return cmdutil.Fail("creating project", err)
	}

	log.Info("creating project", "dir", dest, "template", set.Name)
	report, err := templates.Materialize(dest, root, manifest)
	printReport(cfg.Out(), report)
	if err != nil {
		return cmdutil.Fail("creating project", err)
	}
	if cfg.Verbose {
		fmt.Fprint(cfg.Out(), output.RenderFileTree(report.Tree(), 40))
	}

	written, err := templates.Synthesize(dest, project)
	if err != nil {
		return cmdutil.Fail("generating project files", err)
	}
	log.Debug("generated project files", "count", len(written))

	if flags.SkipInstall {
		log.Info("skipping dependency installation")
	} else {
		installDependencies(c.Context(), cfg, dest)
	}

	printNextSteps(cfg, name, project)
	return nil
}

func printNextSteps(cfg *cmdtypes.GlobalConfig, name string, project templates.ProjectConfig) {
	w := cfg.Out()
	fmt.Fprintln(w, output.FormatCheckmark("Project "+name+" created"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Next steps:")
	fmt.Fprintf(w, "  cd %s\n", name)
	fmt.Fprintln(w, "  npm run db:init-users")
	fmt.Fprintln(w, "  npm run dev")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Dashboard: http://localhost:%d\n", project.Port)
	fmt.Fprintln(w, "Track a workload: ai-impact-tracker run python train.py --project "+name)
}
