package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/aiimpact/tracker/internal/cmdtypes"
	"github.com/aiimpact/tracker/internal/cmdutil"
	"github.com/aiimpact/tracker/internal/installer"
	"github.com/aiimpact/tracker/internal/templates"
	"github.com/aiimpact/tracker/internal/ui"
	"github.com/aiimpact/tracker/internal/validation"
)

// promptProject asks for the settings that shape a generated project,
// starting from base. Flags already set on db are not asked again.
func promptProject(p ui.Prompter, base templates.ProjectConfig, db cmdutil.DatabaseFlags, askDescription bool) (templates.ProjectConfig, error) {
	cfg := base
	var err error

	if askDescription {
		cfg.Description, err = p.Input("Project description", cfg.Description, nil)
		if err != nil {
			return cfg, err
		}
	}

	if db.Database != "" {
		cfg.Database = templates.Database(db.Database)
	} else {
		opts := make([]ui.Option, 0, len(templates.Databases))
		for _, d := range templates.Databases {
			opts = append(opts, ui.Option{Label: string(d), Value: string(d)})
		}
		var choice string
		choice, err = p.Select("Database", opts, string(cfg.Database))
		if err != nil {
			return cfg, err
		}
		cfg.Database = templates.Database(choice)
	}

	if db.Port != 0 {
		cfg.Port = db.Port
	} else {
		var port string
		port, err = p.Input("Dashboard port", strconv.Itoa(cfg.Port), validatePort)
		if err != nil {
			return cfg, err
		}
		if cfg.Port, err = strconv.Atoi(port); err != nil {
			return cfg, fmt.Errorf("invalid port %q", port)
		}
	}

	if db.SecretKey != "" {
		cfg.SecretKey = db.SecretKey
	}

	return cfg, nil
}

func promptFeatures(p ui.Prompter, cfg templates.ProjectConfig) (templates.ProjectConfig, error) {
	opts := make([]ui.Option, 0, len(validation.KnownFeatures))
	titles := templates.FeatureTitles(validation.KnownFeatures)
	for i, f := range validation.KnownFeatures {
		opts = append(opts, ui.Option{Label: titles[i], Value: f})
	}
	features, err := p.MultiSelect("Features", opts, cfg.Features)
	if err != nil {
		return cfg, err
	}
	cfg.Features = features
	return cfg, nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 65535 {
		return errors.New("port must be a number between 1 and 65535")
	}
	return nil
}

// locateTemplates finds the template root. An explicit directory from the
// flag or AI_IMPACT_TEMPLATES_DIR is tried before the default candidates.
func locateTemplates(explicit string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	var candidates []string
	if explicit == "" {
		explicit = os.Getenv(templates.EnvTemplatesDir)
	}
	if explicit != "" {
		candidates = append(candidates, explicit)
	}
	candidates = append(candidates, templates.DefaultCandidates(cwd, templates.ExecutableDir())...)
	return templates.NewLocator(candidates, templates.DefaultFingerprint).Locate()
}

// installDependencies runs the installer and reports failures as warnings.
// Install failures never fail the command.
func installDependencies(ctx context.Context, cfg *cmdtypes.GlobalConfig, destRoot string) {
	if err := installer.New(cfg.ProcessRunner()).Install(ctx, destRoot); err != nil {
		cmdutil.PrintError("installing dependencies", err)
	}
}

func printReport(w io.Writer, report *templates.CreationReport) {
	if report == nil {
		return
	}
	fmt.Fprint(w, report.Render())
}
