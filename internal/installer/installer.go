// Package installer installs a generated project's backend and frontend
// dependencies.
package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	oerrors "github.com/aiimpact/tracker/internal/errors"
	"github.com/aiimpact/tracker/internal/output"
	"github.com/aiimpact/tracker/internal/process"
)

// Step is one package-manager invocation.
type Step struct {
	// Name labels the step in logs and the spinner.
	Name string

	// Dir is relative to the project root.
	Dir string

	// Manifest must exist in Dir for the step to run.
	Manifest string

	Command string
	Args    []string
}

func (s Step) commandLine() string {
	return strings.TrimSpace(s.Command + " " + strings.Join(s.Args, " "))
}

// DefaultSteps installs Python packages, then Node packages.
func DefaultSteps() []Step {
	return []Step{
		{
			Name:     "backend",
			Dir:      ".",
			Manifest: "requirements.txt",
			Command:  "pip",
			Args:     []string{"install", "-r", "requirements.txt"},
		},
		{
			Name:     "frontend",
			Dir:      "frontend",
			Manifest: "package.json",
			Command:  "npm",
			Args:     []string{"install"},
		},
	}
}

// StepFailure records a failed step with the tail of its output.
type StepFailure struct {
	Step     Step
	ExitCode int
	Output   string
	Err      error
}

// InstallError aggregates every failed step.
type InstallError struct {
	DestRoot string
	Failures []StepFailure
}

func (e *InstallError) Error() string {
	names := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		names = append(names, f.Step.Name)
	}
	return fmt.Sprintf("installing dependencies failed (%s)", strings.Join(names, ", "))
}

func (e *InstallError) Unwrap() error {
	return oerrors.ErrInstall
}

// Hint lists the commands to run by hand.
func (e *InstallError) Hint() string {
	var b strings.Builder
	b.WriteString("Run these manually:")
	for _, f := range e.Failures {
		dir := filepath.Join(e.DestRoot, f.Step.Dir)
		fmt.Fprintf(&b, "\n  cd %s && %s", dir, f.Step.commandLine())
	}
	return b.String()
}

// Installer runs the steps strictly in order.
type Installer struct {
	Runner process.Runner
	Steps  []Step
}

// New returns an installer with the default steps.
func New(r process.Runner) *Installer {
	return &Installer{Runner: r, Steps: DefaultSteps()}
}

// Install runs each step whose manifest is present. Failures do not stop
// later steps; they are returned together as an *InstallError.
func (i *Installer) Install(ctx context.Context, destRoot string) error {
	var failures []StepFailure
	for _, step := range i.Steps {
		dir := filepath.Join(destRoot, step.Dir)
		if _, err := os.Stat(filepath.Join(dir, step.Manifest)); err != nil {
			output.Debug("skipping install step", "step", step.Name, "missing", filepath.Join(step.Dir, step.Manifest))
			continue
		}

		var code int
		var out string
		err := output.RunWithSpinner(ctx, func() error {
			var runErr error
			code, out, runErr = process.RunCapture(ctx, i.Runner, process.Command{
				Name: step.Command,
				Args: step.Args,
				Dir:  dir,
			})
			return runErr
		}, output.WithTitle(fmt.Sprintf("Installing %s dependencies...", step.Name)))

		if err != nil || code != 0 {
			output.Warn("install step failed", "step", step.Name, "exit", code, "err", err)
			failures = append(failures, StepFailure{Step: step, ExitCode: code, Output: tail(out, 20), Err: err})
			continue
		}
		output.Info(output.FormatCheckmark(step.Name + " dependencies installed"))
	}

	if len(failures) > 0 {
		return &InstallError{DestRoot: destRoot, Failures: failures}
	}
	return nil
}

func tail(s string, lines int) string {
	parts := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(parts) > lines {
		parts = parts[len(parts)-lines:]
	}
	return strings.Join(parts, "\n")
}
