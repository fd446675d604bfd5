package cmdutil

import (
	"errors"
	"fmt"

	oerrors "github.com/aiimpact/tracker/internal/errors"
	"github.com/aiimpact/tracker/internal/installer"
	"github.com/aiimpact/tracker/internal/output"
	"github.com/aiimpact/tracker/internal/templates"
)

// PrintError reports err in a user-friendly format.
func PrintError(msg string, err error) {
	var detail *oerrors.DetailError
	var notFound *templates.TemplatesNotFoundError
	var install *installer.InstallError

	switch {
	case errors.As(err, &detail):
		output.Error(fmt.Sprintf("%s: %s", msg, detail.Message))
		if detail.Location != "" {
			output.Info("  location: " + detail.Location)
		}
		if detail.Hint != "" {
			output.Info(detail.Hint)
		}
	case errors.As(err, &notFound):
		output.Error(msg + ": templates directory not found")
		output.Info("Searched:")
		for _, r := range notFound.Tried {
			output.Info(fmt.Sprintf("  %s (%s)", r.Path, r.Reason))
		}
		output.Info(fmt.Sprintf("Pass --templates-dir or set %s.", templates.EnvTemplatesDir))
	case errors.As(err, &install):
		output.Warn(install.Error())
		for _, f := range install.Failures {
			if f.Output != "" {
				output.Warn(f.Step.Name + " output:\n" + f.Output)
			}
		}
		output.Info(install.Hint())
	default:
		output.Error(msg, "err", err)
	}
}

// Fail prints err and wraps it in an *ExitError marked as printed, with the
// exit code derived from its sentinel.
func Fail(msg string, err error) error {
	PrintError(msg, err)
	return &oerrors.ExitError{Code: oerrors.ExitCodeFromError(err), Err: err, Printed: true}
}
