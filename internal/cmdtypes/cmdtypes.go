// Package cmdtypes provides shared types for the cmd package and its
// constructors. It is separate from internal/cmd so tests and the entry point
// can build a GlobalConfig without importing every command.
package cmdtypes

import (
	"io"
	"net/http"
	"os"

	"github.com/aiimpact/tracker/internal/config"
	oerrors "github.com/aiimpact/tracker/internal/errors"
	"github.com/aiimpact/tracker/internal/output"
	"github.com/aiimpact/tracker/internal/process"
	"github.com/aiimpact/tracker/internal/ui"
)

// GlobalConfig holds CLI-wide configuration resolved during PersistentPreRunE.
// It is populated once at startup and passed explicitly into every sub-command
// constructor.
type GlobalConfig struct {
	Resolved   *config.Resolved
	ConfigPath string // resolved --config path
	Verbose    bool

	// The fields below are collaborators. Nil means the production
	// implementation; tests replace them.
	Runner     process.Runner
	Prompter   ui.Prompter
	HTTPClient *http.Client
	Stdout     io.Writer
}

// Dashboard returns the resolved dashboard configuration, or defaults when
// resolution has not happened.
func (g *GlobalConfig) Dashboard() *config.Config {
	if g == nil || g.Resolved == nil || g.Resolved.Config == nil {
		return config.DefaultConfig()
	}
	return g.Resolved.Config
}

// ProcessRunner returns the configured runner.
func (g *GlobalConfig) ProcessRunner() process.Runner {
	if g.Runner != nil {
		return g.Runner
	}
	return process.NewExecRunner()
}

// PrompterFor returns the configured prompter, or one chosen from assumeYes
// and whether the terminal is interactive.
func (g *GlobalConfig) PrompterFor(assumeYes bool) ui.Prompter {
	if g.Prompter != nil {
		if assumeYes {
			return ui.Defaults{}
		}
		return g.Prompter
	}
	return ui.For(assumeYes, output.IsInteractive())
}

// Out is where command results are printed.
func (g *GlobalConfig) Out() io.Writer {
	if g.Stdout != nil {
		return g.Stdout
	}
	return os.Stdout
}

// Exit codes, re-exported for command code.
const (
	ExitSuccess           = oerrors.ExitSuccess
	ExitGeneralError      = oerrors.ExitGeneralError
	ExitValidationError   = oerrors.ExitValidationError
	ExitConnectivityError = oerrors.ExitConnectivityError
	ExitNotFound          = oerrors.ExitNotFound
)

// ExitError is a type alias to internal/errors.ExitError.
type ExitError = oerrors.ExitError
