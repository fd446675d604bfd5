package cmd

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"

	"github.com/aiimpact/tracker/internal/cmdtypes"
	"github.com/aiimpact/tracker/internal/config"
	oerrors "github.com/aiimpact/tracker/internal/errors"
	"github.com/aiimpact/tracker/internal/templates"
	"github.com/aiimpact/tracker/internal/testutil"
	"github.com/aiimpact/tracker/internal/ui"
)

type harness struct {
	cfg        *cmdtypes.GlobalConfig
	out        *bytes.Buffer
	runner     *testutil.Runner
	mock       *httpmock.MockTransport
	configFile string
}

// newHarness isolates a command run: config, environment and collaborators
// all point at test doubles.
func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		out:        &bytes.Buffer{},
		runner:     &testutil.Runner{},
		mock:       httpmock.NewMockTransport(),
		configFile: filepath.Join(t.TempDir(), "config.json"),
	}
	t.Setenv(config.EnvConfig, h.configFile)
	for _, k := range []string{
		config.EnvDashboardURL, config.EnvAPIKey, config.EnvTimeout,
		config.EnvUsername, config.EnvPassword, templates.EnvTemplatesDir,
	} {
		t.Setenv(k, "")
	}
	h.cfg = &cmdtypes.GlobalConfig{
		Runner:     h.runner,
		Prompter:   ui.Defaults{},
		HTTPClient: &http.Client{Transport: h.mock},
		Stdout:     h.out,
	}
	return h
}

func (h *harness) execute(args ...string) error {
	root := NewRootCmdWith(h.cfg)
	root.SetArgs(args)
	root.SetOut(h.out)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, oerrors.ExitCodeFromError(err), "err: %v", err)
}
