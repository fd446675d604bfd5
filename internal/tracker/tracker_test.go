package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiimpact/tracker/internal/dashboard"
	oerrors "github.com/aiimpact/tracker/internal/errors"
	"github.com/aiimpact/tracker/internal/process"
	"github.com/aiimpact/tracker/internal/ui"
)

type fakeRunner struct {
	importCode   int
	importErr    error
	installCode int

	scriptExit   int
	scriptErr    error
	skipResult   bool
	energyKWh    *float64
	scriptPath   string
	scriptBody   string
	scriptExists bool
	scriptEnv    []string

	directCode int
	directErr  error

	calls []process.Command
}

func (f *fakeRunner) Run(_ context.Context, c process.Command) (int, error) {
	f.calls = append(f.calls, c)
	if c.Name != DefaultPython {
		return f.directCode, f.directErr
	}
	switch c.Args[0] {
	case "-c":
		return f.importCode, f.importErr
	case "-m":
		return f.installCode, nil
	}

	if f.scriptErr != nil {
		return -1, f.scriptErr
	}
	f.scriptPath = c.Args[0]
	f.scriptEnv = c.Env
	body, err := os.ReadFile(f.scriptPath)
	f.scriptExists = err == nil
	f.scriptBody = string(body)

	if !f.skipResult {
		res := map[string]any{
			"exit_code":  f.scriptExit,
			"duration":   1800.0,
			"energy_kwh": f.energyKWh,
		}
		b, _ := json.Marshal(res)
		_ = os.WriteFile(envValue(c.Env, EnvResult), b, 0o600)
	}
	return f.scriptExit, nil
}

func envValue(env []string, key string) string {
	for _, kv := range env {
		if v, ok := strings.CutPrefix(kv, key+"="); ok {
			return v
		}
	}
	return ""
}

type fakeReporter struct {
	recs []dashboard.RunMetricRecord
	err  error
}

func (f *fakeReporter) Report(_ context.Context, rec dashboard.RunMetricRecord) error {
	f.recs = append(f.recs, rec)
	return f.err
}

type fakePrompter struct {
	ui.Defaults
	answer bool
	asked  int
}

func (f *fakePrompter) Confirm(string, bool) (bool, error) {
	f.asked++
	return f.answer, nil
}

func newTestTracker(t *testing.T, r process.Runner, p ui.Prompter, rep Reporter) (*Tracker, string) {
	t.Helper()
	tmp := t.TempDir()
	tr := New(r, p, rep)
	tr.TempDir = tmp
	tr.OutputDir = t.TempDir()
	tr.Out = &bytes.Buffer{}
	tr.newID = func() string { return "run-1" }

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr.now = func() time.Time {
		clock = clock.Add(30 * time.Minute)
		return clock
	}
	return tr, tmp
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp files must be removed")
}

func ptr(f float64) *float64 { return &f }

func TestTrack_MeasuredSuccess(t *testing.T) {
	r := &fakeRunner{energyKWh: ptr(0.25)}
	rep := &fakeReporter{}
	tr, tmp := newTestTracker(t, r, ui.Defaults{}, rep)

	code, err := tr.Track(context.Background(), []string{"python", "train.py", "--epochs", "3"},
		Options{Project: "vision", Team: "ml", Environment: "staging"})
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	assert.True(t, r.scriptExists, "script must exist while the command runs")
	assert.Contains(t, r.scriptBody, "codecarbon")
	assertEmptyDir(t, tmp)

	last := r.calls[len(r.calls)-1]
	assert.Equal(t, []string{"--", "python", "train.py", "--epochs", "3"}, last.Args[1:])
	assert.Equal(t, "vision", envValue(r.scriptEnv, EnvProject))
	assert.Equal(t, "ml", envValue(r.scriptEnv, EnvTeam))
	assert.Equal(t, "staging", envValue(r.scriptEnv, EnvEnvironment))
	assert.Equal(t, "run-1", envValue(r.scriptEnv, EnvRunID))

	require.Len(t, rep.recs, 1)
	rec := rep.recs[0]
	assert.Equal(t, "vision", rec.Project)
	assert.InDelta(t, 0.25, rec.EnergyConsumed, 1e-9)
	assert.InDelta(t, 125, rec.Emissions, 1e-9)
	assert.InDelta(t, 0.5, rec.WaterUsage, 1e-9)
	assert.InDelta(t, 1800, rec.Duration, 1e-9)

	states := tr.States()
	assert.Contains(t, states, StateScriptGeneration)
	require.GreaterOrEqual(t, len(states), 4)
	assert.Equal(t, []State{StateCollect, StateReport, StateCleanup, StateDone}, states[len(states)-4:])
}

func TestTrack_PropagatesExitCode(t *testing.T) {
	r := &fakeRunner{scriptExit: 42}
	rep := &fakeReporter{}
	tr, tmp := newTestTracker(t, r, ui.Defaults{}, rep)

	code, err := tr.Track(context.Background(), []string{"false"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 42, code)
	assertEmptyDir(t, tmp)
	require.Len(t, rep.recs, 1, "failed runs are still reported")
	assert.Equal(t, "default", rep.recs[0].Project)
	assert.Equal(t, "development", rep.recs[0].Environment)
}

func TestTrack_DashboardUnreachableKeepsExitCode(t *testing.T) {
	for _, want := range []int{0, 3} {
		r := &fakeRunner{scriptExit: want}
		rep := &fakeReporter{err: oerrors.ErrDashboardUnreachable}
		tr, tmp := newTestTracker(t, r, ui.Defaults{}, rep)

		code, err := tr.Track(context.Background(), []string{"train"}, Options{})
		require.NoError(t, err)
		assert.Equal(t, want, code)
		assertEmptyDir(t, tmp)
	}
}

func TestTrack_MissingResultUsesWallClock(t *testing.T) {
	r := &fakeRunner{scriptExit: 2, skipResult: true}
	rep := &fakeReporter{}
	tr, tmp := newTestTracker(t, r, ui.Defaults{}, rep)

	code, err := tr.Track(context.Background(), []string{"train"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, code)
	assertEmptyDir(t, tmp)
	require.Len(t, rep.recs, 1)
	assert.InDelta(t, 1800, rep.recs[0].Duration, 1e-9)
	assert.InDelta(t, 0.05, rep.recs[0].EnergyConsumed, 1e-9)
}

func TestTrack_InterpreterFailsToStart(t *testing.T) {
	r := &fakeRunner{scriptErr: errors.New("exec format error")}
	rep := &fakeReporter{}
	tr, tmp := newTestTracker(t, r, ui.Defaults{}, rep)

	code, err := tr.Track(context.Background(), []string{"train"}, Options{})
	require.Error(t, err)
	assert.Equal(t, 1, code)
	assertEmptyDir(t, tmp)
	assert.Empty(t, rep.recs)
	assert.Equal(t, StateFailed, tr.States()[len(tr.States())-1])
}

func TestTrack_DeclinedInstallDegrades(t *testing.T) {
	r := &fakeRunner{importCode: 1, directCode: 7}
	p := &fakePrompter{answer: false}
	rep := &fakeReporter{}
	tr, tmp := newTestTracker(t, r, p, rep)

	code, err := tr.Track(context.Background(), []string{"./train.sh", "fast"}, Options{Project: "p"})
	require.NoError(t, err)
	assert.Equal(t, 7, code)
	assert.Equal(t, 1, p.asked)
	assertEmptyDir(t, tmp)

	last := r.calls[len(r.calls)-1]
	assert.Equal(t, "./train.sh", last.Name)
	assert.Equal(t, []string{"fast"}, last.Args)
	assert.Equal(t, "p", envValue(last.Env, EnvProject))

	require.Len(t, rep.recs, 1)
	// 30 minutes at the fallback draw.
	assert.InDelta(t, 0.05, rep.recs[0].EnergyConsumed, 1e-9)
	assert.InDelta(t, 25, rep.recs[0].Emissions, 1e-9)
	assert.InDelta(t, 0.1, rep.recs[0].WaterUsage, 1e-9)
	assert.Contains(t, tr.States(), StateInstallPrompt)
	assert.NotContains(t, tr.States(), StateScriptGeneration)
}

func TestTrack_AcceptedInstall(t *testing.T) {
	r := &fakeRunner{importCode: 1, energyKWh: ptr(1)}
	p := &fakePrompter{answer: true}
	tr, _ := newTestTracker(t, r, p, &fakeReporter{})

	_, err := tr.Track(context.Background(), []string{"train"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"-m", "pip", "install", "codecarbon"}, r.calls[1].Args)
	assert.True(t, r.scriptExists)
}

func TestTrack_NonInteractiveNeverInstalls(t *testing.T) {
	r := &fakeRunner{importCode: 1, directCode: 0}
	tr, _ := newTestTracker(t, r, ui.Defaults{}, &fakeReporter{})

	_, err := tr.Track(context.Background(), []string{"train"}, Options{})
	require.NoError(t, err)
	for _, c := range r.calls {
		assert.False(t, len(c.Args) > 0 && c.Args[0] == "-m", "pip must not run without consent")
	}
	assert.Equal(t, "train", r.calls[len(r.calls)-1].Name)
	assert.Contains(t, tr.States(), StateInstallPrompt)
}

func TestTrack_AssumeYesInstallsWithoutAsking(t *testing.T) {
	r := &fakeRunner{importCode: 1, energyKWh: ptr(1)}
	p := &fakePrompter{answer: false}
	tr, _ := newTestTracker(t, r, p, &fakeReporter{})

	_, err := tr.Track(context.Background(), []string{"train"}, Options{AssumeYes: true})
	require.NoError(t, err)
	assert.Zero(t, p.asked)
	assert.Equal(t, []string{"-m", "pip", "install", "codecarbon"}, r.calls[1].Args)
	assert.True(t, r.scriptExists)
}

func TestTrack_FailedInstallDegrades(t *testing.T) {
	r := &fakeRunner{importCode: 1, installCode: 1, directCode: 0}
	tr, _ := newTestTracker(t, r, &fakePrompter{answer: true}, &fakeReporter{})

	code, err := tr.Track(context.Background(), []string{"train"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "train", r.calls[len(r.calls)-1].Name)
}

func TestTrack_NoPython(t *testing.T) {
	r := &fakeRunner{importErr: errors.New("executable file not found"), directCode: 0}
	p := &fakePrompter{}
	tr, _ := newTestTracker(t, r, p, &fakeReporter{})

	_, err := tr.Track(context.Background(), []string{"train"}, Options{})
	require.NoError(t, err)
	assert.Zero(t, p.asked)
	assert.Equal(t, "train", r.calls[len(r.calls)-1].Name)
}

func TestTrack_CommandNotFound(t *testing.T) {
	r := &fakeRunner{directErr: errors.New("executable file not found")}
	tr, _ := newTestTracker(t, r, ui.Defaults{}, nil)

	code, err := tr.Track(context.Background(), []string{"nope"}, Options{NoTrack: true})
	require.Error(t, err)
	assert.Equal(t, 127, code)
}

func TestTrack_NoTrack(t *testing.T) {
	r := &fakeRunner{directCode: 5}
	rep := &fakeReporter{}
	tr, _ := newTestTracker(t, r, ui.Defaults{}, rep)

	code, err := tr.Track(context.Background(), []string{"train"}, Options{NoTrack: true})
	require.NoError(t, err)
	assert.Equal(t, 5, code)
	require.Len(t, r.calls, 1)
	assert.Empty(t, rep.recs)
}

func TestTrack_DryRun(t *testing.T) {
	r := &fakeRunner{}
	tr, _ := newTestTracker(t, r, ui.Defaults{}, &fakeReporter{})
	out := &bytes.Buffer{}
	tr.Out = out

	code, err := tr.Track(context.Background(), []string{"python", "train.py"},
		Options{Project: "vision", DashboardURL: "http://localhost:8000", DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Empty(t, r.calls)
	assert.Contains(t, out.String(), "python train.py")
	assert.Contains(t, out.String(), "vision")
	assert.Contains(t, out.String(), "http://localhost:8000")
}

func TestTrack_EmptyCommand(t *testing.T) {
	tr, _ := newTestTracker(t, &fakeRunner{}, ui.Defaults{}, nil)

	code, err := tr.Track(context.Background(), nil, Options{})
	assert.ErrorIs(t, err, oerrors.ErrValidation)
	assert.Equal(t, oerrors.ExitValidationError, code)
}
