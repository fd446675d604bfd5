// Package tracker wraps a workload command, measures its footprint and
// reports it to a dashboard.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/aiimpact/tracker/internal/dashboard"
	oerrors "github.com/aiimpact/tracker/internal/errors"
	"github.com/aiimpact/tracker/internal/output"
	"github.com/aiimpact/tracker/internal/process"
	"github.com/aiimpact/tracker/internal/ui"
)

// State is a step of a tracked run.
type State string

const (
	StateIdle             State = "idle"
	StateDependencyCheck  State = "dependency-check"
	StateInstallPrompt    State = "install-prompt"
	StateScriptGeneration State = "script-generation"
	StateSpawn            State = "spawn"
	StateStreaming        State = "streaming"
	StateCollect          State = "collect"
	StateReport           State = "report"
	StateCleanup          State = "cleanup"
	StateDone             State = "done"
	StateFailed           State = "failed"
)

// DefaultPython is the interpreter used for the measurement session.
const DefaultPython = "python3"

// measurementPackage is the Python package that provides measurement.
const measurementPackage = "codecarbon"

// exitCommandNotFound follows the shell convention.
const exitCommandNotFound = 127

// Options describe one tracked run.
type Options struct {
	Project      string
	Team         string
	Environment  string
	DashboardURL string

	// NoTrack runs the command without measuring or reporting.
	NoTrack bool

	// DryRun prints the plan and runs nothing.
	DryRun bool

	// AssumeYes installs a missing measurement package without asking.
	// Otherwise the prompt defaults to no, so non-interactive runs never
	// install into the user's environment.
	AssumeYes bool
}

func (o Options) withDefaults() Options {
	if o.Project == "" {
		o.Project = "default"
	}
	if o.Team == "" {
		o.Team = "default"
	}
	if o.Environment == "" {
		o.Environment = "development"
	}
	return o
}

// Tracker runs commands under measurement.
type Tracker struct {
	Runner   process.Runner
	Prompter ui.Prompter

	// Reporter receives the record of every tracked run. Nil skips reporting.
	Reporter Reporter

	// Python is the interpreter; DefaultPython when empty.
	Python string

	// TempDir holds the generated script and result file; os.TempDir when
	// empty.
	TempDir string

	// OutputDir is where the measurement session keeps its emissions CSV.
	OutputDir string

	// Out receives the dry-run plan.
	Out io.Writer

	now    func() time.Time
	newID  func() string
	logger  *log.Logger
	states  []State
	scratch []string
}

// New returns a tracker with production defaults.
func New(r process.Runner, p ui.Prompter, rep Reporter) *Tracker {
	return &Tracker{
		Runner:    r,
		Prompter:  p,
		Reporter:  rep,
		Python:    DefaultPython,
		OutputDir: "data",
		Out:       os.Stdout,
	}
}

// States returns the states visited by the last Track call.
func (t *Tracker) States() []State {
	return append([]State(nil), t.states...)
}

func (t *Tracker) enter(s State) {
	t.states = append(t.states, s)
	t.logger.Debug("state", "state", s)
}

// Track runs command and returns its exit code. The code is always the
// wrapped command's own; reporting failures are logged and never change it.
// err is set only when the command could not be run at all.
func (t *Tracker) Track(ctx context.Context, command []string, opts Options) (int, error) {
	opts = opts.withDefaults()
	t.states = nil
	t.scratch = nil
	t.logger = output.RunLogger(opts.Project)
	if t.now == nil {
		t.now = time.Now
	}
	if t.newID == nil {
		t.newID = uuid.NewString
	}
	if t.Python == "" {
		t.Python = DefaultPython
	}
	t.enter(StateIdle)

	if len(command) == 0 {
		t.enter(StateFailed)
		return oerrors.ExitValidationError, oerrors.NewValidationError("no command given", "", "usage: ai-impact-tracker run [flags] <command> [args...]")
	}

	runID := t.newID()
	env := []string{
		EnvProject + "=" + opts.Project,
		EnvTeam + "=" + opts.Team,
		EnvEnvironment + "=" + opts.Environment,
		EnvRunID + "=" + runID,
	}

	if opts.DryRun {
		t.printPlan(command, opts)
		t.enter(StateDone)
		return oerrors.ExitSuccess, nil
	}

	if opts.NoTrack {
		t.logger.Info("running without tracking")
		code, _, err := t.runDirect(ctx, command, env)
		if err != nil {
			t.enter(StateFailed)
			return code, err
		}
		t.enter(StateDone)
		return code, nil
	}

	var (
		code int
		dur  time.Duration
		m    Measurement
		err  error
	)
	defer t.cleanup()
	if t.ensureMeasurement(ctx, opts.AssumeYes) {
		code, dur, m, err = t.runMeasured(ctx, command, env, runID)
	} else {
		code, dur, err = t.runDirect(ctx, command, env)
	}
	if err != nil {
		t.cleanup()
		t.enter(StateFailed)
		return code, err
	}

	t.enter(StateCollect)
	imp := EstimateImpact(dur, m)
	rec := dashboard.RunMetricRecord{
		Project:        opts.Project,
		Team:           opts.Team,
		Environment:    opts.Environment,
		EnergyConsumed: imp.EnergyKWh,
		Emissions:      imp.EmissionsG,
		WaterUsage:     imp.WaterL,
		Duration:       dur.Seconds(),
		Timestamp:      dashboard.NewTimestamp(t.now().UTC()),
	}
	t.logger.Info("run finished",
		"exit", code,
		"duration", dur.Round(time.Millisecond),
		"energy_kwh", fmt.Sprintf("%.6f", imp.EnergyKWh),
		"co2_g", fmt.Sprintf("%.3f", imp.EmissionsG),
		"water_l", fmt.Sprintf("%.4f", imp.WaterL),
		"measured", imp.Measured,
	)

	t.report(ctx, rec)
	t.cleanup()
	t.enter(StateDone)
	return code, nil
}

// ensureMeasurement checks for the measurement package and offers to
// install it. It returns false when the run should fall back to timing only.
func (t *Tracker) ensureMeasurement(ctx context.Context, assumeYes bool) bool {
	t.enter(StateDependencyCheck)
	check := process.Command{Name: t.Python, Args: []string{"-c", "import " + measurementPackage}}
	code, _, err := process.RunCapture(ctx, t.Runner, check)
	if err != nil {
		t.logger.Warn("python not available; tracking duration only", "err", fmt.Errorf("%w: %v", oerrors.ErrTrackingDependencyMissing, err))
		return false
	}
	if code == 0 {
		return true
	}

	t.enter(StateInstallPrompt)
	ok := assumeYes
	if !ok {
		ok, err = t.Prompter.Confirm(fmt.Sprintf("%s is not installed. Install it with pip now?", measurementPackage), false)
	}
	if err != nil || !ok {
		t.logger.Warn("continuing without measurement; tracking duration only", "err", oerrors.ErrTrackingDependencyMissing)
		return false
	}

	install := process.Command{Name: t.Python, Args: []string{"-m", "pip", "install", measurementPackage}}
	code, out, err := process.RunCapture(ctx, t.Runner, install)
	if err != nil || code != 0 {
		t.logger.Warn("installing measurement package failed; tracking duration only",
			"exit", code, "err", err, "output", lastLine(out))
		return false
	}
	t.logger.Info(output.FormatCheckmark(measurementPackage + " installed"))
	return true
}

// runMeasured runs command inside the generated measurement script. The
// script and result file are queued for cleanup, which runs after the
// record has been reported.
func (t *Tracker) runMeasured(ctx context.Context, command, env []string, runID string) (int, time.Duration, Measurement, error) {
	t.enter(StateScriptGeneration)

	script, err := os.CreateTemp(t.TempDir, "ai-impact-measure-*.py")
	if err != nil {
		return oerrors.ExitGeneralError, 0, Measurement{}, fmt.Errorf("creating measurement script: %w", err)
	}
	resultPath := script.Name() + ".json"
	t.scratch = append(t.scratch, script.Name(), resultPath)

	outputDir, err := filepath.Abs(t.OutputDir)
	if err != nil {
		outputDir = t.OutputDir
	}
	body, err := RenderScript(runID, outputDir)
	if err == nil {
		_, err = script.Write(body)
	}
	if cerr := script.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return oerrors.ExitGeneralError, 0, Measurement{}, fmt.Errorf("writing measurement script: %w", err)
	}

	t.enter(StateSpawn)
	args := append([]string{script.Name(), "--"}, command...)
	cmd := process.Command{
		Name: t.Python,
		Args: args,
		Env:  append(append([]string(nil), env...), EnvResult+"="+resultPath),
	}
	start := t.now()
	code, err := t.spawn(ctx, cmd)
	elapsed := t.now().Sub(start)
	if err != nil {
		return oerrors.ExitGeneralError, elapsed, Measurement{}, fmt.Errorf("starting %s: %w", t.Python, err)
	}

	res, err := readResult(resultPath)
	if err != nil {
		t.logger.Warn("measurement result unavailable; using wall-clock duration", "err", err)
		return code, elapsed, Measurement{}, nil
	}
	if res.Error != nil {
		t.logger.Warn(*res.Error)
	}
	dur := time.Duration(res.Duration * float64(time.Second))
	return res.ExitCode, dur, Measurement{EnergyKWh: res.EnergyKWh, EmissionsKg: res.EmissionsKg}, nil
}

// cleanup removes the measurement temp files. It is safe to call more than
// once; only the first call with files pending records StateCleanup.
func (t *Tracker) cleanup() {
	if len(t.scratch) == 0 {
		return
	}
	t.enter(StateCleanup)
	for _, p := range t.scratch {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			t.logger.Warn("removing temp file", "path", p, "err", err)
		}
	}
	t.scratch = nil
}

// runDirect runs command without a measurement session and times it.
func (t *Tracker) runDirect(ctx context.Context, command, env []string) (int, time.Duration, error) {
	t.enter(StateSpawn)
	start := t.now()
	code, err := t.spawn(ctx, process.Command{Name: command[0], Args: command[1:], Env: env})
	elapsed := t.now().Sub(start)
	if err != nil {
		return exitCommandNotFound, elapsed, err
	}
	return code, elapsed, nil
}

func (t *Tracker) spawn(ctx context.Context, cmd process.Command) (int, error) {
	release := holdInterrupts(t.logger)
	defer release()
	t.enter(StateStreaming)
	return t.Runner.Run(ctx, cmd)
}

func (t *Tracker) report(ctx context.Context, rec dashboard.RunMetricRecord) {
	if t.Reporter == nil {
		return
	}
	t.enter(StateReport)
	err := t.Reporter.Report(ctx, rec)
	switch {
	case err == nil:
		t.logger.Info(output.FormatCheckmark("metrics sent to dashboard"))
	case errors.Is(err, dashboard.ErrNoCredentials):
		t.logger.Warn("not reporting: set DASHBOARD_USERNAME and DASHBOARD_PASSWORD or an api_key")
	default:
		t.logger.Warn("could not send metrics to dashboard", "err", err)
	}
}

func (t *Tracker) printPlan(command []string, opts Options) {
	mode := "tracked"
	if opts.NoTrack {
		mode = "untracked"
	}
	dashURL := opts.DashboardURL
	if dashURL == "" {
		dashURL = "(not reporting)"
	}
	fmt.Fprintln(t.Out, "Dry run, nothing will be executed:")
	fmt.Fprintf(t.Out, "  command:     %s\n", strings.Join(command, " "))
	fmt.Fprintf(t.Out, "  project:     %s\n", opts.Project)
	fmt.Fprintf(t.Out, "  team:        %s\n", opts.Team)
	fmt.Fprintf(t.Out, "  environment: %s\n", opts.Environment)
	fmt.Fprintf(t.Out, "  dashboard:   %s\n", dashURL)
	fmt.Fprintf(t.Out, "  mode:        %s\n", mode)
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
