package tracker

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"text/template"

	"github.com/aiimpact/tracker/internal/templates"
)

//go:embed measure.py.tmpl
var measureScript []byte

// Environment variables exported to the measurement script and the wrapped
// command.
const (
	EnvProject     = "AI_DASHBOARD_PROJECT"
	EnvTeam        = "AI_DASHBOARD_TEAM"
	EnvEnvironment = "AI_DASHBOARD_ENVIRONMENT"
	EnvRunID       = "AI_DASHBOARD_RUN_ID"
	EnvResult      = "AI_DASHBOARD_RESULT"
)

type scriptData struct {
	RunID      string
	OutputDir  string
	ResultEnv  string
	ProjectEnv string
}

// pyquote renders s as a Python string literal. JSON string syntax is a
// subset of Python's, so the output is always a single valid literal.
func pyquote(s string) (string, error) {
	b, err := json.Marshal(s)
	return string(b), err
}

var scriptFuncs = template.FuncMap{"pyquote": pyquote}

// RenderScript produces the measurement script. User-controlled values only
// appear through pyquote.
func RenderScript(runID, outputDir string) ([]byte, error) {
	data := scriptData{
		RunID:      runID,
		OutputDir:  outputDir,
		ResultEnv:  EnvResult,
		ProjectEnv: EnvProject,
	}
	return templates.NewRenderer(data, scriptFuncs).Render("measure.py", measureScript)
}

// scriptResult mirrors what measure.py writes.
type scriptResult struct {
	ExitCode    int      `json:"exit_code"`
	Duration    float64  `json:"duration"`
	EnergyKWh   *float64 `json:"energy_kwh"`
	EmissionsKg *float64 `json:"emissions_kg"`
	Error       *string  `json:"error"`
}

func readResult(path string) (*scriptResult, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("result file %s is empty", path)
	}
	var r scriptResult
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &r, nil
}
