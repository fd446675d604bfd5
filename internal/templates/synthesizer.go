package templates

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/joho/godotenv"

	"github.com/aiimpact/tracker/internal/output"
)

const defaultAPIURL = "http://localhost:8000"

// Synthesizer writes the project files that are generated rather than
// copied from the template root.
type Synthesizer struct {
	// Overwrite replaces files that already exist. When false they are
	// left alone and reported as skipped.
	Overwrite bool

	// SkipFrontend omits the frontend build configs.
	SkipFrontend bool
}

// Synthesize writes every generated file for a freshly created project and
// returns their paths relative to destRoot.
func Synthesize(destRoot string, cfg ProjectConfig) ([]string, error) {
	s := &Synthesizer{Overwrite: true, SkipFrontend: cfg.Template == "minimal"}
	return s.Synthesize(destRoot, cfg)
}

type generatedFile struct {
	path     string
	frontend bool
	build    func(ProjectConfig) ([]byte, error)
}

var generatedFiles = []generatedFile{
	{path: "package.json", build: PackageJSON},
	{path: "frontend/next.config.js", frontend: true, build: embedded("next.config.js.tmpl")},
	{path: "frontend/postcss.config.js", frontend: true, build: embedded("postcss.config.js.tmpl")},
	{path: "frontend/tsconfig.json", frontend: true, build: embedded("tsconfig.json.tmpl")},
	{path: "README.md", build: embedded("README.md.tmpl")},
	{path: ".env", build: EnvFile},
}

// Synthesize validates cfg and writes the generated files under destRoot.
func (s *Synthesizer) Synthesize(destRoot string, cfg ProjectConfig) ([]string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var written []string
	for _, f := range generatedFiles {
		if f.frontend && s.SkipFrontend {
			continue
		}
		dst := filepath.Join(destRoot, filepath.FromSlash(f.path))
		if !s.Overwrite {
			if _, err := os.Stat(dst); err == nil {
				output.Warn("keeping existing file", "path", f.path)
				continue
			}
		}

		content, err := f.build(cfg)
		if err != nil {
			return written, fmt.Errorf("generating %s: %w", f.path, err)
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return written, fmt.Errorf("creating parent of %s: %w", f.path, err)
		}
		mode := os.FileMode(0o644)
		if f.path == ".env" {
			mode = 0o600
		}
		if err := os.WriteFile(dst, content, mode); err != nil {
			return written, fmt.Errorf("writing %s: %w", f.path, err)
		}
		output.Debug("generated file", "path", f.path)
		written = append(written, f.path)
	}

	if cfg.Database == DatabaseSQLite {
		for _, dir := range []string{"data", "backend/data"} {
			if err := os.MkdirAll(filepath.Join(destRoot, filepath.FromSlash(dir)), 0o755); err != nil {
				return written, fmt.Errorf("creating %s: %w", dir, err)
			}
		}
	}
	return written, nil
}

type packageJSON struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Description     string            `json:"description,omitempty"`
	Private         bool              `json:"private"`
	Scripts         map[string]string `json:"scripts"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// PackageJSON builds the root package manifest. Values are JSON encoded, so
// a description containing quotes cannot break the file.
func PackageJSON(cfg ProjectConfig) ([]byte, error) {
	pkg := packageJSON{
		Name:        strings.ToLower(cfg.Name),
		Version:     "1.0.0",
		Description: cfg.Description,
		Private:     true,
		Scripts: map[string]string{
			"dev:backend":     "uvicorn backend.main:app --reload --port " + strconv.Itoa(DefaultBackendPort),
			"dev:frontend":    "cd frontend && npm run dev -- --port " + strconv.Itoa(cfg.Port),
			"dev":             `concurrently "npm run dev:backend" "npm run dev:frontend"`,
			"build:frontend":  "cd frontend && npm run build",
			"start:backend":   "uvicorn backend.main:app --host 0.0.0.0 --port " + strconv.Itoa(DefaultBackendPort),
			"start:frontend":  "cd frontend && npm start",
			"db:init-users":   "python backend/init_users.py",
			"test:backend":    "pytest",
			"test:frontend":   "cd frontend && npm test",
			"lint:backend":    "black backend && flake8 backend",
			"lint:frontend":   "cd frontend && npm run lint",
			"format:backend":  "black backend",
			"format:frontend": "cd frontend && npm run format",
		},
		DevDependencies: map[string]string{
			"concurrently": "^8.2.2",
		},
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(pkg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EnvValues returns the backend and frontend settings written to .env.
func EnvValues(cfg ProjectConfig) map[string]string {
	return map[string]string{
		"DATABASE_URL":                cfg.DatabaseURL(),
		"DATABASE_TYPE":               string(cfg.Database),
		"BACKEND_PORT":                strconv.Itoa(DefaultBackendPort),
		"BACKEND_HOST":                "0.0.0.0",
		"ENVIRONMENT":                 "development",
		"FRONTEND_PORT":               strconv.Itoa(cfg.Port),
		"NEXT_PUBLIC_API_URL":         defaultAPIURL,
		"SECRET_KEY":                  cfg.SecretKey,
		"ALGORITHM":                   "HS256",
		"ACCESS_TOKEN_EXPIRE_MINUTES": "30",
		"ENERGY_PROVIDER":             "codecarbon",
		"REGION":                      "us-east-1",
	}
}

// EnvFile renders .env with godotenv, which sorts keys and quotes values.
func EnvFile(cfg ProjectConfig) ([]byte, error) {
	body, err := godotenv.Marshal(EnvValues(cfg))
	if err != nil {
		return nil, err
	}
	header := fmt.Sprintf("# Generated by ai-impact-tracker for %s.\n# Replace SECRET_KEY before deploying.\n", cfg.Name)
	return []byte(header + body + "\n"), nil
}

// readmeData is what the embedded file templates see.
type readmeData struct {
	ProjectConfig
	DatabaseURL   string
	APIURL        string
	FeatureTitles []string
}

var fileFuncs = template.FuncMap{
	"jsstring": func(s string) (string, error) {
		b, err := json.Marshal(s)
		return string(b), err
	},
}

func embedded(name string) func(ProjectConfig) ([]byte, error) {
	return func(cfg ProjectConfig) ([]byte, error) {
		data := readmeData{
			ProjectConfig: cfg,
			DatabaseURL:   cfg.DatabaseURL(),
			APIURL:        defaultAPIURL,
			FeatureTitles: FeatureTitles(cfg.Features),
		}
		return NewRenderer(data, fileFuncs).RenderEmbedded(name)
	}
}

var featureTitles = map[string]string{
	"energy-tracking":  "Energy consumption tracking",
	"carbon-footprint": "Carbon footprint monitoring",
	"water-usage":      "Water usage tracking",
	"insights":         "Sustainability insights and recommendations",
	"authentication":   "JWT authentication",
	"user-management":  "Role-based user management",
	"dark-mode":        "Dark mode",
	"real-time-charts": "Real-time charts",
	"teams":            "Team and project breakdowns",
	"api":              "REST API for metric ingestion",
}

// FeatureTitles maps feature keys to display titles, keeping order.
func FeatureTitles(features []string) []string {
	out := make([]string, 0, len(features))
	for _, f := range features {
		if t, ok := featureTitles[f]; ok {
			out = append(out, t)
		} else {
			out = append(out, f)
		}
	}
	return out
}
