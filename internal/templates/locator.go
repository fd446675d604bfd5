package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	oerrors "github.com/aiimpact/tracker/internal/errors"
)

// EnvTemplatesDir overrides the template search with a single directory.
const EnvTemplatesDir = "AI_IMPACT_TEMPLATES_DIR"

// DefaultFingerprint is the file a template root must contain to be trusted.
const DefaultFingerprint = "backend_main.py"

// Locator searches an ordered candidate list for a template root.
type Locator struct {
	// Candidates are tried in order; the first acceptable one wins.
	Candidates []string

	// Fingerprint, when set, is a file name the candidate must contain.
	Fingerprint string
}

// Rejection records why a candidate was passed over.
type Rejection struct {
	Path   string
	Reason string
}

// TemplatesNotFoundError lists every candidate that was tried.
type TemplatesNotFoundError struct {
	Tried []Rejection
}

func (e *TemplatesNotFoundError) Error() string {
	var b strings.Builder
	b.WriteString("templates directory not found; tried:")
	for _, r := range e.Tried {
		fmt.Fprintf(&b, "\n  %s (%s)", r.Path, r.Reason)
	}
	return b.String()
}

func (e *TemplatesNotFoundError) Unwrap() error {
	return oerrors.ErrTemplatesNotFound
}

// NewLocator builds a locator over candidates. An empty fingerprint accepts
// any existing directory.
func NewLocator(candidates []string, fingerprint string) *Locator {
	return &Locator{Candidates: candidates, Fingerprint: fingerprint}
}

// DefaultCandidates returns the search order for an installed or
// development binary: cwd first, then paths relative to the executable, then
// parents of cwd. exeDir may be empty when it cannot be determined.
func DefaultCandidates(cwd, exeDir string) []string {
	out := []string{filepath.Join(cwd, "templates")}
	if exeDir != "" {
		out = append(out,
			filepath.Join(exeDir, "..", "templates"),
			filepath.Join(exeDir, "..", "..", "templates"),
			filepath.Join(exeDir, "..", "..", "..", "templates"),
			filepath.Join(exeDir, "templates"),
		)
	}
	out = append(out,
		filepath.Join(cwd, "..", "templates"),
		filepath.Join(cwd, "..", "..", "templates"),
	)
	return out
}

// ExecutableDir returns the directory of the running binary with symlinks
// resolved, or "" if it cannot be determined.
func ExecutableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

// Locate returns the absolute path of the first acceptable candidate.
func (l *Locator) Locate() (string, error) {
	var tried []Rejection
	for _, c := range l.Candidates {
		reason := l.check(c)
		if reason == "" {
			abs, err := filepath.Abs(c)
			if err != nil {
				return c, nil
			}
			return abs, nil
		}
		tried = append(tried, Rejection{Path: c, Reason: reason})
	}
	return "", &TemplatesNotFoundError{Tried: tried}
}

func (l *Locator) check(dir string) string {
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		return "does not exist"
	case err != nil:
		return err.Error()
	case !info.IsDir():
		return "not a directory"
	}
	if l.Fingerprint == "" {
		return ""
	}
	fp, err := os.Stat(filepath.Join(dir, l.Fingerprint))
	if err != nil || fp.IsDir() {
		return fmt.Sprintf("missing %s", l.Fingerprint)
	}
	return ""
}
