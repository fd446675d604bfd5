// Package testutil provides test helpers for CLI tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aiimpact/tracker/internal/process"
	"github.com/aiimpact/tracker/internal/templates"
)

// WriteFile creates a file with the given content in the specified directory.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// TemplateRoot creates a templates directory holding the locator
// fingerprint plus the named sources. Each file's content is its own name.
func TemplateRoot(t *testing.T, sources ...string) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "templates")
	WriteFile(t, root, templates.DefaultFingerprint, "# "+templates.DefaultFingerprint+"\n")
	for _, s := range sources {
		WriteFile(t, root, s, s+"\n")
	}
	return root
}

// Runner is a process.Runner that records commands instead of running them.
type Runner struct {
	mu    sync.Mutex
	Calls []process.Command

	// Codes maps an executable name to the exit code it returns.
	Codes map[string]int

	// Err, when set, is returned for every command.
	Err error
}

// Run implements process.Runner.
func (r *Runner) Run(_ context.Context, c process.Command) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, c)
	if r.Err != nil {
		return -1, r.Err
	}
	return r.Codes[c.Name], nil
}

// Names returns the executable of each recorded call, in order.
func (r *Runner) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Calls))
	for _, c := range r.Calls {
		out = append(out, c.Name)
	}
	return out
}
