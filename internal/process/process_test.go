package process

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestExecRunner_ExitCodes(t *testing.T) {
	skipWithoutShell(t)

	tests := []struct {
		name   string
		script string
		want   int
	}{
		{"success", "exit 0", 0},
		{"failure", "exit 1", 1},
		{"specific code", "exit 42", 42},
		{"killed by SIGTERM", "kill -TERM $$", 143},
		{"killed by SIGKILL", "kill -KILL $$", 137},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := NewExecRunner().Run(context.Background(), Command{
				Name:   "sh",
				Args:   []string{"-c", tt.script},
				Stdout: &bytes.Buffer{},
				Stderr: &bytes.Buffer{},
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestExecRunner_MissingExecutable(t *testing.T) {
	code, err := NewExecRunner().Run(context.Background(), Command{Name: "definitely-not-a-real-binary-xyz"})
	assert.Error(t, err)
	assert.Equal(t, -1, code)
}

func TestExecRunner_DirAndEnv(t *testing.T) {
	skipWithoutShell(t)
	dir := t.TempDir()

	var out bytes.Buffer
	code, err := NewExecRunner().Run(context.Background(), Command{
		Name:   "sh",
		Args:   []string{"-c", `echo "$AI_DASHBOARD_PROJECT" > marker.txt`},
		Dir:    dir,
		Env:    []string{"AI_DASHBOARD_PROJECT=vision"},
		Stdout: &out,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	data, err := os.ReadFile(filepath.Join(dir, "marker.txt"))
	require.NoError(t, err)
	assert.Equal(t, "vision\n", string(data))
}

func TestRunCapture(t *testing.T) {
	skipWithoutShell(t)

	code, out, err := RunCapture(context.Background(), NewExecRunner(), Command{
		Name: "sh",
		Args: []string{"-c", "echo out; echo err >&2; exit 3"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, code)
	assert.Contains(t, out, "out")
	assert.Contains(t, out, "err")
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "pip install -r requirements.txt",
		Command{Name: "pip", Args: []string{"install", "-r", "requirements.txt"}}.String())
	assert.Equal(t, "npm", Command{Name: "npm"}.String())
}
