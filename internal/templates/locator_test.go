package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/aiimpact/tracker/internal/errors"
)

func mkTemplateDir(t *testing.T, dir string, files ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte(f), 0o644))
	}
}

func TestLocator_FirstExistingWins(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a")
	b := filepath.Join(root, "b")
	c := filepath.Join(root, "c")
	mkTemplateDir(t, b)
	mkTemplateDir(t, c)

	got, err := NewLocator([]string{a, b, c}, "").Locate()
	require.NoError(t, err)
	assert.Equal(t, b, got)
}

func TestLocator_NoneExist(t *testing.T) {
	root := t.TempDir()
	candidates := []string{
		filepath.Join(root, "x"),
		filepath.Join(root, "y"),
		filepath.Join(root, "z"),
	}

	_, err := NewLocator(candidates, "").Locate()
	require.Error(t, err)
	assert.ErrorIs(t, err, oerrors.ErrTemplatesNotFound)

	var nf *TemplatesNotFoundError
	require.ErrorAs(t, err, &nf)
	require.Len(t, nf.Tried, 3)
	for i, c := range candidates {
		assert.Equal(t, c, nf.Tried[i].Path)
		assert.Contains(t, err.Error(), c)
	}
}

func TestLocator_Fingerprint(t *testing.T) {
	root := t.TempDir()
	empty := filepath.Join(root, "empty")
	valid := filepath.Join(root, "real")
	mkTemplateDir(t, empty)
	mkTemplateDir(t, valid, DefaultFingerprint)

	got, err := NewLocator([]string{empty, valid}, DefaultFingerprint).Locate()
	require.NoError(t, err)
	assert.Equal(t, valid, got)

	_, err = NewLocator([]string{empty}, DefaultFingerprint).Locate()
	var nf *TemplatesNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing backend_main.py", nf.Tried[0].Reason)
}

func TestLocator_RejectsFile(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "templates")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := NewLocator([]string{file}, "").Locate()
	var nf *TemplatesNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "not a directory", nf.Tried[0].Reason)
}

func TestDefaultCandidates(t *testing.T) {
	cwd := filepath.FromSlash("/work/proj")
	exe := filepath.FromSlash("/opt/tool/bin")

	got := DefaultCandidates(cwd, exe)
	want := []string{
		filepath.FromSlash("/work/proj/templates"),
		filepath.FromSlash("/opt/tool/templates"),
		filepath.FromSlash("/opt/templates"),
		filepath.FromSlash("/templates"),
		filepath.FromSlash("/opt/tool/bin/templates"),
		filepath.FromSlash("/work/templates"),
		filepath.FromSlash("/templates"),
	}
	assert.Equal(t, want, got)

	assert.Len(t, DefaultCandidates(cwd, ""), 3)
}
