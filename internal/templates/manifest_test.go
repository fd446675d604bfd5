package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/aiimpact/tracker/internal/errors"
)

func TestDefaultManifest(t *testing.T) {
	m, err := DefaultManifest()
	require.NoError(t, err)

	var names []string
	for _, c := range m.Categories {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"backend", "frontend", "environment", "docker", "misc"}, names)

	entries := m.Entries()
	require.NotEmpty(t, entries)
	assert.Equal(t, "backend_main.py", entries[0].Source)
	assert.Equal(t, "backend/main.py", entries[0].Dest)
	assert.True(t, entries[0].Required)

	dest := map[string]string{}
	for _, e := range entries {
		dest[e.Source] = e.Dest
	}
	assert.Equal(t, ".env.example", dest["backend_env_example"])
	assert.Equal(t, "docker-compose.yml", dest["docker_compose_yml"])
	assert.Equal(t, "docker/backend.Dockerfile", dest["docker_backend_dockerfile"])
	assert.Equal(t, "LICENSE", dest["LICENSE"])
}

func TestManifest_ForTemplateSet(t *testing.T) {
	m, err := DefaultManifest()
	require.NoError(t, err)

	tests := []struct {
		set  string
		want []string
	}{
		{"minimal", []string{"backend", "environment"}},
		{"default", []string{"backend", "frontend", "environment", "misc"}},
		{"full", []string{"backend", "frontend", "environment", "docker", "misc"}},
	}
	for _, tt := range tests {
		t.Run(tt.set, func(t *testing.T) {
			sub, err := m.ForTemplateSet(tt.set)
			require.NoError(t, err)
			var got []string
			for _, c := range sub.Categories {
				got = append(got, c.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	_, err = m.ForTemplateSet("huge")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "minimal, default, full")
}

func TestLoadManifest_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "duplicate dest",
			yaml: `
categories:
  - name: a
    entries:
      - {source: one, dest: x/file}
      - {source: two, dest: x/./file}
`,
			wantErr: "written by both",
		},
		{
			name: "absolute dest",
			yaml: `
categories:
  - name: a
    entries:
      - {source: one, dest: /etc/passwd}
`,
			wantErr: "escapes the project root",
		},
		{
			name: "parent dest",
			yaml: `
categories:
  - name: a
    entries:
      - {source: one, dest: ../outside}
`,
			wantErr: "escapes the project root",
		},
		{
			name: "duplicate source",
			yaml: `
categories:
  - name: a
    entries:
      - {source: one, dest: a}
      - {source: one, dest: b}
`,
			wantErr: "duplicate manifest source",
		},
		{
			name:    "unknown field",
			yaml:    "categories:\n  - name: a\n    color: red\n",
			wantErr: "decoding manifest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadManifest(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			if tt.wantErr != "decoding manifest" {
				assert.ErrorIs(t, err, oerrors.ErrValidation)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"minimal", "default", "full"}, Names())

	def, err := Get(DefaultTemplateName)
	require.NoError(t, err)
	assert.True(t, def.Default)

	for _, s := range List() {
		assert.NotEmpty(t, s.Description, s.Name)
	}

	assert.Contains(t, Skeleton, "backend/api/routes")
	assert.Contains(t, Skeleton, "frontend/src/components/ui")
	assert.Contains(t, SetupSkeleton, "backend/data")
}
