package output

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestStatusStyle(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		wantBold bool
		wantFG   lipgloss.TerminalColor
	}{
		{
			name:   "copied returns green",
			status: StatusCopied,
			wantFG: colorGreen,
		},
		{
			name:   "missing returns yellow",
			status: StatusMissing,
			wantFG: ColorYellow,
		},
		{
			name:     "error returns bold red",
			status:   StatusError,
			wantBold: true,
			wantFG:   colorBoldRed,
		},
		{
			name:   "unknown returns default unstyled",
			status: "unknown-value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style := statusStyle(tt.status)
			if tt.wantBold {
				assert.True(t, style.GetBold(), "expected bold")
			}
			if tt.wantFG != nil {
				assert.Equal(t, tt.wantFG, style.GetForeground(), "foreground color mismatch")
			}
		})
	}
}

func TestFormatEntryLine(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status string
	}{
		{"short path", "backend/main.py", StatusCopied},
		{"missing entry", "frontend/package.json", StatusMissing},
		{"long path keeps two spaces", strings.Repeat("a", 60), StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := FormatEntryLine(tt.path, tt.status)
			assert.Contains(t, line, "f:")
			assert.Contains(t, line, tt.path)
			assert.Contains(t, line, tt.status)
			assert.Contains(t, line, tt.path+"  ")
		})
	}
}

func TestFormatCheckmark(t *testing.T) {
	out := FormatCheckmark("Project created")
	assert.Contains(t, out, "✔")
	assert.Contains(t, out, "Project created")
}

func TestFormatSummary(t *testing.T) {
	assert.Contains(t, FormatSummary(3, 0, 0), "3 copied")
	assert.NotContains(t, FormatSummary(3, 0, 0), "missing")

	out := FormatSummary(1, 2, 1)
	assert.Contains(t, out, "1 copied")
	assert.Contains(t, out, "2 missing")
	assert.Contains(t, out, "1 failed")
}
