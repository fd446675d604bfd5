package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. Never use inline lipgloss.Color literals outside this block.
var (
	// ColorCyan is used for identifiable nouns: project names, paths, URLs.
	ColorCyan = lipgloss.Color("14")

	// colorGreen is used for the "copied" status.
	colorGreen = lipgloss.Color("82")

	// ColorYellow is used for the "missing" status and degraded tracking.
	ColorYellow = lipgloss.Color("220")

	// colorBoldRed is used for the "error" status (matches ERROR level).
	colorBoldRed = lipgloss.Color("204")

	// colorGreenCheck is used for the completion checkmark.
	colorGreenCheck = lipgloss.Color("10")

	// colorDimGray is used for borders and other structural chrome.
	colorDimGray = lipgloss.Color("240")

	// colorHeader is used for table headers.
	colorHeader = lipgloss.Color("12")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns (project names, paths, URLs).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleAction styles action verbs (creating, installing, tracking).
	StyleAction = lipgloss.NewStyle().Bold(true)

	// StyleDim styles structural chrome (scope prefixes, separators).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// Copy status constants, shared with the templates package report.
const (
	StatusCopied  = "copied"
	StatusMissing = "missing"
	StatusError   = "error"
)

// statusStyle returns the style for a copy status. Unknown statuses are unstyled.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case StatusCopied:
		return lipgloss.NewStyle().Foreground(colorGreen)
	case StatusMissing:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusError:
		return lipgloss.NewStyle().Bold(true).Foreground(colorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// minPathColumnWidth keeps status words aligned across entries.
const minPathColumnWidth = 48

// FormatEntryLine renders a destination path with a right-aligned,
// color-coded status suffix.
//
// Format: f:<path>  <status>
func FormatEntryLine(path, status string) string {
	padding := minPathColumnWidth - len(path)
	if padding < 2 {
		padding = 2
	}

	prefix := StyleDim.Render("f:")
	styledPath := StyleNoun.Render(path)
	styledStatus := statusStyle(status).Render(status)

	return prefix + styledPath + strings.Repeat(" ", padding) + styledStatus
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(colorGreenCheck).Render("✔")
	return check + " " + msg
}

// FormatSummary renders the "N copied, M missing, K failed" line.
func FormatSummary(copied, missing, failed int) string {
	parts := []string{statusStyle(StatusCopied).Render(fmt.Sprintf("%d copied", copied))}
	if missing > 0 {
		parts = append(parts, statusStyle(StatusMissing).Render(fmt.Sprintf("%d missing", missing)))
	}
	if failed > 0 {
		parts = append(parts, statusStyle(StatusError).Render(fmt.Sprintf("%d failed", failed)))
	}
	return StyleSummary.Render(strings.Join(parts, ", "))
}
