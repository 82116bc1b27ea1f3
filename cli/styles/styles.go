// Package styles provides consistent terminal styling for the veloxide CLI.
package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Color palette.
var (
	Primary      = lipgloss.Color("#7C3AED") // Purple
	PrimaryLight = lipgloss.Color("#A78BFA")
	Secondary    = lipgloss.Color("#06B6D4") // Cyan

	Success = lipgloss.Color("#10B981") // Emerald
	Warning = lipgloss.Color("#F59E0B") // Amber
	Error   = lipgloss.Color("#EF4444") // Red
	Info    = lipgloss.Color("#3B82F6") // Blue

	Text      = lipgloss.Color("#F9FAFB")
	TextMuted = lipgloss.Color("#9CA3AF")
	Border    = lipgloss.Color("#374151")
)

// Text styles.
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryLight)

	Normal = lipgloss.NewStyle().
		Foreground(Text)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	Highlight = lipgloss.NewStyle().
			Bold(true).
			Foreground(Secondary)
)

// Status styles.
var (
	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error)
	InfoStyle    = lipgloss.NewStyle().Foreground(Info)
)

// Box draws content inside a rounded border.
var Box = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(0, 2)

// Ok renders a success line with a check mark.
func Ok(format string, args ...interface{}) string {
	return SuccessStyle.Render("✓ ") + fmt.Sprintf(format, args...)
}

// Fail renders an error line with a cross mark.
func Fail(format string, args ...interface{}) string {
	return ErrorStyle.Render("✗ ") + fmt.Sprintf(format, args...)
}

// Step renders a progress line with an arrow.
func Step(format string, args ...interface{}) string {
	return InfoStyle.Render("→ ") + fmt.Sprintf(format, args...)
}
