// Package styles holds the shared lipgloss palette for the terminal UI.
package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Teal      = lipgloss.Color("#2DD4BF")
	Charcoal  = lipgloss.Color("#111827")
	Slate     = lipgloss.Color("#374151")
	DimGray   = lipgloss.Color("#6B7280")
	LightGray = lipgloss.Color("#9CA3AF")
	White     = lipgloss.Color("#F9FAFB")
	Green     = lipgloss.Color("#10B981")
	Red       = lipgloss.Color("#EF4444")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Teal)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)
)

// List item styles
var (
	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(Slate).
				Padding(0, 1)

	NormalItemStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Padding(0, 1)
)

// Chrome styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(Charcoal).
			Background(Teal).
			Bold(true).
			Padding(0, 1)

	BadgeStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Background(Slate).
			Padding(0, 1)

	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(Teal).
				Bold(true)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(Teal)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(Teal)
)

// Truncate shortens a string to width with a trailing ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
