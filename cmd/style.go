package cmd

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colors used for human-readable output.
type Theme struct {
	Primary   lipgloss.Color // titles, composite score
	Secondary lipgloss.Color // labels
	Success   lipgloss.Color // strong scores
	Warning   lipgloss.Color // moderate scores
	Error     lipgloss.Color // weak scores
	Text      lipgloss.Color
	TextMuted lipgloss.Color // weights, placeholders
}

// DarkTheme returns the default theme for dark terminals.
func DarkTheme() Theme {
	return Theme{
		Primary:   lipgloss.Color("#fab283"),
		Secondary: lipgloss.Color("#5c9cf5"),
		Success:   lipgloss.Color("#7fd88f"),
		Warning:   lipgloss.Color("#f5a742"),
		Error:     lipgloss.Color("#e06c75"),
		Text:      lipgloss.Color("#eeeeee"),
		TextMuted: lipgloss.Color("#808080"),
	}
}

// LightTheme returns a theme for bright terminal backgrounds.
func LightTheme() Theme {
	return Theme{
		Primary:   lipgloss.Color("#b35c00"),
		Secondary: lipgloss.Color("#0550ae"),
		Success:   lipgloss.Color("#116329"),
		Warning:   lipgloss.Color("#bf8700"),
		Error:     lipgloss.Color("#cf222e"),
		Text:      lipgloss.Color("#1f2328"),
		TextMuted: lipgloss.Color("#656d76"),
	}
}

// ThemeByName returns a theme by name. Defaults to dark.
func ThemeByName(name string) Theme {
	switch name {
	case "light":
		return LightTheme()
	default:
		return DarkTheme()
	}
}

// styles holds the lipgloss styles derived from a Theme.
type styles struct {
	title lipgloss.Style
	label lipgloss.Style
	text  lipgloss.Style
	dim   lipgloss.Style
	theme Theme
}

func newStyles(t Theme) styles {
	return styles{
		title: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		label: lipgloss.NewStyle().Foreground(t.Secondary),
		text:  lipgloss.NewStyle().Foreground(t.Text),
		dim:   lipgloss.NewStyle().Foreground(t.TextMuted),
		theme: t,
	}
}

// scoreStyle colors a 0-100 score: 80 and up strong, 60 and up moderate.
// The bands follow the 8/10 and 6/10 thresholds of the report badges.
func (s styles) scoreStyle(v float64) lipgloss.Style {
	c := s.theme.Error
	switch {
	case v >= 80:
		c = s.theme.Success
	case v >= 60:
		c = s.theme.Warning
	}
	return lipgloss.NewStyle().Bold(true).Foreground(c)
}

// bar renders v (0-100) as a bar of width cells.
func bar(v float64, width int) string {
	filled := int(v/100*float64(width) + 0.5)
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
