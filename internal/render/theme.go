// Package render turns a parsed status-file record set into the color-coded
// terminal table.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme centralizes all styling for the status table. Row and summary colors
// are keyed by status-string prefix, so new engine statuses fall back to the
// plain style instead of breaking rendering.
type Theme struct {
	StatusError     lipgloss.Style
	StatusSubmitted lipgloss.Style
	StatusDone      lipgloss.Style
	Plain           lipgloss.Style

	Filename lipgloss.Style
}

func NewDefaultTheme() Theme {
	return Theme{
		StatusError:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		StatusSubmitted: lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		StatusDone:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Plain:           lipgloss.NewStyle(),

		Filename: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	}
}

// NewMonochromeTheme returns a theme with no colors, for --no-color and for
// output that is not a terminal.
func NewMonochromeTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		StatusError:     plain,
		StatusSubmitted: plain,
		StatusDone:      plain,
		Plain:           plain,
		Filename:        plain,
	}
}

// StatusStyle selects the style for a status token by prefix.
func (t Theme) StatusStyle(status string) lipgloss.Style {
	switch {
	case strings.HasPrefix(status, "STATUS_ERROR"):
		return t.StatusError
	case strings.HasPrefix(status, "STATUS_SUBMITTED"):
		return t.StatusSubmitted
	case strings.HasPrefix(status, "STATUS_DONE"):
		return t.StatusDone
	default:
		return t.Plain
	}
}
