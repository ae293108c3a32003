// Package theme holds the terminal palette and styles for CLI reports.
package theme

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/masterypath/internal/mastery"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Category = lipgloss.NewStyle().
			Bold(true).
			Foreground(Secondary)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Mastery status badges
var (
	Mastered = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	Decaying = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	Available = lipgloss.NewStyle().
			Foreground(Text)

	Locked = lipgloss.NewStyle().
		Foreground(TextDim)

	// Due flags a nonzero count of skills waiting for review.
	Due = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// Score bar
var (
	BarFilled = lipgloss.NewStyle().
			Foreground(Secondary)

	BarEmpty = lipgloss.NewStyle().
			Foreground(Border)
)

// StatusStyle returns the badge style for a mastery status.
func StatusStyle(s mastery.Status) lipgloss.Style {
	switch s {
	case mastery.StatusMastered:
		return Mastered
	case mastery.StatusDecaying:
		return Decaying
	case mastery.StatusAvailable:
		return Available
	default:
		return Locked
	}
}

// StatusIcon returns a one-rune marker for a mastery status.
func StatusIcon(s mastery.Status) string {
	switch s {
	case mastery.StatusMastered:
		return "\u2605" // black star
	case mastery.StatusDecaying:
		return "\u25D2" // half circle
	case mastery.StatusAvailable:
		return "\u25CB" // white circle
	default:
		return "\u00B7" // middle dot
	}
}
