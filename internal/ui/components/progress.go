package components

import (
	"fmt"
	"strings"

	"github.com/abhisek/masterypath/internal/ui/theme"
)

// ScoreBar renders a mastery score in [0, 1] as a fixed-width bar.
type ScoreBar struct {
	Score       float64
	Width       int
	ShowPercent bool
}

// NewScoreBar creates a score bar of the given cell width.
func NewScoreBar(score float64, width int, showPercent bool) ScoreBar {
	return ScoreBar{Score: score, Width: width, ShowPercent: showPercent}
}

// Filled returns how many cells the score occupies.
func (b ScoreBar) Filled() int {
	width := max(b.Width, 4)
	filled := int(float64(width)*b.Score + 0.5)
	return min(max(filled, 0), width)
}

// View renders the bar.
func (b ScoreBar) View() string {
	width := max(b.Width, 4)
	filled := b.Filled()

	result := theme.BarFilled.Render(strings.Repeat("\u2588", filled)) +
		theme.BarEmpty.Render(strings.Repeat("\u2591", width-filled))

	if b.ShowPercent {
		result += theme.Hint.Render(fmt.Sprintf(" %3d%%", int(b.Score*100+0.5)))
	}
	return result
}
