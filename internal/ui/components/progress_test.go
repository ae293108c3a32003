package components

import (
	"testing"

	"charm.land/lipgloss/v2"
)

func TestScoreBar_Filled(t *testing.T) {
	tests := []struct {
		score float64
		width int
		want  int
	}{
		{0, 10, 0},
		{0.5, 10, 5},
		{0.86, 10, 9},
		{1, 10, 10},
		{1.7, 10, 10},
		{-0.2, 10, 0},
		{1, 2, 4}, // minimum width
	}
	for _, tt := range tests {
		if got := NewScoreBar(tt.score, tt.width, false).Filled(); got != tt.want {
			t.Errorf("Filled(score=%v, width=%d) = %d, want %d", tt.score, tt.width, got, tt.want)
		}
	}
}

func TestScoreBar_ViewWidth(t *testing.T) {
	if got := lipgloss.Width(NewScoreBar(0.3, 12, false).View()); got != 12 {
		t.Errorf("bar width = %d, want 12", got)
	}
	if got := lipgloss.Width(NewScoreBar(0.3, 12, true).View()); got != 17 {
		t.Errorf("bar width with percent = %d, want 17", got)
	}
}
