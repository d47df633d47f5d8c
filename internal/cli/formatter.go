package cli

import "strings"

// renderScoreBar draws a fixed-width bar for a 0-100 safety score.
func renderScoreBar(score float64, width int) string {
	filled := int(score / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
