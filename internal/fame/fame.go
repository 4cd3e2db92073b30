// Package fame formats the server-computed fame rating for display.
// The rating is never computed or clamped client-side; whatever the API
// returns is rendered as-is.
package fame

import (
	"fmt"
	"math"
)

// Level is the displayed level: the floor of the rating.
func Level(rating float64) int {
	return int(math.Floor(rating))
}

// Progress is the fraction of the way to the next level, in [0, 1).
func Progress(rating float64) float64 {
	return rating - math.Floor(rating)
}

// ProgressPercent is Progress rounded to a whole percent for the bar label.
func ProgressPercent(rating float64) int {
	return int(math.Round(Progress(rating) * 100))
}

// Bar renders a fixed-width progress bar toward the next level.
func Bar(rating float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(Progress(rating) * float64(width)))
	if filled > width {
		filled = width
	}
	bar := make([]rune, width)
	for i := range bar {
		if i < filled {
			bar[i] = '█'
		} else {
			bar[i] = '░'
		}
	}
	return string(bar)
}

// Label is the compact "lvl 13 · 90%" form used in profile cards.
func Label(rating float64) string {
	return fmt.Sprintf("lvl %d · %d%%", Level(rating), ProgressPercent(rating))
}
