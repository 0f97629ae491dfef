package tui

import (
	"strconv"
	"time"
)

// formatQty trims trailing zeros from fractional quantities so whole
// share counts read as integers.
func formatQty(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// formatClock renders a timestamp as local wall-clock time, or a dash
// when unset.
func formatClock(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("15:04:05")
}
