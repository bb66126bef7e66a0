package kernel

import "time"

// Peak demand windows: lunch 11:00-13:00 and dinner 18:00-20:00, in the
// timestamp's own location. End bounds are exclusive.
const (
	lunchPeakStartHour  = 11
	lunchPeakEndHour    = 13
	dinnerPeakStartHour = 18
	dinnerPeakEndHour   = 20
)

// InPeakWindow reports whether t falls inside a peak demand window.
func InPeakWindow(t time.Time) bool {
	h := t.Hour()
	return (h >= lunchPeakStartHour && h < lunchPeakEndHour) ||
		(h >= dinnerPeakStartHour && h < dinnerPeakEndHour)
}

// StartOfDay returns midnight of t's calendar day in t's location.
// Used as the lower bound for daily order counting.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
