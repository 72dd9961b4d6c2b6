package service

import (
	"fmt"
	"math"
)

// FormatDistance renders meters as "124 m" below a kilometer and "1.2 km"
// from there on. Halves round up.
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", int64(math.Round(meters)))
	}
	tenths := math.Round(meters / 100)
	return fmt.Sprintf("%.1f km", tenths/10)
}

// FormatDuration rounds to the nearest minute: "N min" below an hour, then
// "Hh Mmin".
func FormatDuration(seconds float64) string {
	minutes := int64(math.Round(seconds / 60))
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%dh %dmin", minutes/60, minutes%60)
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	minutes = ((minutes % 1440) + 1440) % 1440
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// FormatHours renders an opening window such as "08:00 - 21:00".
func FormatHours(openTime, closeTime int) string {
	return FormatClock(openTime) + " - " + FormatClock(closeTime)
}
