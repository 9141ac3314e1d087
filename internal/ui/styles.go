package ui

import "fmt"

// ANSI256 color codes used across analysis output.
const (
	colorHigh     = 196 // red, high-severity cycles
	colorMedium   = 214 // orange, medium severity and warnings
	colorLow      = 245 // gray, low severity
	colorCritical = 74  // blue, critical-path items
	colorGood     = 71  // green, healthy scores
	colorMuted    = 245 // gray, secondary text
)

var noColor bool

// RenderSeverity returns s colored by cycle severity ("high", "medium", "low").
func RenderSeverity(severity, s string) string {
	if noColor {
		return s
	}
	code := colorLow
	switch severity {
	case "high":
		code = colorHigh
	case "medium":
		code = colorMedium
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderCritical returns s in the critical-path color.
func RenderCritical(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorCritical, s)
}

// RenderScore colors a health score: green at 80+, orange at 50+, red below.
func RenderScore(score int, s string) string {
	if noColor {
		return s
	}
	code := colorHigh
	switch {
	case score >= 80:
		code = colorGood
	case score >= 50:
		code = colorMedium
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorMuted, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
