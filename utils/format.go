package utils

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/muesli/termenv"
)

// MessageType is a custom type used as a placeholder for various message types.
type MessageType int

// The message types used across the CLI application.
const (
	DefaultMessage MessageType = iota
	SuccessMessage
	ErrorMessage
	StatusMessage
)

// Colors used across the CLI application.
const (
	StatusColor  = "#00bcd4"
	SuccessColor = "#4caf50"
	ErrorColor   = "#f44336"
)

// output is where the status messages go. Its color profile degrades to plain
// text when stderr is not a terminal.
var output = termenv.NewOutput(os.Stderr)

// DecorateText shows the message types in different colors.
func DecorateText(s string, msgType MessageType) string {
	var hex string
	switch msgType {
	case StatusMessage:
		hex = StatusColor
	case SuccessMessage:
		hex = SuccessColor
	case ErrorMessage:
		hex = ErrorColor
	default:
		return s
	}
	return output.String(s).Foreground(output.Color(hex)).String()
}

// FormatTime formats time.Duration output to a human readable value.
func FormatTime(d time.Duration) string {
	if d.Seconds() < 1.0 {
		return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1000)
	}
	if d.Seconds() < 60.0 {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	if d.Minutes() < 60.0 {
		remainingSeconds := math.Mod(d.Seconds(), 60)
		return fmt.Sprintf("%dm %.2fs", int64(d.Minutes()), remainingSeconds)
	}
	if d.Hours() < 24.0 {
		remainingMinutes := math.Mod(d.Minutes(), 60)
		remainingSeconds := math.Mod(d.Seconds(), 60)
		return fmt.Sprintf("%dh %dm %.2fs",
			int64(d.Hours()), int64(remainingMinutes), remainingSeconds)
	}
	remainingHours := math.Mod(d.Hours(), 24)
	remainingMinutes := math.Mod(d.Minutes(), 60)
	remainingSeconds := math.Mod(d.Seconds(), 60)
	return fmt.Sprintf("%dd %dh %dm %.2fs",
		int64(d.Hours()/24), int64(remainingHours),
		int64(remainingMinutes), remainingSeconds)
}
