package display

import (
	"os"

	"golang.org/x/term"
)

// Terminal color codes
const (
	Reset   = "\033[0m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
	Bold    = "\033[1m"
)

// Enabled turns color output on or off
var Enabled = true

// DetectColor enables color only when stdout is a terminal
func DetectColor() {
	Enabled = term.IsTerminal(int(os.Stdout.Fd()))
}

// Paint wraps text in color when colors are enabled
func Paint(color, text string) string {
	if !Enabled || color == "" {
		return text
	}
	return color + text + Reset
}

// Prompt returns a colored prompt string
func Prompt(text string) string {
	return Paint(Yellow, text+" > ")
}
