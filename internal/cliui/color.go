// Package cliui provides the cachelens CLI's color output helpers, the
// same small surface the teacher's internal/ui package offers: colors that
// respect --no-color and NO_COLOR, and are disabled automatically when
// stdout isn't a TTY (fatih/color handles that part itself).
package cliui

import "github.com/fatih/color"

var (
	Red    = color.New(color.FgRed)
	Yellow = color.New(color.FgYellow)
	Green  = color.New(color.FgGreen)
	Cyan   = color.New(color.FgCyan)
	Bold   = color.New(color.Bold)
	Dim    = color.New(color.Faint)
)

// Init configures global color output based on the --no-color flag.
func Init(noColor bool) {
	color.NoColor = noColor
}

// Error prints a red error message with an X prefix to color.Output, which
// is standard output.
func Error(msg string) {
	_, _ = Red.Println("✗ " + msg)
}

// Errorf is the formatted form of Error.
func Errorf(format string, args ...any) {
	_, _ = Red.Printf("✗ "+format+"\n", args...)
}

// Success prints a green success message with a checkmark prefix.
func Success(msg string) {
	_, _ = Green.Println("✓ " + msg)
}

// Label returns a bold-formatted label string for inline use in a table row.
func Label(text string) string {
	return Bold.Sprint(text)
}

// DimText returns a dim-formatted string for less important text such as
// file paths.
func DimText(text string) string {
	return Dim.Sprint(text)
}
