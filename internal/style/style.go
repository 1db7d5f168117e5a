// Package style is the shared lipgloss palette for gw output: status
// rows, pass summaries, and the interactive picker all render through
// these so the three surfaces stay visually consistent.
package style

import "github.com/charmbracelet/lipgloss"

// ANSI palette slots. Kept to the 16-color range so output degrades
// sanely on minimal terminals.
const (
	colorGreen   = lipgloss.Color("2")
	colorYellow  = lipgloss.Color("3")
	colorRed     = lipgloss.Color("1")
	colorBlue    = lipgloss.Color("4")
	colorCyan    = lipgloss.Color("6")
	colorMagenta = lipgloss.Color("5")
	colorGray    = lipgloss.Color("8")
)

var (
	// Success marks resolved repositories and completed writes.
	Success = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)

	// Warning marks policy violations that still need attention.
	Warning = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)

	// Error marks failed git writes and settings I/O errors.
	Error = lipgloss.NewStyle().Foreground(colorRed).Bold(true)

	// Info is for neutral progress lines.
	Info = lipgloss.NewStyle().Foreground(colorBlue)

	// Dim de-emphasizes paths, hints, and secondary columns.
	Dim = lipgloss.NewStyle().Foreground(colorGray)

	// Bold is plain emphasis, used for identity names.
	Bold = lipgloss.NewStyle().Bold(true)

	// Email renders addresses in pick lists and status rows.
	Email = lipgloss.NewStyle().Foreground(colorCyan)

	// Selected highlights the active row in pickers and forms.
	Selected = lipgloss.NewStyle().Foreground(colorMagenta).Bold(true)
)

// Pre-rendered line prefixes.
var (
	SuccessPrefix = Success.Render("✓")
	WarningPrefix = Warning.Render("⚠")
	ErrorPrefix   = Error.Render("✗")
	ArrowPrefix   = Info.Render("→")
)
