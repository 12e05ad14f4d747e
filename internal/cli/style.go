package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	stepStyle    = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	nameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

func step(w io.Writer, msg string) {
	fmt.Fprintln(w, stepStyle.Render(msg))
}

func success(w io.Writer, msg string) {
	fmt.Fprintln(w, successStyle.Render("✓ "+msg))
}

func detail(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, dimStyle.Render("  "+fmt.Sprintf(format, args...)))
}

// Failure formats an error for the terminal
func Failure(err error) string {
	return failureStyle.Render("✗ " + err.Error())
}
