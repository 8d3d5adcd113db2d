package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/casperkit/casperkit/internal/versions"
	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
)

var (
	Green  = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	Yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFCC66"))
	Red    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	Muted  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A"))
	Bold   = lipgloss.NewStyle().Bold(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)
)

// NewLogger returns a logger writing to w. Debug messages are shown only
// when verbose is set.
func NewLogger(w io.Writer, verbose bool) *pterm.Logger {
	level := pterm.LogLevelInfo
	if verbose {
		level = pterm.LogLevelDebug
	}
	return pterm.DefaultLogger.WithLevel(level).WithWriter(w)
}

// Warn prints a warning line to w.
func Warn(w io.Writer, msg string) {
	pterm.Warning.WithWriter(w).Println(msg)
}

// PrintError prints err to stderr.
func PrintError(err error) {
	pterm.Error.WithWriter(os.Stderr).Println(err.Error())
}

// Summary renders the outcome of a successful run: where the project was
// written and which dependency versions it pins.
func Summary(name, dir string, pins versions.PinSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", Green.Render("✓ Created"), Bold.Render(name))
	fmt.Fprintf(&b, "%s\n", Muted.Render(dir))

	width := 0
	for _, p := range pins {
		width = max(width, len(p.Name))
	}
	for _, p := range pins {
		line := fmt.Sprintf("\n%-*s %s", width, p.Name, p.Version)
		if p.Source != versions.SourceRegistry {
			line += " " + Muted.Render("("+string(p.Source)+")")
		}
		b.WriteString(line)
	}
	return BoxStyle.Render(b.String())
}

// NextSteps renders the commands that build and test a new project.
func NextSteps(dir string) string {
	steps := []string{
		"cd " + dir,
		"make prepare",
		"make test",
	}
	var b strings.Builder
	b.WriteString(Bold.Render("Next steps:"))
	for _, s := range steps {
		b.WriteString("\n  " + s)
	}
	return b.String()
}
