// Package output provides terminal output helpers for bump's reports.
// This package is designed to have minimal dependencies to avoid import cycles.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/ariel-frischer/bump/internal/version"
)

// GetTerminalWidth returns the terminal width, defaulting to 80 if unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

var incrementColors = map[version.Increment]*color.Color{
	version.None:  color.New(color.Faint),
	version.Patch: color.New(color.FgGreen, color.Bold),
	version.Minor: color.New(color.FgCyan, color.Bold),
	version.Major: color.New(color.FgRed, color.Bold),
}

// BumpLabel returns the upper-case increment name ("MINOR"), colored by size.
func BumpLabel(inc version.Increment) string {
	label := strings.ToUpper(inc.String())
	if c, ok := incrementColors[inc]; ok {
		return c.Sprint(label)
	}
	return label
}

// PrintList prints each item as an indented bullet.
func PrintList(out io.Writer, items []string) {
	for _, item := range items {
		fmt.Fprintf(out, "  - %s\n", item)
	}
}

// PrintTriggering lists the commits that decided a release, each labelled
// with the increment it justifies ("Minor: feat: add export").
func PrintTriggering(out io.Writer, bump version.Increment, commits []string) {
	labelled := make([]string, len(commits))
	for i, c := range commits {
		labelled[i] = bump.Label() + ": " + c
	}
	PrintList(out, labelled)
}

// PrintWarning prints a yellow warning line followed by optional bullets.
func PrintWarning(out io.Writer, message string, items ...string) {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintln(out, yellow("Warning: "+message))
	PrintList(out, items)
}

// PrintSuccess prints a message with a green checkmark.
func PrintSuccess(out io.Writer, message string) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", green("✓"), message)
}

// PrintHeading prints a bold section heading.
func PrintHeading(out io.Writer, heading string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintln(out, bold(heading))
}
