package output

import (
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// ChangelogDiff returns a line diff from before to after. Removed lines are
// prefixed "-", added lines "+", and unchanged lines two spaces. When
// contextLines is >= 0, runs of unchanged lines longer than twice that are
// collapsed to "  ..." between their first and last contextLines lines.
func ChangelogDiff(before, after string, contextLines int) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	red := color.New(color.FgRed).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	var sb strings.Builder
	for _, d := range diffs {
		text := splitLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			for _, l := range text {
				sb.WriteString(red("-"+l) + "\n")
			}
		case diffmatchpatch.DiffInsert:
			for _, l := range text {
				sb.WriteString(green("+"+l) + "\n")
			}
		case diffmatchpatch.DiffEqual:
			for _, l := range collapse(text, contextLines) {
				sb.WriteString(l + "\n")
			}
		}
	}
	return sb.String()
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func collapse(lines []string, context int) []string {
	out := make([]string, 0, len(lines))
	if context < 0 || len(lines) <= 2*context+1 {
		for _, l := range lines {
			out = append(out, "  "+l)
		}
		return out
	}
	for _, l := range lines[:context] {
		out = append(out, "  "+l)
	}
	out = append(out, "  ...")
	for _, l := range lines[len(lines)-context:] {
		out = append(out, "  "+l)
	}
	return out
}
