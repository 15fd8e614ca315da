package changelog

import (
	"fmt"
	"strings"
)

// Lint rule identifiers, named after the markdownlint rules they mirror.
const (
	RuleMultipleBlanks = "no-multiple-blanks"
	RuleTrailingSpaces = "no-trailing-spaces"
	RuleBlanksHeadings = "blanks-around-headings"
	RuleBlanksLists    = "blanks-around-lists"
	RuleReleaseHeading = "release-heading"
)

// Issue is one structural problem in a changelog document.
type Issue struct {
	Line    int    `json:"line" yaml:"line"`
	Rule    string `json:"rule" yaml:"rule"`
	Message string `json:"message" yaml:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("line %d: %s (%s)", i.Line, i.Message, i.Rule)
}

// Lint reports every place where text breaks the layout rules Merge
// guarantees: single blank lines between blocks, blank lines around headings
// and lists, no trailing whitespace and well-formed release headings.
// A nil result means the document is clean.
func Lint(text string) []Issue {
	var issues []Issue
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")

	for i, line := range lines {
		n := i + 1
		prevBlank := i == 0 || lines[i-1] == ""
		nextBlank := i == len(lines)-1 || lines[i+1] == ""

		if line != strings.TrimRight(line, " \t") {
			issues = append(issues, Issue{Line: n, Rule: RuleTrailingSpaces, Message: "trailing whitespace"})
		}

		if line == "" && i > 0 && lines[i-1] == "" {
			issues = append(issues, Issue{Line: n, Rule: RuleMultipleBlanks, Message: "multiple consecutive blank lines"})
		}

		if strings.HasPrefix(line, "#") {
			if !prevBlank {
				issues = append(issues, Issue{Line: n, Rule: RuleBlanksHeadings, Message: "heading not preceded by a blank line"})
			}
			if !nextBlank {
				issues = append(issues, Issue{Line: n, Rule: RuleBlanksHeadings, Message: "heading not followed by a blank line"})
			}
		}

		if strings.HasPrefix(line, "## ") && !isValidReleaseHeading(line) {
			issues = append(issues, Issue{Line: n, Rule: RuleReleaseHeading, Message: fmt.Sprintf("malformed release heading %q", line)})
		}

		if isBullet(line) {
			if i > 0 && lines[i-1] != "" && !isBullet(lines[i-1]) && !isContinuation(lines[i-1]) {
				issues = append(issues, Issue{Line: n, Rule: RuleBlanksLists, Message: "list not preceded by a blank line"})
			}
			j := i + 1
			for j < len(lines) && isContinuation(lines[j]) {
				j++
			}
			if j < len(lines) && lines[j] != "" && !isBullet(lines[j]) {
				issues = append(issues, Issue{Line: n, Rule: RuleBlanksLists, Message: "list not followed by a blank line"})
			}
		}
	}

	return issues
}

func isBullet(line string) bool {
	return bulletPattern.MatchString(line)
}

func isContinuation(line string) bool {
	return strings.HasPrefix(line, "  ") && strings.TrimSpace(line) != ""
}

func isValidReleaseHeading(line string) bool {
	m := releaseHeadingPattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	r := Release{Version: m[1], Date: m[2]}
	return validateRelease(&r, 0) == nil
}
