package changelog

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ariel-frischer/bump/internal/commit"
	"github.com/ariel-frischer/bump/internal/version"
)

// DefaultFile is the conventional changelog location.
const DefaultFile = "CHANGELOG.md"

// DateLayout is the layout of release dates (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// Header is written when a changelog is created.
const Header = `# Changelog

All notable changes to this project will be documented in this file.

The format is based on [Keep a Changelog](https://keepachangelog.com/en/1.1.0/),
and this project adheres to [Semantic Versioning](https://semver.org/spec/v2.0.0.html).

`

// BreakingMarker prefixes the description of a breaking change.
const BreakingMarker = "**BREAKING:** "

// releaseHeadingMarker starts every release heading line.
const releaseHeadingMarker = "## ["

// Change is one categorized commit ready to render.
type Change struct {
	Category    Category
	Description string
}

// FormatDate renders t as a release date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Categorize classifies the lines that survive exclude and stable-sorts them
// by category, so equal categories keep their arrival order.
func Categorize(lines []string, exclude commit.Filter) []Change {
	commits := commit.ClassifyAll(commit.Keep(lines, exclude))
	changes := make([]Change, 0, len(commits))

	for _, c := range commits {
		desc := c.Description
		if c.Breaking {
			desc = BreakingMarker + desc
		}
		changes = append(changes, Change{Category: CategoryFor(c), Description: desc})
	}

	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Category < changes[j].Category
	})

	return changes
}

// NewRelease builds the release section for v from raw commit subjects.
func NewRelease(v version.Version, date string, lines []string, exclude commit.Filter) *Release {
	r := &Release{Version: v.String(), Date: date}
	for _, ch := range Categorize(lines, exclude) {
		r.Changes.Add(ch.Category, ch.Description)
	}
	return r
}

// Render returns the Markdown fragment for a new release of v. An empty date
// means today, so the heading always reads "## [x.y.z] - YYYY-MM-DD".
func Render(v version.Version, date string, lines []string, exclude commit.Filter) string {
	if date == "" {
		date = FormatDate(time.Now())
	}
	var b strings.Builder
	// strings.Builder never fails.
	_ = RenderRelease(NewRelease(v, date, lines, exclude), &b)
	return b.String()
}

// RenderRelease writes a single release section. The section always ends in
// a blank line so the next heading can follow directly.
func RenderRelease(r *Release, w io.Writer) error {
	if _, err := io.WriteString(w, formatReleaseHeader(r)+"\n"); err != nil {
		return err
	}

	for _, cat := range Categories() {
		entries := r.Changes.In(cat)
		if len(entries) == 0 {
			continue
		}
		if err := renderCategory(cat, entries, w); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "\n")
	return err
}

// formatReleaseHeader formats the release heading line.
func formatReleaseHeader(r *Release) string {
	if r.IsUnreleased() || r.Date == "" {
		return fmt.Sprintf("## [%s]", r.Version)
	}
	return fmt.Sprintf("## [%s] - %s", r.Version, r.Date)
}

// renderCategory writes a blank line, the category heading, a blank line and
// one bullet per entry.
func renderCategory(cat Category, entries []string, w io.Writer) error {
	if _, err := io.WriteString(w, "\n### "+cat.String()+"\n\n"); err != nil {
		return err
	}

	for _, entry := range entries {
		if _, err := io.WriteString(w, bulletLine(entry)+"\n"); err != nil {
			return err
		}
	}

	return nil
}

// bulletLine renders an entry as one bullet line without trailing
// whitespace. An empty description leaves a bare "-".
func bulletLine(s string) string {
	text := strings.Join(strings.Fields(s), " ")
	if text == "" {
		return "-"
	}
	return "- " + text
}

// Merge inserts fragment into an existing document above the newest release.
// An empty document gets the standard header first. A document without any
// release is extended at its end. Exactly one blank line separates the
// fragment from whatever precedes it.
func Merge(existing, fragment string) string {
	fragment = strings.TrimRight(fragment, " \t\r\n") + "\n\n"

	if strings.TrimSpace(existing) == "" {
		return Header + fragment
	}

	idx := releaseHeadingIndex(existing)
	if idx < 0 {
		return strings.TrimRight(existing, " \t\r\n") + "\n\n" + fragment
	}
	if idx == 0 {
		return fragment + existing
	}

	before := strings.TrimRight(existing[:idx], " \t\r\n")
	return before + "\n\n" + fragment + existing[idx:]
}

// releaseHeadingIndex returns the offset of the first release heading line,
// or -1 when there is none.
func releaseHeadingIndex(doc string) int {
	if strings.HasPrefix(doc, releaseHeadingMarker) {
		return 0
	}
	i := strings.Index(doc, "\n"+releaseHeadingMarker)
	if i < 0 {
		return -1
	}
	return i + 1
}

// WriteEntry renders a release for v and merges it into the changelog at
// path, creating the file when it does not exist.
func WriteEntry(path string, v version.Version, date string, lines []string, exclude commit.Filter) error {
	existing, err := ReadDocument(path)
	if err != nil {
		return err
	}

	updated := Merge(existing, Render(v, date, lines, exclude))

	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadDocument returns the changelog text at path, or "" when it does not exist.
func ReadDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
