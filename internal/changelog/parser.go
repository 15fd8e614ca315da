package changelog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

var (
	releaseHeadingPattern  = regexp.MustCompile(`^## \[([^\]]+)\](?: - (\S+))?\s*$`)
	categoryHeadingPattern = regexp.MustCompile(`^### (.+?)\s*$`)
	bulletPattern          = regexp.MustCompile(`^[-*](?: (.*))?$`)
	linkReferencePattern   = regexp.MustCompile(`^\[[^\]]+\]: \S+`)
	semverPattern          = regexp.MustCompile(`^\d+\.\d+\.\d+(-[a-zA-Z0-9.-]+)?(\+[a-zA-Z0-9.-]+)?$`)
	datePattern            = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ValidationError represents a changelog validation error with context.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Load reads and validates a CHANGELOG.md file from the given path.
// Returns the parsed Document or an error with context.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening changelog file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// ParseString is a convenience wrapper around Parse.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Parse reads a Keep a Changelog Markdown document. Text before the first
// release heading is kept as the header; link reference definitions are
// ignored; indented continuation lines are joined onto the previous bullet.
func Parse(r io.Reader) (*Document, error) {
	doc := &Document{}
	var (
		header  strings.Builder
		current *Release
		cat     Category
		hasCat  bool
		lineNo  int
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), " \t\r")

		if m := releaseHeadingPattern.FindStringSubmatch(line); m != nil {
			doc.Releases = append(doc.Releases, Release{Version: m[1], Date: m[2]})
			current = &doc.Releases[len(doc.Releases)-1]
			hasCat = false
			continue
		}

		if current == nil {
			header.WriteString(line)
			header.WriteString("\n")
			continue
		}

		switch {
		case line == "" || linkReferencePattern.MatchString(line):
			continue
		case categoryHeadingPattern.MatchString(line):
			name := categoryHeadingPattern.FindStringSubmatch(line)[1]
			c, ok := ParseCategory(name)
			if !ok {
				return nil, &ValidationError{
					Field:   fmt.Sprintf("line %d", lineNo),
					Message: fmt.Sprintf("unknown category %q", name),
				}
			}
			cat, hasCat = c, true
		case bulletPattern.MatchString(line):
			if !hasCat {
				return nil, &ValidationError{
					Field:   fmt.Sprintf("line %d", lineNo),
					Message: "list entry outside of a category",
				}
			}
			current.Changes.Add(cat, bulletPattern.FindStringSubmatch(line)[1])
		case strings.HasPrefix(line, "  ") && hasCat:
			appendContinuation(&current.Changes, cat, strings.TrimSpace(line))
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading changelog: %w", err)
	}

	doc.Header = header.String()

	if err := Validate(doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// appendContinuation joins a wrapped line onto the last entry of a category.
func appendContinuation(c *Changes, cat Category, text string) {
	entries := c.In(cat)
	if len(entries) == 0 {
		return
	}
	entries[len(entries)-1] += " " + text
}

// Validate checks that a Document satisfies the release constraints.
// Returns nil if valid, or a ValidationError with details if invalid.
func Validate(d *Document) error {
	unreleasedCount := 0
	seenVersions := make(map[string]bool)

	for i, r := range d.Releases {
		if err := validateRelease(&r, i); err != nil {
			return err
		}

		normalizedVersion := NormalizeVersion(r.Version)
		if seenVersions[normalizedVersion] {
			return &ValidationError{
				Field:   fmt.Sprintf("releases[%d].version", i),
				Message: fmt.Sprintf("duplicate version %q", r.Version),
			}
		}
		seenVersions[normalizedVersion] = true

		if r.IsUnreleased() {
			unreleasedCount++
		}
	}

	if unreleasedCount > 1 {
		return &ValidationError{
			Field:   "releases",
			Message: "only one 'Unreleased' section is allowed",
		}
	}

	return nil
}

// validateRelease checks constraints for a single release section.
func validateRelease(r *Release, index int) error {
	if r.IsUnreleased() {
		return nil
	}

	if !semverPattern.MatchString(NormalizeVersion(r.Version)) {
		return &ValidationError{
			Field:   fmt.Sprintf("releases[%d].version", index),
			Message: fmt.Sprintf("invalid semver format %q (expected: X.Y.Z)", r.Version),
		}
	}

	if r.Date == "" {
		return &ValidationError{
			Field:   fmt.Sprintf("releases[%d].date", index),
			Message: "date is required for released versions",
		}
	}

	if !datePattern.MatchString(r.Date) {
		return &ValidationError{
			Field:   fmt.Sprintf("releases[%d].date", index),
			Message: fmt.Sprintf("invalid date format %q (expected: YYYY-MM-DD)", r.Date),
		}
	}

	return nil
}

// NormalizeVersion normalizes a version string by removing the "v" prefix.
// This allows accepting both "v0.6.0" and "0.6.0" as input.
func NormalizeVersion(version string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(version)), "v")
}

// IsValidationError returns true if the error is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
