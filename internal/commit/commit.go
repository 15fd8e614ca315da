// Package commit classifies commit subject lines against the Conventional
// Commits grammar. Classification is pure and total: lines that do not match
// degrade to an invalid Commit that keeps the original text.
package commit

import (
	"regexp"
	"strings"
)

// conventionalPattern matches "type(scope)!: description".
// Groups: 1 type, 2 scope, 3 breaking marker, 4 description.
var conventionalPattern = regexp.MustCompile(`^([a-z]+)(?:\(([^)]+)\))?(!)?: (.+)$`)

// Commit is the classification of one subject line.
type Commit struct {
	// Raw is the subject line exactly as supplied.
	Raw string `json:"raw" yaml:"raw"`
	// Type is the lowercase conventional type token; empty when !Valid.
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
	// Scope is captured for completeness but never used for decisions.
	Scope string `json:"scope,omitempty" yaml:"scope,omitempty"`
	// Breaking is set when "!" precedes the colon.
	Breaking bool `json:"breaking,omitempty" yaml:"breaking,omitempty"`
	// Description is the text after ": ", or the whole line when !Valid.
	Description string `json:"description" yaml:"description"`
	// Valid reports whether the line matched the conventional grammar.
	Valid bool `json:"valid" yaml:"valid"`
}

// Classify parses a single subject line.
func Classify(line string) Commit {
	m := conventionalPattern.FindStringSubmatch(line)
	if m == nil {
		return Commit{Raw: line, Description: line}
	}

	return Commit{
		Raw:         line,
		Type:        m[1],
		Scope:       m[2],
		Breaking:    m[3] == "!",
		Description: m[4],
		Valid:       true,
	}
}

// ClassifyAll classifies lines preserving their order.
func ClassifyAll(lines []string) []Commit {
	out := make([]Commit, len(lines))
	for i, l := range lines {
		out[i] = Classify(l)
	}
	return out
}

// Self-commit markers written by the tool itself.
const (
	BumpVersionPrefix = "chore: bump version"
	SyncPackagePrefix = "chore: sync package"
)

// DefaultSelfPrefixes are the prefixes of commits produced by previous runs.
var DefaultSelfPrefixes = []string{BumpVersionPrefix, SyncPackagePrefix}

// Filter reports whether a raw subject line must be dropped before analysis.
type Filter func(line string) bool

// PrefixFilter returns a Filter matching any of the literal prefixes.
// Empty prefixes are ignored so they never match every line.
func PrefixFilter(prefixes ...string) Filter {
	ps := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if p != "" {
			ps = append(ps, p)
		}
	}
	return func(line string) bool {
		for _, p := range ps {
			if strings.HasPrefix(line, p) {
				return true
			}
		}
		return false
	}
}

// SelfCommitFilter matches the default self-commit prefixes plus extra ones
// (for example a custom commit_prefix).
func SelfCommitFilter(extra ...string) Filter {
	return PrefixFilter(append(append([]string{}, DefaultSelfPrefixes...), extra...)...)
}

// Keep returns the lines not matched by exclude, in order. A nil exclude keeps all.
func Keep(lines []string, exclude Filter) []string {
	kept := make([]string, 0, len(lines))
	for _, l := range lines {
		if exclude != nil && exclude(l) {
			continue
		}
		kept = append(kept, l)
	}
	return kept
}
