// Package analyzer turns a list of commit subjects into a single release
// decision: the largest version increment any commit justifies, the commits
// that justified it, and the commits whose type the severity table does not
// know.
package analyzer

import (
	"fmt"

	"github.com/ariel-frischer/bump/internal/commit"
	"github.com/ariel-frischer/bump/internal/version"
)

// Severity is the version increment a commit justifies.
// Ordered None < Patch < Minor < Major.
type Severity = version.Increment

const (
	None  = version.None
	Patch = version.Patch
	Minor = version.Minor
	Major = version.Major
)

// SeverityTable maps a conventional type token to the increment it justifies.
type SeverityTable map[string]Severity

// DefaultSeverityTable returns the Conventional Commits defaults.
func DefaultSeverityTable() SeverityTable {
	return SeverityTable{
		"feat":     Minor,
		"fix":      Patch,
		"build":    None,
		"chore":    None,
		"ci":       None,
		"docs":     None,
		"style":    None,
		"refactor": None,
		"perf":     None,
		"test":     None,
	}
}

// ParseSeverity parses a configured severity. Major is rejected: it is only
// reachable through a breaking change marker.
func ParseSeverity(s string) (Severity, error) {
	sev, err := version.ParseIncrement(s)
	if err != nil {
		return None, err
	}
	if sev == Major {
		return None, fmt.Errorf("severity %q cannot be configured, use a breaking change marker", s)
	}
	return sev, nil
}

// Lookup returns the severity for a type and whether the type is configured.
func (t SeverityTable) Lookup(typ string) (Severity, bool) {
	s, ok := t[typ]
	return s, ok
}

// Scored is a classified commit with its individual severity.
type Scored struct {
	commit.Commit `yaml:",inline"`
	Severity      Severity `json:"severity" yaml:"severity"`
	// Unknown is set when the commit has a type token missing from the table.
	Unknown bool `json:"unknown,omitempty" yaml:"unknown,omitempty"`
}

// Analysis is the aggregated release decision.
type Analysis struct {
	// Bump is the maximum severity over all considered commits.
	Bump Severity `json:"bump" yaml:"bump"`
	// Triggering holds, in input order, every commit whose severity equals Bump.
	// Empty when Bump is None.
	Triggering []string `json:"triggering" yaml:"triggering"`
	// Unknown holds, in input order, commits whose type is not in the table.
	Unknown []string `json:"unknown" yaml:"unknown"`
	// Considered holds every commit that survived exclusion, scored.
	Considered []Scored `json:"considered" yaml:"considered"`
}

// ReleaseNeeded reports whether the analysis justifies a new version.
func (a Analysis) ReleaseNeeded() bool {
	return a.Bump != None
}

// Score computes the severity of one classified commit.
// Breaking commits are Major regardless of type. Invalid lines are None and
// never unknown, since they carry no type token.
func Score(c commit.Commit, table SeverityTable) Scored {
	s := Scored{Commit: c}
	switch {
	case !c.Valid:
		s.Severity = None
	case c.Breaking:
		s.Severity = Major
	default:
		sev, ok := table.Lookup(c.Type)
		if !ok {
			s.Unknown = true
		}
		s.Severity = sev
	}
	return s
}

// Resolve drops excluded lines, classifies and scores the rest, and aggregates
// them into one decision. The result preserves input order throughout.
func Resolve(lines []string, table SeverityTable, exclude commit.Filter) Analysis {
	kept := commit.Keep(lines, exclude)

	a := Analysis{
		Bump:       None,
		Triggering: []string{},
		Unknown:    []string{},
		Considered: make([]Scored, 0, len(kept)),
	}

	for _, c := range commit.ClassifyAll(kept) {
		s := Score(c, table)
		a.Considered = append(a.Considered, s)
		if s.Unknown {
			a.Unknown = append(a.Unknown, c.Raw)
		}
		if s.Severity > a.Bump {
			a.Bump = s.Severity
		}
	}

	if a.Bump == None {
		return a
	}

	for _, s := range a.Considered {
		if s.Severity == a.Bump {
			a.Triggering = append(a.Triggering, s.Raw)
		}
	}

	return a
}
