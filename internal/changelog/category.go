package changelog

import (
	"strings"

	"github.com/ariel-frischer/bump/internal/commit"
)

// Category is a Keep a Changelog section. The constants are declared in
// rendering order, which is also the sort order.
type Category int

const (
	Added Category = iota
	Changed
	Deprecated
	Removed
	Fixed
	Security
)

var categoryNames = [...]string{"Added", "Changed", "Deprecated", "Removed", "Fixed", "Security"}

// String returns the heading text ("Added").
func (c Category) String() string {
	if c < Added || c > Security {
		return "Unknown"
	}
	return categoryNames[c]
}

// Key returns the lowercase name used in structured output ("added").
func (c Category) Key() string {
	return strings.ToLower(c.String())
}

// Categories returns every category in rendering order.
func Categories() []Category {
	return []Category{Added, Changed, Deprecated, Removed, Fixed, Security}
}

// ParseCategory matches a heading or key name case-insensitively.
func ParseCategory(name string) (Category, bool) {
	for _, c := range Categories() {
		if strings.EqualFold(c.String(), strings.TrimSpace(name)) {
			return c, true
		}
	}
	return Changed, false
}

// typeCategories maps conventional types to sections. Anything absent,
// including non-conventional lines, lands in Changed.
var typeCategories = map[string]Category{
	"feat":     Added,
	"fix":      Fixed,
	"perf":     Changed,
	"refactor": Changed,
	"revert":   Removed,
	"security": Security,
}

// CategoryFor returns the section for a classified commit.
// Breaking commits always go to Changed.
func CategoryFor(c commit.Commit) Category {
	if c.Breaking {
		return Changed
	}
	if cat, ok := typeCategories[c.Type]; ok {
		return cat
	}
	return Changed
}

// MarshalText implements encoding.TextMarshaler using Key.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.Key()), nil
}
