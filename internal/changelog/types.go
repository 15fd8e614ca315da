package changelog

// Document is a parsed CHANGELOG.md. Releases keep their order of appearance,
// newest first.
type Document struct {
	// Header is everything before the first release heading.
	Header   string    `yaml:"header,omitempty"`
	Releases []Release `yaml:"releases"`
}

// Release is a single "## [version] - date" section.
// Version is a bare semantic version (e.g., "0.6.0") or "Unreleased".
// Date is YYYY-MM-DD for released versions and empty for unreleased.
type Release struct {
	Version string  `yaml:"version"`
	Date    string  `yaml:"date,omitempty"`
	Changes Changes `yaml:"changes"`
}

// Changes groups change entries by Keep a Changelog category.
// All fields are optional; empty categories are omitted when rendering.
// Categories follow the Keep a Changelog specification:
// https://keepachangelog.com/en/1.1.0/
type Changes struct {
	Added      []string `yaml:"added,omitempty"`
	Changed    []string `yaml:"changed,omitempty"`
	Deprecated []string `yaml:"deprecated,omitempty"`
	Removed    []string `yaml:"removed,omitempty"`
	Fixed      []string `yaml:"fixed,omitempty"`
	Security   []string `yaml:"security,omitempty"`
}

// Entry represents a flattened view of a single changelog entry.
// This is used for querying and displaying individual entries,
// where the version and category context is needed alongside the text.
type Entry struct {
	Text     string   `yaml:"text"`
	Category Category `yaml:"category"`
	Version  string   `yaml:"version"`
}

// In returns the entries of one category.
func (c *Changes) In(cat Category) []string {
	switch cat {
	case Added:
		return c.Added
	case Changed:
		return c.Changed
	case Deprecated:
		return c.Deprecated
	case Removed:
		return c.Removed
	case Fixed:
		return c.Fixed
	case Security:
		return c.Security
	default:
		return nil
	}
}

// Add appends an entry to a category, preserving arrival order.
func (c *Changes) Add(cat Category, text string) {
	switch cat {
	case Added:
		c.Added = append(c.Added, text)
	case Deprecated:
		c.Deprecated = append(c.Deprecated, text)
	case Removed:
		c.Removed = append(c.Removed, text)
	case Fixed:
		c.Fixed = append(c.Fixed, text)
	case Security:
		c.Security = append(c.Security, text)
	default:
		c.Changed = append(c.Changed, text)
	}
}

// IsEmpty returns true if the Changes struct has no entries in any category.
func (c Changes) IsEmpty() bool {
	return c.Count() == 0
}

// Count returns the total number of entries across all categories.
func (c Changes) Count() int {
	return len(c.Added) +
		len(c.Changed) +
		len(c.Deprecated) +
		len(c.Removed) +
		len(c.Fixed) +
		len(c.Security)
}

// IsUnreleased returns true if this release holds unreleased changes.
func (r Release) IsUnreleased() bool {
	return NormalizeVersion(r.Version) == "unreleased"
}

// Entries returns a flattened list of all entries in this release,
// in category order.
func (r Release) Entries() []Entry {
	entries := make([]Entry, 0, r.Changes.Count())
	for _, cat := range Categories() {
		for _, text := range r.Changes.In(cat) {
			entries = append(entries, Entry{Text: text, Category: cat, Version: r.Version})
		}
	}
	return entries
}
