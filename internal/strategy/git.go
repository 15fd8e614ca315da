package strategy

import (
	"fmt"

	"github.com/ariel-frischer/bump/internal/version"
)

// Git reads the version from the last release tag and owns no files.
type Git struct {
	tags   TagSource
	prefix string
}

// NewGit returns a tag-based strategy.
func NewGit(tags TagSource, tagPrefix string) *Git {
	return &Git{tags: tags, prefix: tagPrefix}
}

func (g *Git) Name() string { return PresetGit }

// CurrentVersion returns the last tag's version, or 0.0.0 for a repository
// that has never been released.
func (g *Git) CurrentVersion() (version.Version, error) {
	tag, err := g.tags.LastTag(g.prefix)
	if err != nil {
		return version.Version{}, fmt.Errorf("reading last tag: %w", err)
	}
	if tag == nil {
		return version.Version{}, nil
	}
	return tag.Version, nil
}

// ApplyVersion changes nothing; the new tag is the new version.
func (g *Git) ApplyVersion(version.Version) ([]string, error) {
	return nil, nil
}
