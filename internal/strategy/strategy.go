// Package strategy reads the current version of a project and writes new
// versions back. Implementations differ only in where the version lives:
// the last release tag (git), a JSON manifest field (node) or a TOML
// manifest field (rust).
package strategy

import (
	"errors"
	"fmt"

	"github.com/ariel-frischer/bump/internal/git"
	"github.com/ariel-frischer/bump/internal/version"
)

// Preset names.
const (
	PresetGit  = "git"
	PresetNode = "node"
	PresetRust = "rust"
)

// Presets lists every supported preset.
var Presets = []string{PresetGit, PresetNode, PresetRust}

// ErrNotFound is returned when the expected version source is absent.
var ErrNotFound = errors.New("version source not found")

// NotFoundError names the missing source.
type NotFoundError struct {
	Path   string
	Reason string
}

func (e *NotFoundError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("%s: file not found", e.Path)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Strategy is the version source of one project ecosystem.
type Strategy interface {
	// Name returns the preset name.
	Name() string
	// CurrentVersion reads the version the project is at.
	CurrentVersion() (version.Version, error)
	// ApplyVersion writes v into the project's manifests and returns the
	// paths it changed.
	ApplyVersion(v version.Version) ([]string, error)
}

// TagSource finds the last release tag.
type TagSource interface {
	LastTag(prefix string) (*git.Tag, error)
}

// Options selects and configures a Strategy.
type Options struct {
	Preset       string
	Raw          bool
	TagPrefix    string
	PackageFiles []string
}

// DefaultPackageFiles returns the manifests a preset edits when none are
// configured.
func DefaultPackageFiles(preset string) []string {
	switch preset {
	case PresetNode:
		return []string{"package.json"}
	case PresetRust:
		return []string{"Cargo.toml"}
	default:
		return nil
	}
}

// Load selects the strategy for opts. Raw mode always reads from tags.
func Load(opts Options, tags TagSource) (Strategy, error) {
	if opts.Raw {
		return NewGit(tags, opts.TagPrefix), nil
	}

	files := opts.PackageFiles
	if len(files) == 0 {
		files = DefaultPackageFiles(opts.Preset)
	}

	switch opts.Preset {
	case PresetGit, "":
		return NewGit(tags, opts.TagPrefix), nil
	case PresetNode:
		return NewNode(files), nil
	case PresetRust:
		return NewRust(files), nil
	default:
		return nil, fmt.Errorf("unknown preset %q (expected one of %v)", opts.Preset, Presets)
	}
}
