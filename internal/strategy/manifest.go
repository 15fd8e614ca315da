package strategy

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"golang.org/x/sync/errgroup"

	"github.com/ariel-frischer/bump/internal/version"
)

// manifest edits the version field of text manifests matched by pattern.
// The pattern's first group is the version value.
type manifest struct {
	files   []string
	pattern *regexp.Regexp
}

// readVersion parses the first version field of the first manifest.
func (m *manifest) readVersion() (version.Version, error) {
	if len(m.files) == 0 {
		return version.Version{}, &NotFoundError{Path: "(none)", Reason: "no package files configured"}
	}

	path := m.files[0]
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return version.Version{}, &NotFoundError{Path: path}
		}
		return version.Version{}, fmt.Errorf("reading %s: %w", path, err)
	}

	match := m.pattern.FindSubmatch(data)
	if match == nil {
		return version.Version{}, &NotFoundError{Path: path, Reason: "no version field"}
	}

	v, err := version.Parse(string(match[1]))
	if err != nil {
		return version.Version{}, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// writeVersion replaces the first version value in every existing manifest.
// Missing manifests and manifests without a version field are skipped.
// Files are processed concurrently; the result keeps configuration order.
func (m *manifest) writeVersion(v version.Version) ([]string, error) {
	touched := make([]bool, len(m.files))

	var g errgroup.Group
	for i, path := range m.files {
		g.Go(func() error {
			ok, err := m.rewrite(path, v.String())
			touched[i] = ok
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var updated []string
	for i, path := range m.files {
		if touched[i] {
			updated = append(updated, path)
		}
	}
	return updated, nil
}

// rewrite substitutes the first version value in path. It reports whether
// the file holds a version field.
func (m *manifest) rewrite(path, value string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("checking %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	loc := m.pattern.FindSubmatchIndex(data)
	if loc == nil {
		return false, nil
	}

	out := make([]byte, 0, len(data)+len(value))
	out = append(out, data[:loc[2]]...)
	out = append(out, value...)
	out = append(out, data[loc[3]:]...)

	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
