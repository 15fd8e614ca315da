package strategy

import (
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"

	"github.com/ariel-frischer/bump/internal/version"
)

var rustVersionPattern = regexp.MustCompile(`(?m)^version\s*=\s*"([^"]+)"`)

// LockFile is refreshed after a Cargo.toml version change.
const LockFile = "Cargo.lock"

// Rust keeps the version in the top-level version key of Cargo.toml.
type Rust struct {
	manifest
	// runCommand refreshes the lock file; failures are ignored.
	runCommand func(dir, name string, args ...string) error
}

// NewRust returns a strategy editing the given Cargo manifests.
func NewRust(files []string) *Rust {
	return &Rust{
		manifest:   manifest{files: files, pattern: rustVersionPattern},
		runCommand: runInDir,
	}
}

func (r *Rust) Name() string { return PresetRust }

func (r *Rust) CurrentVersion() (version.Version, error) {
	return r.readVersion()
}

// ApplyVersion edits the manifests, then refreshes Cargo.lock next to the
// first manifest when it exists. The lock refresh is best effort.
func (r *Rust) ApplyVersion(v version.Version) ([]string, error) {
	updated, err := r.writeVersion(v)
	if err != nil {
		return nil, err
	}

	if len(r.files) == 0 {
		return updated, nil
	}

	dir := filepath.Dir(r.files[0])
	lock := filepath.Join(dir, LockFile)
	if _, err := os.Stat(lock); errors.Is(err, fs.ErrNotExist) {
		return updated, nil
	}

	_ = r.runCommand(dir, "cargo", "update", "--workspace")
	return append(updated, lock), nil
}

func runInDir(dir, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	return cmd.Run()
}
