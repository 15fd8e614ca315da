package strategy

import (
	"regexp"

	"github.com/ariel-frischer/bump/internal/version"
)

var nodeVersionPattern = regexp.MustCompile(`"version"\s*:\s*"([^"]+)"`)

// Node keeps the version in the "version" field of JSON manifests such as
// package.json. The first configured file is the source of truth.
type Node struct {
	manifest
}

// NewNode returns a strategy editing the given JSON manifests.
func NewNode(files []string) *Node {
	return &Node{manifest{files: files, pattern: nodeVersionPattern}}
}

func (n *Node) Name() string { return PresetNode }

func (n *Node) CurrentVersion() (version.Version, error) {
	return n.readVersion()
}

func (n *Node) ApplyVersion(v version.Version) ([]string, error) {
	return n.writeVersion(v)
}
