// Package testutil provides test helpers shared by bump's packages.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// TestAuthor is the identity used for commits and tags made by Repo.
var TestAuthor = object.Signature{Name: "Test", Email: "test@test.com"}

// Repo is a throwaway repository in a temp directory, built with go-git.
type Repo struct {
	t    *testing.T
	Dir  string
	Repo *git.Repository
	n    int
	when time.Time
}

// NewRepo initializes an empty repository with a local identity configured.
func NewRepo(t *testing.T) *Repo {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	cfg, err := repo.Config()
	require.NoError(t, err)
	cfg.User.Name = TestAuthor.Name
	cfg.User.Email = TestAuthor.Email
	require.NoError(t, repo.SetConfig(cfg))

	return &Repo{
		t:    t,
		Dir:  dir,
		Repo: repo,
		when: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Path joins name onto the repository directory.
func (r *Repo) Path(name string) string {
	return filepath.Join(r.Dir, name)
}

// WriteFile writes a file relative to the repository root.
func (r *Repo) WriteFile(name, content string) {
	r.t.Helper()
	path := r.Path(name)
	require.NoError(r.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(r.t, os.WriteFile(path, []byte(content), 0o644))
}

// Commit records a commit with message that touches a scratch file.
// Each commit is one minute after the previous one so history order is
// deterministic.
func (r *Repo) Commit(message string) plumbing.Hash {
	r.t.Helper()

	r.n++
	r.WriteFile("scratch.txt", fmt.Sprintf("change %d\n", r.n))
	return r.CommitFiles(message, "scratch.txt")
}

// CommitFiles stages the named files and records a commit.
func (r *Repo) CommitFiles(message string, files ...string) plumbing.Hash {
	r.t.Helper()

	wt, err := r.Repo.Worktree()
	require.NoError(r.t, err)
	for _, f := range files {
		_, err := wt.Add(f)
		require.NoError(r.t, err)
	}

	r.when = r.when.Add(time.Minute)
	sig := TestAuthor
	sig.When = r.when

	hash, err := wt.Commit(message, &git.CommitOptions{Author: &sig, Committer: &sig})
	require.NoError(r.t, err)
	return hash
}

// Tag creates a lightweight tag at HEAD.
func (r *Repo) Tag(name string) {
	r.t.Helper()
	r.tag(name, nil)
}

// AnnotatedTag creates an annotated tag at HEAD.
func (r *Repo) AnnotatedTag(name, message string) {
	r.t.Helper()
	sig := TestAuthor
	sig.When = r.when
	r.tag(name, &git.CreateTagOptions{Tagger: &sig, Message: message})
}

func (r *Repo) tag(name string, opts *git.CreateTagOptions) {
	head, err := r.Repo.Head()
	require.NoError(r.t, err)
	_, err = r.Repo.CreateTag(name, head.Hash(), opts)
	require.NoError(r.t, err)
}

// HeadMessage returns the full message of the HEAD commit.
func (r *Repo) HeadMessage() string {
	r.t.Helper()
	head, err := r.Repo.Head()
	require.NoError(r.t, err)
	c, err := r.Repo.CommitObject(head.Hash())
	require.NoError(r.t, err)
	return c.Message
}

// TagTarget returns the commit hash a tag points at, peeling annotated tags.
func (r *Repo) TagTarget(name string) plumbing.Hash {
	r.t.Helper()
	ref, err := r.Repo.Tag(name)
	require.NoError(r.t, err)
	if obj, err := r.Repo.TagObject(ref.Hash()); err == nil {
		c, err := obj.Commit()
		require.NoError(r.t, err)
		return c.Hash
	}
	return ref.Hash()
}

// Head returns the HEAD commit hash.
func (r *Repo) Head() plumbing.Hash {
	r.t.Helper()
	head, err := r.Repo.Head()
	require.NoError(r.t, err)
	return head.Hash()
}

// Chdir switches the working directory to the repository for the rest of
// the test.
func (r *Repo) Chdir() {
	r.t.Helper()
	r.t.Chdir(r.Dir)
}
