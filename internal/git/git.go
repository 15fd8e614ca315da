// Package git provides the repository operations bump needs: locating the
// last release tag, listing commit subjects since that tag, committing
// touched files, creating and moving tags, and pushing. All operations go
// through the go-git library; no git binary is required.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"

	"github.com/ariel-frischer/bump/internal/version"
)

// ErrNotRepository is returned when no repository encloses the working path.
var ErrNotRepository = errors.New("not a git repository")

// ErrNoIdentity is returned when a commit or annotated tag needs an author
// and neither local nor global config provides one.
var ErrNoIdentity = errors.New("git identity is not configured")

// DefaultRemote is the remote pushed to.
const DefaultRemote = "origin"

// DefaultPushTimeout bounds a push when the caller's context has no deadline.
const DefaultPushTimeout = 60 * time.Second

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Repo is an open repository with a working tree.
type Repo struct {
	repo *git.Repository
	root string
}

// Tag is a release tag whose name is a prefix followed by a strict
// semantic version.
type Tag struct {
	Name    string
	Version version.Version
	Commit  plumbing.Hash
}

// Open opens the repository enclosing path, or the current working directory
// when path is empty. Parent directories are searched for .git.
func Open(path string) (*Repo, error) {
	repo, err := openRepo(path)
	if err != nil {
		return nil, err
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}

	return &Repo{repo: repo, root: wt.Filesystem.Root()}, nil
}

// openRepo opens a git repository at the specified path or current working directory.
// It uses go-git's PlainOpenWithOptions with DetectDotGit enabled to traverse
// up the directory tree to find the repository root.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, path)
		}
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	logDebug("[git] repository opened successfully")
	return repo, nil
}

// EnsureIdentity sets user.name and user.email in the repository's local
// configuration, each only when it is not already set there.
func (r *Repo) EnsureIdentity(name, email string) error {
	cfg, err := r.repo.Config()
	if err != nil {
		return fmt.Errorf("reading repository config: %w", err)
	}

	changed := false
	if cfg.User.Name == "" && name != "" {
		cfg.User.Name = name
		changed = true
	}
	if cfg.User.Email == "" && email != "" {
		cfg.User.Email = email
		changed = true
	}
	if !changed {
		return nil
	}

	logDebug("[git] EnsureIdentity: %s <%s>", cfg.User.Name, cfg.User.Email)
	if err := r.repo.SetConfig(cfg); err != nil {
		return fmt.Errorf("writing repository config: %w", err)
	}
	return nil
}

// signature returns the committer identity from local, then global config.
func (r *Repo) signature() (*object.Signature, error) {
	cfg, err := r.repo.ConfigScoped(config.GlobalScope)
	if err != nil {
		return nil, fmt.Errorf("reading git identity: %w", err)
	}
	if cfg.User.Name == "" || cfg.User.Email == "" {
		return nil, fmt.Errorf("%w (set user.name and user.email)", ErrNoIdentity)
	}
	return &object.Signature{Name: cfg.User.Name, Email: cfg.User.Email, When: time.Now()}, nil
}

// tagsByCommit maps commit hashes to the release tags pointing at them.
// Annotated tags are peeled to their target commit. Tags whose name is not
// prefix followed by a strict X.Y.Z version are skipped.
func (r *Repo) tagsByCommit(prefix string) (map[plumbing.Hash][]Tag, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	byCommit := make(map[plumbing.Hash][]Tag)
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		v, ok := parseTagVersion(name, prefix)
		if !ok {
			return nil
		}

		hash := ref.Hash()
		if obj, err := r.repo.TagObject(hash); err == nil {
			c, err := obj.Commit()
			if err != nil {
				logDebug("[git] tag %s does not point at a commit: %v", name, err)
				return nil
			}
			hash = c.Hash
		}

		byCommit[hash] = append(byCommit[hash], Tag{Name: name, Version: v, Commit: hash})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}

	return byCommit, nil
}

// parseTagVersion strips prefix from name and parses a strict release
// version. Prereleases and build metadata are rejected.
func parseTagVersion(name, prefix string) (version.Version, bool) {
	rest, ok := strings.CutPrefix(name, prefix)
	if !ok {
		return version.Version{}, false
	}

	sv, err := semver.StrictNewVersion(rest)
	if err != nil || sv.Prerelease() != "" || sv.Metadata() != "" {
		return version.Version{}, false
	}

	return version.New(sv.Major(), sv.Minor(), sv.Patch()), true
}

// LastTag returns the nearest release tag reachable from HEAD, walking
// history newest first. When one commit carries several release tags the
// highest version wins. Returns nil without error when there is none.
func (r *Repo) LastTag(prefix string) (*Tag, error) {
	tags, err := r.tagsByCommit(prefix)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		logDebug("[git] LastTag: no tags with prefix %q", prefix)
		return nil, nil
	}

	head, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting HEAD reference: %w", err)
	}

	iter, err := r.repo.Log(&git.LogOptions{From: head.Hash(), Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	defer iter.Close()

	var found *Tag
	err = iter.ForEach(func(c *object.Commit) error {
		candidates, ok := tags[c.Hash]
		if !ok {
			return nil
		}
		best := candidates[0]
		for _, t := range candidates[1:] {
			if best.Version.Less(t.Version) {
				best = t
			}
		}
		found = &best
		return storer.ErrStop
	})
	if err != nil {
		return nil, fmt.Errorf("walking history: %w", err)
	}

	if found != nil {
		logDebug("[git] LastTag: %s at %s", found.Name, found.Commit)
	}
	return found, nil
}

// CommitsSince returns the subject lines of commits reachable from HEAD but
// not from tag, newest first. An empty tag lists the whole history.
// A repository without commits yields no subjects.
func (r *Repo) CommitsSince(tag string) ([]string, error) {
	head, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting HEAD reference: %w", err)
	}

	seen := make(map[plumbing.Hash]bool)
	if tag != "" {
		base, err := r.resolveTag(tag)
		if err != nil {
			return nil, err
		}
		if err := r.walk(base, func(c *object.Commit) { seen[c.Hash] = true }); err != nil {
			return nil, err
		}
	}

	var subjects []string
	err = r.walk(head.Hash(), func(c *object.Commit) {
		if seen[c.Hash] {
			return
		}
		if s := subject(c.Message); s != "" {
			subjects = append(subjects, s)
		}
	})
	if err != nil {
		return nil, err
	}

	logDebug("[git] CommitsSince(%q): %d commits", tag, len(subjects))
	return subjects, nil
}

// resolveTag returns the commit a tag name points at.
func (r *Repo) resolveTag(name string) (plumbing.Hash, error) {
	ref, err := r.repo.Tag(name)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolving tag %s: %w", name, err)
	}
	if obj, err := r.repo.TagObject(ref.Hash()); err == nil {
		c, err := obj.Commit()
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("resolving tag %s: %w", name, err)
		}
		return c.Hash, nil
	}
	return ref.Hash(), nil
}

func (r *Repo) walk(from plumbing.Hash, fn func(*object.Commit)) error {
	iter, err := r.repo.Log(&git.LogOptions{From: from, Order: git.LogOrderCommitterTime})
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}
	defer iter.Close()

	if err := iter.ForEach(func(c *object.Commit) error {
		fn(c)
		return nil
	}); err != nil {
		return fmt.Errorf("walking history: %w", err)
	}
	return nil
}

// subject returns the first line of a commit message.
func subject(message string) string {
	line, _, _ := strings.Cut(strings.TrimLeft(message, "\n"), "\n")
	return strings.TrimSpace(line)
}

// Commit stages files and records a commit with message. Paths may be
// absolute or relative to the working directory. No commit is made for an
// empty file list.
func (r *Repo) Commit(files []string, message string) error {
	if len(files) == 0 {
		return nil
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	for _, f := range files {
		rel, err := r.relative(f)
		if err != nil {
			return err
		}
		if _, err := wt.Add(rel); err != nil {
			return fmt.Errorf("staging %s: %w", f, err)
		}
	}

	sig, err := r.signature()
	if err != nil {
		return err
	}

	hash, err := wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		return fmt.Errorf("committing: %w", err)
	}

	logDebug("[git] Commit: %s %q", hash, message)
	return nil
}

// relative converts a path to one relative to the working tree root.
func (r *Repo) relative(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	root, err := filepath.EvalSymlinks(r.root)
	if err != nil {
		root = r.root
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside the repository", path)
	}
	return filepath.ToSlash(rel), nil
}

// CreateTag tags HEAD. A non-empty message creates an annotated tag,
// otherwise the tag is lightweight.
func (r *Repo) CreateTag(name, message string) error {
	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("getting HEAD reference: %w", err)
	}

	var opts *git.CreateTagOptions
	if message != "" {
		sig, err := r.signature()
		if err != nil {
			return err
		}
		opts = &git.CreateTagOptions{Tagger: sig, Message: message}
	}

	if _, err := r.repo.CreateTag(name, head.Hash(), opts); err != nil {
		return fmt.Errorf("creating tag %s: %w", name, err)
	}

	logDebug("[git] CreateTag: %s annotated=%v", name, opts != nil)
	return nil
}

// MoveTag points a lightweight tag at HEAD, replacing any existing tag of
// the same name.
func (r *Repo) MoveTag(name string) error {
	if err := r.repo.DeleteTag(name); err != nil && !errors.Is(err, git.ErrTagNotFound) {
		return fmt.Errorf("deleting tag %s: %w", name, err)
	}
	if err := r.CreateTag(name, ""); err != nil {
		return err
	}
	logDebug("[git] MoveTag: %s", name)
	return nil
}

// Push pushes the current branch and all tags to the default remote.
// With forceTags, remote tags are overwritten, which moving tags requires.
func (r *Repo) Push(ctx context.Context, forceTags bool) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultPushTimeout)
		defer cancel()
	}

	remote, err := r.repo.Remote(DefaultRemote)
	if err != nil {
		return fmt.Errorf("finding remote %s: %w", DefaultRemote, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return fmt.Errorf("remote %s has no URL", DefaultRemote)
	}
	if isSSHURL(urls[0]) && !isSSHAgentAvailable() {
		return fmt.Errorf("remote %s uses SSH but no ssh-agent is available (SSH_AUTH_SOCK is empty)", DefaultRemote)
	}

	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("getting HEAD reference: %w", err)
	}
	if !head.Name().IsBranch() {
		return errors.New("cannot push from a detached HEAD")
	}

	specs := pushRefSpecs(head.Name(), forceTags)
	logDebug("[git] Push: %s %v", DefaultRemote, specs)

	err = r.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: DefaultRemote,
		RefSpecs:   specs,
		Auth:       getAuthForURL(urls[0]),
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("pushing to %s: %w", DefaultRemote, err)
	}
	return nil
}

// pushRefSpecs returns the refspecs for the branch and every tag.
func pushRefSpecs(branch plumbing.ReferenceName, forceTags bool) []config.RefSpec {
	tags := "refs/tags/*:refs/tags/*"
	if forceTags {
		tags = "+" + tags
	}
	return []config.RefSpec{
		config.RefSpec(fmt.Sprintf("%s:%s", branch, branch)),
		config.RefSpec(tags),
	}
}

// getAuthForURL returns the appropriate authentication method for a remote URL.
// SSH URLs use SSH agent auth, HTTPS URLs use environment credentials.
func getAuthForURL(url string) transport.AuthMethod {
	if isSSHURL(url) {
		auth, err := ssh.NewSSHAgentAuth("git")
		if err != nil {
			logDebug("[git] SSH agent auth failed: %v", err)
			return nil
		}
		return auth
	}

	username := os.Getenv("GIT_USERNAME")
	password := os.Getenv("GIT_PASSWORD")
	if username == "" {
		username = os.Getenv("GITHUB_TOKEN")
		if username != "" {
			password = "" // GitHub token can be used as username with empty password
		}
	}

	if username != "" {
		return &http.BasicAuth{
			Username: username,
			Password: password,
		}
	}

	return nil
}

// isSSHURL checks if a URL is an SSH URL.
// Detects git@ (SCP-style), ssh://, and git+ssh:// schemes.
func isSSHURL(url string) bool {
	return strings.HasPrefix(url, "git@") ||
		strings.HasPrefix(url, "ssh://") ||
		strings.HasPrefix(url, "git+ssh://")
}

// isSSHAgentAvailable checks if an SSH agent is available.
// Returns true only if SSH_AUTH_SOCK is set and non-empty.
func isSSHAgentAvailable() bool {
	sock := strings.TrimSpace(os.Getenv("SSH_AUTH_SOCK"))
	return sock != ""
}
