// Package release runs the release flow: decide the next version from the
// commits since the last tag, then update manifests and the changelog,
// commit, tag and push.
package release

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ariel-frischer/bump/internal/analyzer"
	"github.com/ariel-frischer/bump/internal/changelog"
	"github.com/ariel-frischer/bump/internal/commit"
	"github.com/ariel-frischer/bump/internal/git"
	"github.com/ariel-frischer/bump/internal/logger"
	"github.com/ariel-frischer/bump/internal/output"
	"github.com/ariel-frischer/bump/internal/strategy"
	"github.com/ariel-frischer/bump/internal/version"
)

// syncCommitFormat is the message of the commit that raises manifests to the
// last tag. It starts with commit.SyncPackagePrefix so analysis skips it.
const syncCommitFormat = "chore: sync package version to v%s"

// ErrPushFailed marks errors from the final push. Everything before it,
// the release commit and tags, is already recorded locally.
var ErrPushFailed = errors.New("push failed")

// Repository is the git surface a release needs.
type Repository interface {
	strategy.TagSource
	EnsureIdentity(name, email string) error
	CommitsSince(tag string) ([]string, error)
	Commit(files []string, message string) error
	CreateTag(name, message string) error
	MoveTag(name string) error
	Push(ctx context.Context, forceTags bool) error
}

// Options configures a release run.
type Options struct {
	Preset       string
	TagPrefix    string
	CommitPrefix string

	Push           bool
	Tag            bool
	ReleaseNotes   bool
	UpdateMajorTag bool
	UpdateMinorTag bool

	Changelog     bool
	ChangelogFile string

	GitUserName  string
	GitUserEmail string

	Types   analyzer.SeverityTable
	Exclude commit.Filter

	// Raw prints only the resulting version and never writes anything.
	Raw bool
	// Quiet omits the list of analysed commits.
	Quiet bool
}

// Plan is the side-effect free part of a release: where the project is and
// where the commits say it should go.
type Plan struct {
	// Current is the version releases start from. When the manifest lags
	// behind the last tag this is the tag's version.
	Current version.Version `json:"current" yaml:"current"`
	// ManifestVersion is what the strategy read before any sync.
	ManifestVersion version.Version `json:"manifest_version" yaml:"manifest_version"`
	LastTag         string          `json:"last_tag,omitempty" yaml:"last_tag,omitempty"`
	// NeedsSync is set when the manifest must be raised to the last tag.
	NeedsSync bool              `json:"needs_sync,omitempty" yaml:"needs_sync,omitempty"`
	Commits   []string          `json:"commits" yaml:"commits"`
	Analysis  analyzer.Analysis `json:"analysis" yaml:"analysis"`
	Next      version.Version   `json:"next" yaml:"next"`
}

// Released reports whether the plan leads to a new version.
func (p *Plan) Released() bool {
	return len(p.Commits) > 0 && p.Analysis.ReleaseNeeded()
}

// Result describes what a run did.
type Result struct {
	*Plan
	// Files are the paths committed in the release commit.
	Files  []string
	Tags   []string
	Pushed bool
}

// Runner executes releases against a repository and a version strategy.
type Runner struct {
	Repo     Repository
	Strategy strategy.Strategy
	Options  Options
	// Out receives the human report, or just the version in raw mode.
	Out io.Writer
	// Now is the clock used for changelog dates.
	Now func() time.Time
	// Progress wraps slow steps; nil runs them directly.
	Progress func(label string, fn func() error) error
}

// Plan inspects the repository and the version source without changing
// either.
func (r *Runner) Plan() (*Plan, error) {
	o := r.Options

	current, err := r.Strategy.CurrentVersion()
	if err != nil {
		return nil, fmt.Errorf("reading current version: %w", err)
	}

	tag, err := r.Repo.LastTag(o.TagPrefix)
	if err != nil {
		return nil, fmt.Errorf("finding last tag: %w", err)
	}

	p := &Plan{Current: current, ManifestVersion: current}
	if tag != nil {
		p.LastTag = tag.Name
		if r.Strategy.Name() != strategy.PresetGit && current.Less(tag.Version) {
			p.NeedsSync = true
			p.Current = tag.Version
		}
	}

	p.Commits, err = r.Repo.CommitsSince(p.LastTag)
	if err != nil {
		return nil, fmt.Errorf("collecting commits: %w", err)
	}

	p.Analysis = analyzer.Resolve(p.Commits, o.Types, o.Exclude)
	p.Next = p.Current
	if p.Released() {
		if p.Next, err = p.Current.BumpChecked(p.Analysis.Bump); err != nil {
			return nil, err
		}
	}

	logger.Debug("release planned",
		"current", p.Current, "last_tag", p.LastTag, "commits", len(p.Commits),
		"bump", p.Analysis.Bump, "next", p.Next)
	return p, nil
}

// Run performs the release. In raw mode it prints only the resulting
// version and makes no changes.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	o := r.Options
	if o.Raw {
		o.Push = false
		o.Tag = false
	}

	if o.ReleaseNotes && !o.Tag {
		r.logf("Warning: --release-notes requires --tag to be effective.")
	}

	if !o.Raw {
		if err := r.Repo.EnsureIdentity(o.GitUserName, o.GitUserEmail); err != nil {
			return nil, fmt.Errorf("configuring git identity: %w", err)
		}
	}

	plan, err := r.Plan()
	if err != nil {
		return nil, err
	}
	res := &Result{Plan: plan}

	r.logf("Current version: %s", plan.ManifestVersion)
	r.logf("Last tag: %s", valueOr(plan.LastTag, "none"))

	if plan.NeedsSync && !o.Raw {
		if err := r.sync(plan); err != nil {
			return nil, err
		}
	}

	if !o.Quiet {
		r.logf("Commits to analyse:")
		r.list(plan.Commits)
	}

	if len(plan.Commits) == 0 {
		r.logf("No commits since last tag.")
		r.raw(plan.Current)
		return res, nil
	}

	r.logf("Version bump: %s", output.BumpLabel(plan.Analysis.Bump))
	if !plan.Analysis.ReleaseNeeded() {
		r.logf("No version bump required.")
		r.raw(plan.Current)
		return res, nil
	}

	r.logf("Triggering commits:")
	if !o.Raw {
		output.PrintTriggering(r.Out, plan.Analysis.Bump, plan.Analysis.Triggering)
	}

	if len(plan.Analysis.Unknown) > 0 && !o.Raw {
		output.PrintWarning(r.Out,
			"The following commits have unknown or unconfigured types and did not trigger a version bump:",
			plan.Analysis.Unknown...)
		r.logf("Consider configuring these types in .versionrc.yml or using standard Conventional Commits types.")
	}

	if o.Raw {
		r.raw(plan.Next)
		return res, nil
	}

	if err := r.publish(ctx, o, res); err != nil {
		return res, err
	}
	return res, nil
}

// sync raises the manifests to the last tag's version.
func (r *Runner) sync(plan *Plan) error {
	r.logf("Package version %s is behind latest tag version %s, syncing...", plan.ManifestVersion, plan.Current)

	files, err := r.Strategy.ApplyVersion(plan.Current)
	if err != nil {
		return fmt.Errorf("syncing package version: %w", err)
	}
	if len(files) == 0 {
		return nil
	}

	if err := r.Repo.Commit(files, fmt.Sprintf(syncCommitFormat, plan.Current)); err != nil {
		return fmt.Errorf("committing version sync: %w", err)
	}
	r.logf("Synced package to version %s", plan.Current)
	return nil
}

// publish writes, commits, tags and pushes plan.Next.
func (r *Runner) publish(ctx context.Context, o Options, res *Result) error {
	next := res.Next

	files, err := r.Strategy.ApplyVersion(next)
	if err != nil {
		return fmt.Errorf("updating version files: %w", err)
	}
	r.logf("Updated to %s", next)

	if o.Changelog {
		path := o.ChangelogFile
		if path == "" {
			path = changelog.DefaultFile
		}
		date := changelog.FormatDate(r.now())
		if err := changelog.WriteEntry(path, next, date, res.Commits, o.Exclude); err != nil {
			return fmt.Errorf("updating changelog: %w", err)
		}
		r.logf("Updated %s", path)
		files = append(files, path)
	}

	res.Files = files
	if len(files) > 0 {
		if err := r.Repo.Commit(files, fmt.Sprintf("%s to %s", o.CommitPrefix, next)); err != nil {
			return fmt.Errorf("committing release: %w", err)
		}
	}

	movable := o.UpdateMajorTag || o.UpdateMinorTag
	if o.Tag {
		name := o.TagPrefix + next.String()
		if err := r.Repo.CreateTag(name, r.releaseNotes(o, res.Commits)); err != nil {
			return fmt.Errorf("creating tag %s: %w", name, err)
		}
		res.Tags = append(res.Tags, name)

		for _, t := range MovableTags(o.TagPrefix, next, o.UpdateMajorTag, o.UpdateMinorTag) {
			if err := r.Repo.MoveTag(t); err != nil {
				return fmt.Errorf("moving tag %s: %w", t, err)
			}
			res.Tags = append(res.Tags, t)
		}
	}

	if o.Push {
		push := func() error { return r.Repo.Push(ctx, movable) }
		if err := r.progress("Pushing to origin", push); err != nil {
			return fmt.Errorf("%w: %w", ErrPushFailed, err)
		}
		res.Pushed = true
		if o.Tag {
			r.logf("Pushed changes and tags.")
		} else {
			r.logf("Pushed changes.")
		}
		return nil
	}

	switch {
	case o.Tag:
		r.logf("Committed and tagged locally.")
	case len(files) > 0:
		r.logf("Committed locally.")
	}
	return nil
}

// releaseNotes is the annotated tag message: every collected commit as a
// bullet. Empty when notes are disabled, which makes a lightweight tag.
func (r *Runner) releaseNotes(o Options, commits []string) string {
	if !o.ReleaseNotes || len(commits) == 0 {
		return ""
	}
	lines := make([]string, len(commits))
	for i, c := range commits {
		lines[i] = "- " + c
	}
	return strings.Join(lines, "\n")
}

// MovableTags returns the floating tags pointing at the latest release of a
// major (vMAJOR) and of a minor line (vMAJOR.MINOR).
func MovableTags(prefix string, v version.Version, major, minor bool) []string {
	var tags []string
	if major {
		tags = append(tags, fmt.Sprintf("%s%d", prefix, v.Major))
	}
	if minor {
		tags = append(tags, fmt.Sprintf("%s%d.%d", prefix, v.Major, v.Minor))
	}
	return tags
}

func (r *Runner) logf(format string, args ...interface{}) {
	if r.Options.Raw {
		return
	}
	fmt.Fprintf(r.Out, format+"\n", args...)
}

func (r *Runner) list(items []string) {
	if r.Options.Raw {
		return
	}
	output.PrintList(r.Out, items)
}

func (r *Runner) raw(v version.Version) {
	if r.Options.Raw {
		fmt.Fprintln(r.Out, v)
	}
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Runner) progress(label string, fn func() error) error {
	if r.Progress == nil {
		return fn()
	}
	return r.Progress(label, fn)
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

var _ Repository = (*git.Repo)(nil)
