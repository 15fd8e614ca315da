package cli

import (
	"errors"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/bump/internal/config"
	clierrors "github.com/ariel-frischer/bump/internal/errors"
	"github.com/ariel-frischer/bump/internal/git"
	"github.com/ariel-frischer/bump/internal/logger"
	"github.com/ariel-frischer/bump/internal/progress"
	"github.com/ariel-frischer/bump/internal/release"
	"github.com/ariel-frischer/bump/internal/strategy"
	"github.com/ariel-frischer/bump/internal/version"
)

// configFlags override configuration values on every command.
var configFlags struct {
	preset        string
	tagPrefix     string
	commitPrefix  string
	packageFiles  string
	changelogFile string
}

// releaseFlags select what the root command does with a new version.
var releaseFlags struct {
	push           bool
	quiet          bool
	tag            bool
	releaseNotes   bool
	raw            bool
	updateMajorTag bool
	updateMinorTag bool
	changelog      bool
	gitUserName    string
	gitUserEmail   string
}

func addConfigFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&configFlags.preset, "preset", "", "Version source: "+strings.Join(strategy.Presets, ", "))
	f.StringVar(&configFlags.tagPrefix, "tag-prefix", "", "Prefix of release tags (default: v)")
	f.StringVar(&configFlags.commitPrefix, "commit-prefix", "", "Prefix of the release commit message")
	f.StringVar(&configFlags.packageFiles, "package-files", "", "Comma-separated manifests to update")
	f.StringVar(&configFlags.changelogFile, "changelog-file", "", "Changelog location (default: CHANGELOG.md)")
}

func addReleaseFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVarP(&releaseFlags.push, "push", "p", false, "Push the release commit and tags to origin")
	f.BoolVarP(&releaseFlags.quiet, "quiet", "q", false, "Do not list the analysed commits")
	f.BoolVarP(&releaseFlags.tag, "tag", "t", false, "Create a release tag")
	f.BoolVarP(&releaseFlags.releaseNotes, "release-notes", "r", false, "Annotate the tag with the released commits")
	f.BoolVar(&releaseFlags.raw, "raw", false, "Print only the resulting version and change nothing")
	f.BoolVar(&releaseFlags.updateMajorTag, "update-major-tag", false, "Move the vMAJOR tag to the release")
	f.BoolVar(&releaseFlags.updateMinorTag, "update-minor-tag", false, "Move the vMAJOR.MINOR tag to the release")
	f.BoolVar(&releaseFlags.changelog, "changelog", false, "Write a changelog entry for the release")
	f.StringVar(&releaseFlags.gitUserName, "git-user-name", "", "Commit identity used when the repository has none")
	f.StringVar(&releaseFlags.gitUserEmail, "git-user-email", "", "Commit email used when the repository has none")
}

// loadConfig loads configuration and applies flag overrides. Boolean
// release flags can only switch features on.
func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ConfigPath:    configPath,
		WarningWriter: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, clierrors.InvalidConfig(err)
	}

	flags := cmd.Flags()
	if flags.Changed("preset") {
		if !slices.Contains(strategy.Presets, configFlags.preset) {
			return nil, clierrors.UnknownPreset(configFlags.preset)
		}
		cfg.Preset = configFlags.preset
	}
	if flags.Changed("tag-prefix") {
		cfg.TagPrefix = configFlags.tagPrefix
	}
	if flags.Changed("commit-prefix") {
		if configFlags.commitPrefix == "" {
			return nil, clierrors.NewArgumentError("--commit-prefix cannot be empty")
		}
		cfg.CommitPrefix = configFlags.commitPrefix
	}
	if flags.Changed("package-files") {
		cfg.PackageFiles = config.SplitList(configFlags.packageFiles)
	}
	if flags.Changed("changelog-file") {
		cfg.ChangelogFile = configFlags.changelogFile
	}

	cfg.Push = cfg.Push || releaseFlags.push
	cfg.Tag = cfg.Tag || releaseFlags.tag
	cfg.ReleaseNotes = cfg.ReleaseNotes || releaseFlags.releaseNotes
	cfg.UpdateMajorTag = cfg.UpdateMajorTag || releaseFlags.updateMajorTag
	cfg.UpdateMinorTag = cfg.UpdateMinorTag || releaseFlags.updateMinorTag
	cfg.Changelog = cfg.Changelog || releaseFlags.changelog
	if releaseFlags.gitUserName != "" {
		cfg.GitUserName = releaseFlags.gitUserName
	}
	if releaseFlags.gitUserEmail != "" {
		cfg.GitUserEmail = releaseFlags.gitUserEmail
	}

	logger.Debug("configuration loaded", "sources", cfg.Sources, "preset", cfg.Preset)
	return cfg, nil
}

// releaseOptions converts configuration into runner options.
func releaseOptions(cfg *config.Configuration, raw, quiet bool) release.Options {
	return release.Options{
		Preset:         cfg.Preset,
		TagPrefix:      cfg.TagPrefix,
		CommitPrefix:   cfg.CommitPrefix,
		Push:           cfg.Push,
		Tag:            cfg.Tag,
		ReleaseNotes:   cfg.ReleaseNotes,
		UpdateMajorTag: cfg.UpdateMajorTag,
		UpdateMinorTag: cfg.UpdateMinorTag,
		Changelog:      cfg.Changelog,
		ChangelogFile:  cfg.ChangelogFile,
		GitUserName:    cfg.GitUserName,
		GitUserEmail:   cfg.GitUserEmail,
		Types:          cfg.SeverityTable(),
		Exclude:        cfg.ExcludeFilter(),
		Raw:            raw,
		Quiet:          quiet,
	}
}

// newRunner opens the repository in the working directory and builds a
// runner for cfg.
func newRunner(cmd *cobra.Command, cfg *config.Configuration, raw, quiet bool) (*release.Runner, error) {
	repo, err := git.Open("")
	if err != nil {
		return nil, translateError(err, cfg)
	}

	strat, err := strategy.Load(strategy.Options{
		Preset:       cfg.Preset,
		Raw:          raw,
		TagPrefix:    cfg.TagPrefix,
		PackageFiles: cfg.PackageFiles,
	}, repo)
	if err != nil {
		return nil, clierrors.UnknownPreset(cfg.Preset)
	}

	runner := &release.Runner{
		Repo:     repo,
		Strategy: strat,
		Options:  releaseOptions(cfg, raw, quiet),
		Out:      cmd.OutOrStdout(),
	}

	if f := stderrFile(cmd); f != nil {
		caps := progress.DetectTerminalCapabilities(f)
		runner.Progress = func(label string, fn func() error) error {
			return progress.Run(f, caps, label, fn)
		}
	}
	return runner, nil
}

func runRelease(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	runner, err := newRunner(cmd, cfg, releaseFlags.raw, releaseFlags.quiet)
	if err != nil {
		return err
	}

	if _, err := runner.Run(cmd.Context()); err != nil {
		return translateError(err, cfg)
	}
	return nil
}

// translateError turns domain errors into CLI errors with remediation.
func translateError(err error, cfg *config.Configuration) error {
	switch {
	case err == nil:
		return nil
	case clierrors.IsCLIError(err):
		return err
	case errors.Is(err, git.ErrNotRepository):
		return clierrors.NotGitRepository(err)
	case errors.Is(err, git.ErrNoIdentity):
		return clierrors.MissingIdentity(err)
	case errors.Is(err, strategy.ErrNotFound):
		return clierrors.ManifestNotFound(cfg.Preset, err)
	case errors.Is(err, version.ErrInvalidVersion):
		return clierrors.InvalidVersion(err)
	case errors.Is(err, release.ErrPushFailed):
		return clierrors.PushFailed(err)
	default:
		return err
	}
}
