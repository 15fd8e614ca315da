package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/bump/internal/changelog"
	clierrors "github.com/ariel-frischer/bump/internal/errors"
	"github.com/ariel-frischer/bump/internal/output"
)

var (
	changelogLastFlag  int
	changelogPlainFlag bool
	changelogDiffFlag  bool
)

var changelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Inspect the project changelog",
	Long: `Inspect the Keep a Changelog file bump maintains (changelog_file,
default CHANGELOG.md).`,
}

var changelogShowCmd = &cobra.Command{
	Use:   "show [version]",
	Short: "Show changelog entries",
	Long: `Show changelog entries from the project changelog.

By default, shows the latest release. Use a version argument to see a
specific release, or --last to list the most recent entries across releases.
Without any release yet, the 5 most recent entries are shown.`,
	Example: `  bump changelog show              # Show the latest release
  bump changelog show v1.4.0       # Show all entries for version 1.4.0
  bump changelog show 1.4.0        # Same (v prefix optional)
  bump changelog show --last 10    # Show 10 most recent entries
  bump changelog show --plain      # Plain output (no colors/icons)`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChangelogShow(cmd, args)
	},
}

var changelogLintCmd = &cobra.Command{
	Use:   "lint [file]",
	Short: "Check the changelog layout",
	Long: `Check that a changelog keeps the layout bump writes: single blank lines,
blank lines around headings and lists, no trailing whitespace and release
headings of the form "## [X.Y.Z] - YYYY-MM-DD". Exits with status 6 when
problems are found.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChangelogLint(cmd, args)
	},
}

var changelogPreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the entry the next release would add",
	Long: `Render the changelog entry for the commits since the last tag without
writing it. With --diff, show how the changelog file would change.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChangelogPreview(cmd)
	},
}

func init() {
	changelogCmd.GroupID = GroupChangelog
	rootCmd.AddCommand(changelogCmd)
	changelogCmd.AddCommand(changelogShowCmd, changelogLintCmd, changelogPreviewCmd)

	changelogShowCmd.Flags().IntVar(&changelogLastFlag, "last", 5, "Number of entries to show")
	changelogShowCmd.Flags().BoolVar(&changelogPlainFlag, "plain", false, "Plain text output (no colors/icons)")
	changelogPreviewCmd.Flags().BoolVar(&changelogDiffFlag, "diff", false, "Show a diff of the changelog file")
}

func runChangelogShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := changelog.Load(cfg.ChangelogFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return clierrors.NewPrerequisiteError(
				fmt.Sprintf("%s not found", cfg.ChangelogFile),
				"Create it with: bump --changelog",
			)
		}
		return fmt.Errorf("loading changelog: %w", err)
	}

	opts := changelog.FormatOptions{Plain: changelogPlainFlag}

	if len(args) == 1 {
		return showVersion(log, args[0], cmd, opts)
	}
	if latest := log.GetLatestRelease(); latest != nil && !cmd.Flags().Changed("last") {
		return changelog.FormatRelease(latest, cmd.OutOrStdout(), opts)
	}
	return showLastEntries(log, changelogLastFlag, cmd, opts)
}

func showVersion(log *changelog.Document, version string, cmd *cobra.Command, opts changelog.FormatOptions) error {
	r, err := log.GetVersion(version)
	if err != nil {
		var notFound *changelog.VersionNotFoundError
		if errors.As(err, &notFound) {
			return clierrors.ChangelogVersionNotFound(version, notFound.AvailableVersions)
		}
		return fmt.Errorf("getting version: %w", err)
	}

	return changelog.FormatRelease(r, cmd.OutOrStdout(), opts)
}

func showLastEntries(log *changelog.Document, n int, cmd *cobra.Command, opts changelog.FormatOptions) error {
	entries := log.GetLastN(n)
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No changelog entries found.")
		return nil
	}

	if err := changelog.FormatTerminal(entries, cmd.OutOrStdout(), opts); err != nil {
		return fmt.Errorf("formatting entries: %w", err)
	}

	total := log.GetEntryCount()
	if total > len(entries) {
		fmt.Fprintf(cmd.OutOrStdout(), "\n(%d of %d entries shown. Use --last %d to see all)\n",
			len(entries), total, total)
	}

	return nil
}

func runChangelogLint(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	} else {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		path = cfg.ChangelogFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return clierrors.NewPrerequisiteError(fmt.Sprintf("%s not found", path))
		}
		return fmt.Errorf("reading changelog: %w", err)
	}

	issues := changelog.Lint(string(data))
	if _, err := changelog.ParseString(string(data)); err != nil && changelog.IsValidationError(err) {
		issues = append(issues, changelog.Issue{Rule: "structure", Message: err.Error()})
	}

	if len(issues) == 0 {
		output.PrintSuccess(cmd.OutOrStdout(), path+" is clean")
		return nil
	}

	for _, issue := range issues {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s:%s\n", path, issue)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d problem(s) found\n", len(issues))
	return NewExitError(ExitLintFailed)
}

func runChangelogPreview(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	runner, err := newRunner(cmd, cfg, false, true)
	if err != nil {
		return err
	}

	plan, err := runner.Plan()
	if err != nil {
		return translateError(err, cfg)
	}

	out := cmd.OutOrStdout()
	if !plan.Released() {
		fmt.Fprintln(out, "No release pending.")
		return nil
	}

	date := changelog.FormatDate(time.Now())
	fragment := changelog.Render(plan.Next, date, plan.Commits, cfg.ExcludeFilter())
	if !changelogDiffFlag {
		fmt.Fprint(out, fragment)
		return nil
	}

	existing, err := changelog.ReadDocument(cfg.ChangelogFile)
	if err != nil {
		return err
	}
	fmt.Fprint(out, output.ChangelogDiff(existing, changelog.Merge(existing, fragment), 3))
	return nil
}
