// Package cli implements the bump command line.
package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	clierrors "github.com/ariel-frischer/bump/internal/errors"
	"github.com/ariel-frischer/bump/internal/git"
	"github.com/ariel-frischer/bump/internal/logger"
)

// Command groups shown in help output.
const (
	GroupRelease       = "release"
	GroupChangelog     = "changelog"
	GroupConfiguration = "configuration"
)

var (
	configPath string
	debugFlag  bool
	logFile    string

	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "bump",
	Short: "Release the next semantic version from Conventional Commits",
	Long: `bump reads the commit subjects since the last release tag, decides the
next semantic version from their Conventional Commits types, and releases it:
manifests are updated, a changelog entry is written, and the result is
committed, tagged and optionally pushed.

Configuration is read from .versionrc.yml (or the legacy .versionrc.json),
BUMP_* environment variables and a .env file. Flags override all of them.`,
	Example: `  # Show what would be released and update manifests
  bump

  # Release a Node package: tag, changelog and push
  bump --preset node --tag --changelog --push

  # Print only the next version (no changes are made)
  bump --raw`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLogging()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRelease(cmd)
	},
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupRelease, Title: "Release Commands:"},
		&cobra.Group{ID: GroupChangelog, Title: "Changelog Commands:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration Commands:"},
	)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: .versionrc.yml or .versionrc.json)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")

	addConfigFlags(rootCmd)
	addReleaseFlags(rootCmd)

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine())
	})
}

// Execute runs the root command. Errors are reported on stderr before they
// are returned; use ExitCode to turn them into a process exit code.
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		_ = closeLogging()
		var exitErr *ExitError
		if !errors.As(err, &exitErr) {
			clierrors.FprintAny(rootCmd.ErrOrStderr(), err)
		}
	}
	return err
}

func setupLogging(cmd *cobra.Command, args []string) error {
	closer, err := logger.Configure("", debugFlag, logFile)
	if err != nil {
		return clierrors.NewArgumentError(err.Error(), "Check that the --log-file directory exists")
	}
	logCloser = closer
	git.SetDebugLogger(logger.Debugf)
	return nil
}

func closeLogging() error {
	if logCloser == nil {
		return nil
	}
	err := logCloser.Close()
	logCloser = nil
	logger.SetOutput(os.Stderr)
	return err
}

// stderrFile returns os.Stderr when the command writes to it, for terminal
// detection. Tests that redirect output get nil.
func stderrFile(cmd *cobra.Command) *os.File {
	if f, ok := cmd.ErrOrStderr().(*os.File); ok {
		return f
	}
	return nil
}
