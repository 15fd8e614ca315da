package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/bump/internal/build"
)

// SourceURL is the project source URL
const SourceURL = "https://github.com/ariel-frischer/bump"

var versionPlain bool

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Display version information (v)",
	Long:    "Display version, commit, build date, and Go version information for bump",
	Example: `  # Show version info
  bump version

  # Version number only (for scripts)
  bump version --plain`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		info := build.Current()
		out := cmd.OutOrStdout()
		if versionPlain {
			fmt.Fprintln(out, info.Version)
			return
		}

		info.Commit = truncateCommit(info.Commit)
		dim := color.New(color.Faint).SprintFunc()
		fmt.Fprint(out, info.String())
		fmt.Fprintln(out, dim(SourceURL))
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionPlain, "plain", false, "Print only the version number")
	rootCmd.AddCommand(versionCmd)
}

// truncateCommit shortens commit hash if it's too long
func truncateCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
