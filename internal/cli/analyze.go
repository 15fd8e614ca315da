package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	clierrors "github.com/ariel-frischer/bump/internal/errors"
	"github.com/ariel-frischer/bump/internal/output"
	"github.com/ariel-frischer/bump/internal/release"
)

var analyzeFormat string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Show the release decision without changing anything",
	Long: `Analyze the commits since the last release tag and report the current
version, the bump they require and the next version. Nothing is written,
committed or tagged.`,
	Example: `  bump analyze
  bump analyze --format json | jq -r .next`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(cmd)
	},
}

func init() {
	analyzeCmd.GroupID = GroupRelease
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "text", "Output format: text, json or yaml")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command) error {
	switch analyzeFormat {
	case "text", "json", "yaml":
	default:
		return clierrors.NewArgumentErrorWithUsage(
			fmt.Sprintf("unknown format %q", analyzeFormat),
			"bump analyze --format text|json|yaml",
		)
	}

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
	switch analyzeFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(plan); err != nil {
			return fmt.Errorf("encoding plan: %w", err)
		}
		return enc.Close()
	default:
		printPlan(out, plan)
		return nil
	}
}

func printPlan(out io.Writer, plan *release.Plan) {
	last := plan.LastTag
	if last == "" {
		last = "none"
	}
	fmt.Fprintf(out, "Current version: %s\n", plan.Current)
	if plan.NeedsSync {
		fmt.Fprintf(out, "Manifest version: %s (behind %s)\n", plan.ManifestVersion, last)
	}
	fmt.Fprintf(out, "Last tag: %s\n", last)
	fmt.Fprintf(out, "Commits: %d\n", len(plan.Commits))
	fmt.Fprintf(out, "Version bump: %s\n", output.BumpLabel(plan.Analysis.Bump))

	if !plan.Released() {
		fmt.Fprintln(out, "No version bump required.")
		return
	}

	fmt.Fprintf(out, "Next version: %s\n", plan.Next)
	output.PrintHeading(out, "Triggering commits:")
	output.PrintTriggering(out, plan.Analysis.Bump, plan.Analysis.Triggering)
	if len(plan.Analysis.Unknown) > 0 {
		output.PrintWarning(out, "commits with unknown or unconfigured types:", plan.Analysis.Unknown...)
	}
}
