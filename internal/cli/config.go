package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/bump/internal/config"
	clierrors "github.com/ariel-frischer/bump/internal/errors"
	"github.com/ariel-frischer/bump/internal/output"
)

var (
	migrateDryRun       bool
	migrateRemoveLegacy bool
	initForce           bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage bump configuration",
	Long: `Manage bump configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Command-line flags
  2. Environment variables (BUMP_*), including a .env file
  3. Project config (.versionrc.yml, or the legacy .versionrc.json)
  4. Built-in defaults`,
	Example: `  # Show the effective configuration
  bump config show

  # List every configuration key
  bump config keys

  # Convert .versionrc.json to .versionrc.yml
  bump config migrate`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return printConfig(cmd, cfg)
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List configuration keys and their environment variables",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printKeys(cmd)
	},
}

var configMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Convert .versionrc.json to .versionrc.yml",
	Long: `Convert the legacy .versionrc.json into .versionrc.yml with snake_case
keys. An existing .versionrc.yml is never overwritten.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigMigrate(cmd)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a commented .versionrc.yml with every default",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		return runConfigInit(cmd, dir)
	},
}

func init() {
	configCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configKeysCmd, configMigrateCmd, configInitCmd)

	configMigrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "Show what would be migrated without writing")
	configMigrateCmd.Flags().BoolVar(&migrateRemoveLegacy, "remove-legacy", false, "Rename .versionrc.json to .versionrc.json.bak after migrating")
	configInitCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing .versionrc.yml")
}

func printConfig(cmd *cobra.Command, cfg *config.Configuration) error {
	out := cmd.OutOrStdout()
	if len(cfg.Sources) == 0 {
		fmt.Fprintln(out, "# sources: defaults")
	} else {
		fmt.Fprintf(out, "# sources: defaults, %s\n", strings.Join(cfg.Sources, ", "))
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}

func printKeys(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	cyan := color.New(color.FgCyan).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	for _, key := range config.SortedKeys() {
		schema := config.KnownKeys[key]
		typ := schema.Type.String()
		if len(schema.AllowedValues) > 0 {
			typ = strings.Join(schema.AllowedValues, "|")
		}
		fmt.Fprintf(out, "%-18s %-14s %s\n", cyan(key), typ, dim(config.EnvName(key)))
		fmt.Fprintf(out, "  %s\n", schema.Description)
	}
}

func runConfigMigrate(cmd *cobra.Command) error {
	result, err := config.MigrateProjectConfig(".", migrateDryRun)
	if err != nil {
		return clierrors.InvalidConfig(err)
	}

	out := cmd.OutOrStdout()
	if !result.Success {
		fmt.Fprintln(out, result.Message)
		return nil
	}
	output.PrintSuccess(out, result.Message)

	if migrateRemoveLegacy && !migrateDryRun {
		if err := config.RemoveLegacyConfig(result.SourcePath, false); err != nil {
			return err
		}
		fmt.Fprintf(out, "Renamed %s to %s.bak\n", result.SourcePath, result.SourcePath)
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, dir string) error {
	path := config.YAMLConfigPath(dir)
	if _, err := os.Stat(path); err == nil && !initForce {
		return clierrors.NewArgumentError(
			fmt.Sprintf("%s already exists", path),
			"Use --force to overwrite it",
		)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	output.PrintSuccess(cmd.OutOrStdout(), "Created "+filepath.Clean(path))
	return nil
}
