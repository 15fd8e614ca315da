// Package config provides layered configuration for bump using koanf.
// Values are resolved with priority: command-line flags (applied by the cli
// package) > BUMP_* environment variables (including a .env file) > project
// config (.versionrc.yml, or the legacy .versionrc.json) > defaults.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ariel-frischer/bump/internal/analyzer"
	"github.com/ariel-frischer/bump/internal/commit"
)

// Configuration represents the bump configuration.
type Configuration struct {
	// Preset selects the version source: git, node or rust.
	Preset string `koanf:"preset" yaml:"preset" validate:"preset"`
	// PackageFiles are the manifests rewritten on release. Empty means the
	// preset's default manifest.
	PackageFiles []string `koanf:"package_files" yaml:"package_files"`
	CommitPrefix string   `koanf:"commit_prefix" yaml:"commit_prefix" validate:"required"`
	TagPrefix    string   `koanf:"tag_prefix" yaml:"tag_prefix"`

	Push           bool `koanf:"push" yaml:"push"`
	Tag            bool `koanf:"tag" yaml:"tag"`
	ReleaseNotes   bool `koanf:"release_notes" yaml:"release_notes"`
	UpdateMajorTag bool `koanf:"update_major_tag" yaml:"update_major_tag"`
	UpdateMinorTag bool `koanf:"update_minor_tag" yaml:"update_minor_tag"`

	Changelog     bool   `koanf:"changelog" yaml:"changelog"`
	ChangelogFile string `koanf:"changelog_file" yaml:"changelog_file" validate:"required"`

	GitUserName  string `koanf:"git_user_name" yaml:"git_user_name"`
	GitUserEmail string `koanf:"git_user_email" yaml:"git_user_email"`

	// Types maps commit types to none, patch or minor, in any letter case.
	Types map[string]string `koanf:"types" yaml:"types" validate:"dive,severity"`

	// Sources lists the files that contributed values, lowest priority first.
	Sources []string `koanf:"-" yaml:"-"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// Dir is the project directory searched for config files (default: ".").
	Dir string
	// ConfigPath overrides project config discovery. The extension selects
	// the parser; a missing file is an error.
	ConfigPath string
	// SkipEnvFile disables loading the .env file.
	SkipEnvFile bool
	// WarningWriter receives warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses warnings
	SkipWarnings bool
}

// Load loads configuration for the project in the current directory.
func Load(configPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ConfigPath: configPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}

	loadDefaults(k)

	sources, err := loadProjectConfig(k, dir, opts.ConfigPath, warningWriter, opts.SkipWarnings)
	if err != nil {
		return nil, err
	}

	if !opts.SkipEnvFile {
		if err := loadEnvFile(EnvFilePath(dir)); err != nil {
			return nil, err
		}
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	cfg, err := finalizeConfig(k)
	if err != nil {
		return nil, err
	}
	cfg.Sources = sources
	return cfg, nil
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	defaults := GetDefaults()
	for key, value := range defaults {
		k.Set(key, value)
	}
}

// loadProjectConfig loads the project config file. YAML is preferred; the
// legacy JSON file is used only when no YAML file exists, and a warning is
// printed when both are present.
func loadProjectConfig(k *koanf.Koanf, dir, customPath string, warningWriter io.Writer, skipWarnings bool) ([]string, error) {
	if customPath != "" {
		if !fileExists(customPath) {
			return nil, fmt.Errorf("config file %s: %w", customPath, fs.ErrNotExist)
		}
		if err := loadConfigFile(k, customPath); err != nil {
			return nil, err
		}
		return []string{customPath}, nil
	}

	yamlPath := YAMLConfigPath(dir)
	jsonPath := JSONConfigPath(dir)
	yamlExists := fileExists(yamlPath)
	jsonExists := fileExists(jsonPath)

	switch {
	case yamlExists:
		if err := loadConfigFile(k, yamlPath); err != nil {
			return nil, err
		}
		if jsonExists && !skipWarnings {
			fmt.Fprintf(warningWriter, "Warning: %s found alongside %s (ignored)\n", jsonPath, yamlPath)
			fmt.Fprintf(warningWriter, "  Run 'bump config migrate' to merge it into YAML.\n\n")
		}
		return []string{yamlPath}, nil
	case jsonExists:
		if err := loadConfigFile(k, jsonPath); err != nil {
			return nil, err
		}
		return []string{jsonPath}, nil
	default:
		return nil, nil
	}
}

// loadConfigFile loads a JSON or YAML file, chosen by extension.
func loadConfigFile(k *koanf.Koanf, path string) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return loadJSONConfig(k, path)
	}
	return loadYAMLConfig(k, path)
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax: %w", err)
	}
	if isBlankFile(path) {
		return nil
	}
	fk := koanf.New(".")
	if err := fk.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return mergeNormalized(k, fk)
}

// loadJSONConfig loads a .versionrc.json file, whose keys are camelCase.
func loadJSONConfig(k *koanf.Koanf, path string) error {
	if isBlankFile(path) {
		return nil
	}
	fk := koanf.New(".")
	if err := fk.Load(file.Provider(path), json.Parser()); err != nil {
		return &ValidationError{FilePath: path, Message: err.Error()}
	}
	return mergeNormalized(k, fk)
}

// mergeNormalized merges src into k with top-level keys converted to
// snake_case. Nested keys, such as commit types, are kept as written.
func mergeNormalized(k, src *koanf.Koanf) error {
	nk := koanf.New(".")
	for key, value := range src.Raw() {
		if err := nk.Set(toSnakeCase(key), value); err != nil {
			return fmt.Errorf("normalizing key %s: %w", key, err)
		}
	}
	return k.Merge(nk)
}

// isBlankFile reports whether the file is empty or whitespace only.
func isBlankFile(path string) bool {
	data, err := os.ReadFile(path)
	return err == nil && strings.TrimSpace(string(data)) == ""
}

// loadEnvFile loads a dotenv file into the process environment without
// overriding variables that are already set. A missing file is ignored.
func loadEnvFile(path string) error {
	if !fileExists(path) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals and validates the merged configuration.
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfigValues(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// envTransform converts environment variables to config keys.
// Example: BUMP_TAG_PREFIX -> tag_prefix, BUMP_TYPES_DOCS -> types.docs,
// BUMP_PACKAGE_FILES=a,b -> package_files: [a b]
func envTransform(key, value string) (string, interface{}) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))

	if typ, ok := strings.CutPrefix(key, "types_"); ok {
		return "types." + typ, value
	}
	if key == "package_files" {
		return key, splitList(value)
	}
	return key, value
}

// splitList splits a comma-separated list, dropping empty items.
func splitList(s string) []string {
	items := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// SplitList parses a comma-separated flag value.
func SplitList(s string) []string {
	return splitList(s)
}

var typeTokenPattern = regexp.MustCompile(`^[a-z]+$`)

// SeverityTable converts Types into the resolver's table. Keys that are not
// lowercase words can never match a commit type and are ignored.
func (c *Configuration) SeverityTable() analyzer.SeverityTable {
	table := make(analyzer.SeverityTable, len(c.Types))
	for typ, value := range c.Types {
		if !typeTokenPattern.MatchString(typ) {
			continue
		}
		sev, err := analyzer.ParseSeverity(value)
		if err != nil {
			continue
		}
		table[typ] = sev
	}
	return table
}

// ExcludeFilter matches the tool's own commits, including ones made with a
// custom commit prefix.
func (c *Configuration) ExcludeFilter() commit.Filter {
	return commit.SelfCommitFilter(c.CommitPrefix)
}

// IsNotExist reports whether err is a missing explicit config file.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
