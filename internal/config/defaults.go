package config

// Default git identity used when the repository has none configured.
const (
	DefaultGitUserName  = "github-actions[bot]"
	DefaultGitUserEmail = "41898282+github-actions[bot]@users.noreply.github.com"
)

// GetDefaultConfigTemplate returns a commented .versionrc.yml listing every
// option with its default.
func GetDefaultConfigTemplate() string {
	return `# bump configuration
# See 'bump config keys' for all options

preset: git                           # Version source: git | node | rust
package_files: []                     # Manifests to update (default: package.json for node, Cargo.toml for rust)
commit_prefix: "chore: bump version"  # Release commit message prefix
tag_prefix: v                         # Prefix of release tags

# Release actions
tag: false                            # Create a release tag
push: false                           # Push the release commit and tags
release_notes: false                  # Annotate the tag with the commit list (needs tag)
update_major_tag: false               # Move the vMAJOR tag to the release
update_minor_tag: false               # Move the vMAJOR.MINOR tag to the release

# Changelog
changelog: false                      # Maintain a Keep a Changelog file
changelog_file: CHANGELOG.md          # Changelog location

# Git identity, used only when the repository has none
git_user_name: "github-actions[bot]"
git_user_email: "41898282+github-actions[bot]@users.noreply.github.com"

# Severity per commit type: none | patch | minor
# Breaking changes (type!) always bump major.
types:
  feat: minor
  fix: patch
  build: none
  chore: none
  ci: none
  docs: none
  style: none
  refactor: none
  perf: none
  test: none
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"preset":           "git",
		"package_files":    []string{},
		"commit_prefix":    "chore: bump version",
		"tag_prefix":       "v",
		"push":             false,
		"tag":              false,
		"release_notes":    false,
		"update_major_tag": false,
		"update_minor_tag": false,
		"changelog":        false,
		"changelog_file":   "CHANGELOG.md",
		"git_user_name":    DefaultGitUserName,
		"git_user_email":   DefaultGitUserEmail,
		// types: maintenance types are listed so they are not reported as unknown.
		"types": map[string]interface{}{
			"feat":     "minor",
			"fix":      "patch",
			"build":    "none",
			"chore":    "none",
			"ci":       "none",
			"docs":     "none",
			"style":    "none",
			"refactor": "none",
			"perf":     "none",
			"test":     "none",
		},
	}
}
