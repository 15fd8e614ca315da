package errors

import "fmt"

// Common error messages for the bump CLI.

// NotGitRepository creates an error for running outside a git work tree.
func NotGitRepository(cause error) *CLIError {
	return WrapWithMessage(cause, Prerequisite,
		"not a git repository",
		"Run bump from inside a git work tree",
		"Create one with: git init",
	)
}

// ManifestNotFound creates an error for a missing package manifest or version field.
func ManifestNotFound(preset string, cause error) *CLIError {
	return WrapWithMessage(cause, Prerequisite,
		fmt.Sprintf("cannot read the current version for preset %s", preset),
		"Check package_files in .versionrc.yml or pass --package-files",
		"Or use --preset git to read the version from tags",
	)
}

// InvalidVersion creates an error for a manifest holding a non-semver version.
func InvalidVersion(cause error) *CLIError {
	return WrapWithMessage(cause, Runtime,
		"invalid current version",
		"Versions must be MAJOR.MINOR.PATCH with an optional leading v",
	)
}

// InvalidConfig creates an error for a configuration file that failed to load.
func InvalidConfig(cause error) *CLIError {
	return WrapWithMessage(cause, Configuration,
		"invalid configuration",
		"Check the values with: bump config show",
		"List valid keys with: bump config keys",
	)
}

// UnknownPreset creates an error for an unsupported --preset value.
func UnknownPreset(preset string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("unknown preset %q", preset),
		"bump --preset git|node|rust",
	)
}

// PushFailed creates an error for a push to origin that did not complete,
// keeping the cause's message.
func PushFailed(cause error) *CLIError {
	return Wrap(cause, Runtime,
		"The release commit and tag exist locally; push them with: git push --follow-tags",
		"For SSH remotes make sure ssh-agent is running with your key loaded",
	)
}

// MissingIdentity creates an error for a repository with no commit identity.
func MissingIdentity(cause error) *CLIError {
	return WrapWithMessage(cause, Configuration,
		"cannot record the release",
		"Set git_user_name and git_user_email in .versionrc.yml",
		"Or run: git config user.name \"Your Name\" && git config user.email you@example.com",
	)
}

// ChangelogVersionNotFound creates an error for a changelog lookup that missed.
func ChangelogVersionNotFound(version string, available []string) *CLIError {
	remediation := []string{"List releases with: bump changelog show"}
	if len(available) > 0 {
		remediation = append(remediation, fmt.Sprintf("Latest release is %s", available[0]))
	}
	return NewArgumentError(fmt.Sprintf("version %s not found in changelog", version), remediation...)
}
