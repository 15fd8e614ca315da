package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cleanChangelog = `# Changelog

## [1.1.0] - 2026-02-01

### Added

- search

### Fixed

- paging

## [1.0.0] - 2026-01-01

### Added

- first release
`

func TestChangelogShow(t *testing.T) {
	repo := projectRepo(t)
	repo.WriteFile("CHANGELOG.md", cleanChangelog)

	tests := map[string]struct {
		args        []string
		wantContain []string
		wantMissing []string
		wantCode    int
	}{
		"specific version": {
			args:        []string{"changelog", "show", "v1.1.0", "--plain"},
			wantContain: []string{"## v1.1.0 (2026-02-01)", "### Added", "  - search", "### Fixed"},
		},
		"latest release by default": {
			args:        []string{"changelog", "show", "--plain"},
			wantContain: []string{"## v1.1.0 (2026-02-01)", "  - search", "  - paging"},
			wantMissing: []string{"first release"},
		},
		"last entries": {
			args:        []string{"changelog", "show", "--last", "2", "--plain"},
			wantContain: []string{"search", "paging", "(2 of 3 entries shown. Use --last 3 to see all)"},
		},
		"missing version": {
			args:     []string{"changelog", "show", "9.9.9"},
			wantCode: ExitInvalidArguments,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			stdout, stderr, err := execute(t, tt.args...)
			if tt.wantCode != 0 {
				requireExitCode(t, tt.wantCode, err)
				assert.Contains(t, stderr, "Latest release is 1.1.0")
				return
			}
			require.NoError(t, err)
			for _, want := range tt.wantContain {
				assert.Contains(t, stdout, want)
			}
			for _, missing := range tt.wantMissing {
				assert.NotContains(t, stdout, missing)
			}
		})
	}
}

func TestChangelogShow_OnlyUnreleased(t *testing.T) {
	repo := projectRepo(t)
	repo.WriteFile("CHANGELOG.md", "# Changelog\n\n## [Unreleased]\n\n### Added\n\n- draft\n")

	stdout, _, err := execute(t, "changelog", "show", "--plain")
	require.NoError(t, err)
	assert.Contains(t, stdout, "## Unreleased\n")
	assert.Contains(t, stdout, "  - draft\n")
}

func TestChangelogShow_MissingFile(t *testing.T) {
	projectRepo(t)

	_, stderr, err := execute(t, "changelog", "show")
	requireExitCode(t, ExitMissingPrerequisite, err)
	assert.Contains(t, stderr, "CHANGELOG.md not found")
}

func TestChangelogLint(t *testing.T) {
	repo := projectRepo(t)
	repo.WriteFile("CHANGELOG.md", cleanChangelog)
	repo.WriteFile("BROKEN.md", "# Changelog\n## [1.0.0] - someday\n\n\n- item \n")

	stdout, _, err := execute(t, "changelog", "lint")
	require.NoError(t, err)
	assert.Contains(t, stdout, "CHANGELOG.md is clean")

	_, stderr, err := execute(t, "changelog", "lint", "BROKEN.md")
	requireExitCode(t, ExitLintFailed, err)
	assert.Contains(t, stderr, "BROKEN.md:line 2: heading not preceded by a blank line (blanks-around-headings)")
	assert.Contains(t, stderr, "release-heading")
	assert.Contains(t, stderr, "no-multiple-blanks")
	assert.Contains(t, stderr, "no-trailing-spaces")
	assert.NotContains(t, stderr, "exit code")
}

func TestChangelogPreview(t *testing.T) {
	repo := projectRepo(t)
	repo.WriteFile("CHANGELOG.md", cleanChangelog)
	repo.Commit("feat: export")

	stdout, _, err := execute(t, "changelog", "preview")
	require.NoError(t, err)
	assert.Contains(t, stdout, "## [1.1.0] - ")
	assert.Contains(t, stdout, "### Added\n\n- export\n")

	stdout, _, err = execute(t, "changelog", "preview", "--diff")
	require.NoError(t, err)
	assert.Contains(t, stdout, "+- export\n")
	assert.Contains(t, stdout, "  # Changelog\n")
}

func TestChangelogPreview_NothingPending(t *testing.T) {
	projectRepo(t)

	stdout, _, err := execute(t, "changelog", "preview")
	require.NoError(t, err)
	assert.Equal(t, "No release pending.\n", stdout)
}
