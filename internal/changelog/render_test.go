package changelog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/bump/internal/commit"
	"github.com/ariel-frischer/bump/internal/version"
)

func TestCategorize(t *testing.T) {
	tests := map[string]struct {
		lines []string
		want  []Change
	}{
		"stable grouping keeps arrival order within a category": {
			lines: []string{"fix: bug1", "feat: f1", "fix: bug2", "feat: f2"},
			want: []Change{
				{Category: Added, Description: "f1"},
				{Category: Added, Description: "f2"},
				{Category: Fixed, Description: "bug1"},
				{Category: Fixed, Description: "bug2"},
			},
		},
		"breaking commit goes to Changed with prefix": {
			lines: []string{"feat(api)!: drop v1 endpoints"},
			want:  []Change{{Category: Changed, Description: "**BREAKING:** drop v1 endpoints"}},
		},
		"type mapping": {
			lines: []string{"security: patch CVE", "revert: undo x", "perf: faster", "refactor: tidy", "docs: readme"},
			want: []Change{
				{Category: Changed, Description: "faster"},
				{Category: Changed, Description: "tidy"},
				{Category: Changed, Description: "readme"},
				{Category: Removed, Description: "undo x"},
				{Category: Security, Description: "patch CVE"},
			},
		},
		"non-conventional line lands in Changed verbatim": {
			lines: []string{"Update dependencies"},
			want:  []Change{{Category: Changed, Description: "Update dependencies"}},
		},
		"self commits are excluded": {
			lines: []string{"chore: bump version to 1.2.3", "chore: sync package version to v1.2.2", "fix: real"},
			want:  []Change{{Category: Fixed, Description: "real"}},
		},
		"no lines": {
			lines: nil,
			want:  []Change{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := Categorize(tt.lines, commit.SelfCommitFilter())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender(t *testing.T) {
	v := version.New(1, 3, 0)

	tests := map[string]struct {
		lines []string
		want  string
	}{
		"grouped sections in category order": {
			lines: []string{"fix: bug1", "feat: f1", "fix: bug2", "feat: f2"},
			want: "## [1.3.0] - 2026-01-15\n" +
				"\n### Added\n\n- f1\n- f2\n" +
				"\n### Fixed\n\n- bug1\n- bug2\n" +
				"\n",
		},
		"breaking entry": {
			lines: []string{"feat!: new config format"},
			want:  "## [1.3.0] - 2026-01-15\n\n### Changed\n\n- **BREAKING:** new config format\n\n",
		},
		"empty release is a bare heading": {
			lines: nil,
			want:  "## [1.3.0] - 2026-01-15\n\n",
		},
		"description whitespace is collapsed": {
			lines: []string{"fix:  spaced   out  "},
			want:  "## [1.3.0] - 2026-01-15\n\n### Fixed\n\n- spaced out\n\n",
		},
		"blank description inside a list": {
			lines: []string{"feat: first", "feat:  ", "feat: real"},
			want:  "## [1.3.0] - 2026-01-15\n\n### Added\n\n- first\n-\n- real\n\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := Render(v, "2026-01-15", tt.lines, nil)
			assert.Equal(t, tt.want, got)
			assert.True(t, strings.HasSuffix(got, "\n\n"))
			assert.NotContains(t, got, "\n\n\n")
		})
	}
}

func TestRender_BlankDescriptionStaysLintClean(t *testing.T) {
	doc := Merge("", Render(version.New(1, 0, 0), "2026-01-15", []string{"feat:  ", "feat: real"}, nil))

	assert.Contains(t, doc, "### Added\n\n-\n- real\n")
	assert.Empty(t, Lint(doc))

	parsed, err := ParseString(doc)
	require.NoError(t, err)
	require.Len(t, parsed.Releases, 1)
	assert.Equal(t, []string{"", "real"}, parsed.Releases[0].Changes.In(Added))
}

func TestRender_EmptyDateMeansToday(t *testing.T) {
	got := Render(version.New(2, 0, 0), "", []string{"fix: x"}, nil)

	assert.Regexp(t, `^## \[2\.0\.0\] - \d{4}-\d{2}-\d{2}\n`, got)
	assert.True(t, strings.HasPrefix(got, "## [2.0.0] - "+FormatDate(time.Now())))
}

func TestMerge(t *testing.T) {
	fragment := "## [1.1.0] - 2026-02-01\n\n### Added\n\n- thing\n\n"

	tests := map[string]struct {
		existing string
		want     string
	}{
		"empty document gets the header": {
			existing: "",
			want:     Header + fragment,
		},
		"whitespace-only document gets the header": {
			existing: "\n  \n",
			want:     Header + fragment,
		},
		"inserted above newest release": {
			existing: Header + "## [1.0.0] - 2026-01-01\n\n### Fixed\n\n- old\n",
			want:     Header + fragment + "## [1.0.0] - 2026-01-01\n\n### Fixed\n\n- old\n",
		},
		"seam whitespace is normalized": {
			existing: "# Changelog\n\n\n\n   \n## [1.0.0] - 2026-01-01\n",
			want:     "# Changelog\n\n" + fragment + "## [1.0.0] - 2026-01-01\n",
		},
		"document without a release is appended to": {
			existing: "# Changelog\n\nNotes.\n\n\n",
			want:     "# Changelog\n\nNotes.\n\n" + fragment,
		},
		"document starting with a release heading": {
			existing: "## [1.0.0] - 2026-01-01\n",
			want:     fragment + "## [1.0.0] - 2026-01-01\n",
		},
		"unreleased section is treated as a release": {
			existing: "# Changelog\n\n## [Unreleased]\n\n### Added\n\n- wip\n",
			want:     "# Changelog\n\n" + fragment + "## [Unreleased]\n\n### Added\n\n- wip\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, Merge(tt.existing, fragment))
		})
	}
}

func TestMerge_FragmentIsTerminated(t *testing.T) {
	got := Merge("# Changelog\n\n## [1.0.0] - 2026-01-01\n", "## [1.1.0] - 2026-02-01")
	assert.Equal(t, "# Changelog\n\n## [1.1.0] - 2026-02-01\n\n## [1.0.0] - 2026-01-01\n", got)
}

func TestMerge_SequentialReleasesStayClean(t *testing.T) {
	releases := []struct {
		v     version.Version
		date  string
		lines []string
	}{
		{version.New(0, 1, 0), "2026-01-01", []string{"feat: initial"}},
		{version.New(0, 1, 1), "2026-01-02", []string{"fix: crash", "docs: typo"}},
		{version.New(0, 2, 0), "2026-01-03", nil},
		{version.New(1, 0, 0), "2026-01-04", []string{"feat!: rewrite", "security: bump deps", "revert: old"}},
	}

	doc := ""
	for _, r := range releases {
		doc = Merge(doc, Render(r.v, r.date, r.lines, nil))

		assert.Empty(t, Lint(doc), "lint issues after %s", r.v)
		assert.NotContains(t, doc, "\n\n\n")
		assert.True(t, strings.HasPrefix(doc, Header))
	}

	parsed, err := ParseString(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"1.0.0", "0.2.0", "0.1.1", "0.1.0"}, parsed.ListVersions())
	assert.Equal(t, 1, strings.Count(doc, "# Changelog\n"))
}

func TestWriteEntry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFile)

	require.NoError(t, WriteEntry(path, version.New(1, 0, 0), "2026-03-01", []string{"feat: first"}, nil))
	require.NoError(t, WriteEntry(path, version.New(1, 0, 1), "2026-03-02", []string{"fix: second"}, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.True(t, strings.HasPrefix(text, Header))
	assert.Less(t, strings.Index(text, "## [1.0.1]"), strings.Index(text, "## [1.0.0]"))
	assert.Empty(t, Lint(text))
}

func TestWriteEntry_UnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "CHANGELOG.md")
	err := WriteEntry(path, version.New(1, 0, 0), "2026-03-01", nil, nil)
	assert.Error(t, err)
}

func TestReadDocument_Missing(t *testing.T) {
	text, err := ReadDocument(filepath.Join(t.TempDir(), "nope.md"))
	require.NoError(t, err)
	assert.Empty(t, text)
}
