package changelog

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRelease_Plain(t *testing.T) {
	r := &Release{Version: "1.2.0", Date: "2026-01-15"}
	r.Changes.Add(Fixed, "bug")
	r.Changes.Add(Added, "feature")

	var buf bytes.Buffer
	require.NoError(t, FormatRelease(r, &buf, FormatOptions{Plain: true, MaxWidth: 80}))

	assert.Equal(t, "## v1.2.0 (2026-01-15)\n\n### Added\n  - feature\n\n### Fixed\n  - bug\n", buf.String())
}

func TestFormatTerminal_GroupsByVersion(t *testing.T) {
	entries := []Entry{
		{Text: "wip", Category: Added, Version: "Unreleased"},
		{Text: "a", Category: Fixed, Version: "1.0.0"},
		{Text: "b", Category: Added, Version: "1.0.0"},
	}

	var buf bytes.Buffer
	require.NoError(t, FormatTerminal(entries, &buf, FormatOptions{Plain: true, MaxWidth: 80}))

	out := buf.String()
	assert.Contains(t, out, "## Unreleased\n")
	assert.Contains(t, out, "## v1.0.0\n")
	assert.Less(t, strings.Index(out, "### Added\n  - b"), strings.Index(out, "### Fixed\n  - a"))
}

func TestFormatTerminal_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatTerminal(nil, &buf, FormatOptions{}))
	assert.Empty(t, buf.String())
}

func TestWrapText(t *testing.T) {
	tests := map[string]struct {
		text  string
		width int
		want  string
	}{
		"fits":           {text: "short", width: 10, want: "short"},
		"breaks at word": {text: "one two three", width: 8, want: "one two\n  three"},
		"no width":       {text: "anything goes", width: 0, want: "anything goes"},
		"long word kept": {text: "see https://example.com/a/very/long/path", width: 10, want: "see\n  https://example.com/a/very/long/path"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrapText(tt.text, tt.width, "  "))
		})
	}
}

func TestFormatRelease_Breaking(t *testing.T) {
	r := &Release{Version: "2.0.0", Date: "2026-03-01"}
	r.Changes.Add(Changed, BreakingMarker+"config moved to .versionrc.yml")
	r.Changes.Add(Changed, "faster tag lookup")

	var buf bytes.Buffer
	require.NoError(t, FormatRelease(r, &buf, FormatOptions{Plain: true, MaxWidth: 80}))

	assert.Equal(t, "## v2.0.0 (2026-03-01)\n\n### Changed\n"+
		"  - BREAKING: config moved to .versionrc.yml\n"+
		"  - faster tag lookup\n", buf.String())
	assert.NotContains(t, buf.String(), "**")
}

func TestFormatRelease_WrapsLongEntries(t *testing.T) {
	r := &Release{Version: "1.0.0", Date: "2026-03-01"}
	r.Changes.Add(Fixed, "tags pointing at merge commits are found again")

	var buf bytes.Buffer
	require.NoError(t, FormatRelease(r, &buf, FormatOptions{Plain: true, MaxWidth: 24}))

	assert.Contains(t, buf.String(), "  - tags pointing at\n    merge commits are\n    found again\n")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestFormatRelease_ReportsWriteError(t *testing.T) {
	r := &Release{Version: "1.0.0", Date: "2026-03-01"}
	r.Changes.Add(Added, "x")

	err := FormatRelease(r, failingWriter{}, FormatOptions{Plain: true})
	assert.EqualError(t, err, "disk full")
}
