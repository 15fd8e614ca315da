package changelog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument(t *testing.T) *Document {
	t.Helper()
	doc, err := ParseString(sampleChangelog)
	require.NoError(t, err)
	return doc
}

func TestGetVersion(t *testing.T) {
	doc := sampleDocument(t)

	tests := map[string]struct {
		query   string
		want    string
		wantErr bool
	}{
		"bare":       {query: "1.1.0", want: "1.1.0"},
		"v prefix":   {query: "v1.0.0", want: "1.0.0"},
		"unreleased": {query: "unreleased", want: "Unreleased"},
		"missing":    {query: "9.9.9", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r, err := doc.GetVersion(tt.query)
			if tt.wantErr {
				var nf *VersionNotFoundError
				require.True(t, errors.As(err, &nf))
				assert.Equal(t, []string{"Unreleased", "1.1.0", "1.0.0"}, nf.AvailableVersions)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Version)
		})
	}
}

func TestGetLastN(t *testing.T) {
	doc := sampleDocument(t)

	tests := map[string]struct {
		n         int
		wantTexts []string
	}{
		"zero":     {n: 0, wantTexts: []string{}},
		"negative": {n: -1, wantTexts: []string{}},
		"two":      {n: 2, wantTexts: []string{"Work in progress", "New flag"}},
		"all": {n: 100, wantTexts: []string{
			"Work in progress",
			"New flag",
			"Another flag that wraps onto a second line",
			"Crash on empty input",
			"**BREAKING:** config moved",
		}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			entries := doc.GetLastN(tt.n)
			texts := make([]string, len(entries))
			for i, e := range entries {
				texts[i] = e.Text
			}
			assert.Equal(t, tt.wantTexts, texts)
		})
	}
}

func TestEntriesCarryContext(t *testing.T) {
	doc := sampleDocument(t)
	entries := doc.AllEntries()

	require.Len(t, entries, 5)
	assert.Equal(t, Entry{Text: "Crash on empty input", Category: Fixed, Version: "1.1.0"}, entries[3])
	assert.Equal(t, 5, doc.GetEntryCount())
}

func TestGetLatestRelease(t *testing.T) {
	doc := sampleDocument(t)
	latest := doc.GetLatestRelease()
	require.NotNil(t, latest)
	assert.Equal(t, "1.1.0", latest.Version)

	empty := &Document{Releases: []Release{{Version: "Unreleased"}}}
	assert.Nil(t, empty.GetLatestRelease())
}
