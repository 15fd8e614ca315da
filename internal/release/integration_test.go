package release

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/bump/internal/git"
	"github.com/ariel-frischer/bump/internal/strategy"
	"github.com/ariel-frischer/bump/internal/testutil"
)

func TestRun_RealRepository(t *testing.T) {
	tr := testutil.NewRepo(t)
	tr.WriteFile("package.json", "{\n  \"name\": \"demo\",\n  \"version\": \"1.0.0\"\n}\n")
	tr.CommitFiles("chore: init", "package.json")
	tr.Tag("v1.0.0")
	tr.Commit("feat: add search")
	tr.Commit("fix(ui): button alignment")

	repo, err := git.Open(tr.Dir)
	require.NoError(t, err)

	opts := baseOptions()
	opts.Tag = true
	opts.ReleaseNotes = true
	opts.UpdateMajorTag = true
	opts.Changelog = true
	opts.ChangelogFile = tr.Path("CHANGELOG.md")

	var out bytes.Buffer
	runner := &Runner{
		Repo:     repo,
		Strategy: strategy.NewNode([]string{tr.Path("package.json")}),
		Options:  opts,
		Out:      &out,
		Now:      func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) },
	}

	res, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.1.0", res.Next.String())

	manifest, err := os.ReadFile(tr.Path("package.json"))
	require.NoError(t, err)
	assert.Contains(t, string(manifest), `"version": "1.1.0"`)

	log, err := os.ReadFile(tr.Path("CHANGELOG.md"))
	require.NoError(t, err)
	assert.Contains(t, string(log), "## [1.1.0] - 2026-03-01")

	assert.Equal(t, "chore: bump version to 1.1.0", tr.HeadMessage())
	assert.Equal(t, tr.Head(), tr.TagTarget("v1.1.0"))
	assert.Equal(t, tr.Head(), tr.TagTarget("v1"))

	// A second run finds only its own release commit and does nothing.
	out.Reset()
	res, err = runner.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Released())
	assert.Equal(t, "v1.1.0", res.LastTag)
	assert.Contains(t, out.String(), "No commits since last tag.\n")
}
