package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestAnalyze_Formats(t *testing.T) {
	repo := projectRepo(t)
	repo.Commit("feat!: drop legacy API")
	repo.Commit("wip: experiments")

	t.Run("text", func(t *testing.T) {
		stdout, _, err := execute(t, "analyze")
		require.NoError(t, err)

		assert.Contains(t, stdout, "Current version: 1.0.0\n")
		assert.Contains(t, stdout, "Last tag: v1.0.0\n")
		assert.Contains(t, stdout, "Commits: 2\n")
		assert.Contains(t, stdout, "Version bump: MAJOR\n")
		assert.Contains(t, stdout, "Next version: 2.0.0\n")
		assert.Contains(t, stdout, "  - Major: feat!: drop legacy API\n")
		assert.Contains(t, stdout, "  - wip: experiments\n")
	})

	t.Run("json", func(t *testing.T) {
		stdout, _, err := execute(t, "analyze", "--format", "json")
		require.NoError(t, err)

		var got struct {
			Current  string `json:"current"`
			Next     string `json:"next"`
			LastTag  string `json:"last_tag"`
			Analysis struct {
				Bump    string   `json:"bump"`
				Unknown []string `json:"unknown"`
			} `json:"analysis"`
		}
		require.NoError(t, json.Unmarshal([]byte(stdout), &got))
		assert.Equal(t, "1.0.0", got.Current)
		assert.Equal(t, "2.0.0", got.Next)
		assert.Equal(t, "v1.0.0", got.LastTag)
		assert.Equal(t, "major", got.Analysis.Bump)
		assert.Equal(t, []string{"wip: experiments"}, got.Analysis.Unknown)
	})

	t.Run("yaml", func(t *testing.T) {
		stdout, _, err := execute(t, "analyze", "-f", "yaml")
		require.NoError(t, err)

		var got map[string]interface{}
		require.NoError(t, yaml.Unmarshal([]byte(stdout), &got))
		assert.Equal(t, "2.0.0", got["next"])
	})

	t.Run("unknown format", func(t *testing.T) {
		_, stderr, err := execute(t, "analyze", "--format", "xml")
		requireExitCode(t, ExitInvalidArguments, err)
		assert.Contains(t, stderr, `unknown format "xml"`)
	})

	// Analysis never tags.
	_, err := repo.Repo.Tag("v2.0.0")
	assert.Error(t, err)
}

func TestAnalyze_NothingToRelease(t *testing.T) {
	repo := projectRepo(t)
	repo.Commit("docs: readme")

	stdout, _, err := execute(t, "analyze")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Version bump: NONE\n")
	assert.Contains(t, stdout, "No version bump required.\n")
	assert.NotContains(t, stdout, "Next version")
}
