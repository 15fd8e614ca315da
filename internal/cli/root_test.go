package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCmd_Structure(t *testing.T) {
	assert.Equal(t, "bump", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.NotEmpty(t, rootCmd.Example)
}

func TestRootCmd_Flags(t *testing.T) {
	tests := map[string]struct {
		flagName   string
		shorthand  string
		persistent bool
	}{
		"config":           {flagName: "config", shorthand: "c", persistent: true},
		"debug":            {flagName: "debug", persistent: true},
		"log-file":         {flagName: "log-file", persistent: true},
		"preset":           {flagName: "preset", persistent: true},
		"tag-prefix":       {flagName: "tag-prefix", persistent: true},
		"commit-prefix":    {flagName: "commit-prefix", persistent: true},
		"package-files":    {flagName: "package-files", persistent: true},
		"changelog-file":   {flagName: "changelog-file", persistent: true},
		"push":             {flagName: "push", shorthand: "p"},
		"quiet":            {flagName: "quiet", shorthand: "q"},
		"tag":              {flagName: "tag", shorthand: "t"},
		"release-notes":    {flagName: "release-notes", shorthand: "r"},
		"raw":              {flagName: "raw"},
		"update-major-tag": {flagName: "update-major-tag"},
		"update-minor-tag": {flagName: "update-minor-tag"},
		"changelog":        {flagName: "changelog"},
		"git-user-name":    {flagName: "git-user-name"},
		"git-user-email":   {flagName: "git-user-email"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			flags := rootCmd.Flags()
			if tt.persistent {
				flags = rootCmd.PersistentFlags()
			}
			flag := flags.Lookup(tt.flagName)
			if assert.NotNil(t, flag, "flag %s should exist", tt.flagName) {
				assert.Equal(t, tt.shorthand, flag.Shorthand)
				assert.NotEmpty(t, flag.Usage)
			}
		})
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	tests := map[string]struct {
		group string
	}{
		"analyze":   {group: GroupRelease},
		"changelog": {group: GroupChangelog},
		"config":    {group: GroupConfiguration},
		"version":   {group: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{name})
			if assert.NoError(t, err) {
				assert.Equal(t, name, cmd.Name())
				assert.Equal(t, tt.group, cmd.GroupID)
			}
		})
	}

	assert.Len(t, rootCmd.Groups(), 3)
}
