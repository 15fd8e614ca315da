package cli

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/bump/internal/testutil"
)

func init() {
	color.NoColor = true
}

// resetFlags restores every flag of cmd and its children to its default so
// consecutive executions of the shared command tree start clean.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs bump with args and returns stdout, stderr and the error.
// Tests using it must not run in parallel.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	resetFlags(rootCmd)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := Execute()
	return stdout.String(), stderr.String(), err
}

// projectRepo creates a repository with a tagged Node package and switches
// into it. Environment overrides are cleared so only the test's
// configuration applies.
func projectRepo(t *testing.T) *testutil.Repo {
	t.Helper()

	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "BUMP_") {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}

	repo := testutil.NewRepo(t)
	repo.WriteFile("package.json", "{\n  \"name\": \"demo\",\n  \"version\": \"1.0.0\"\n}\n")
	repo.CommitFiles("chore: init", "package.json")
	repo.Tag("v1.0.0")
	repo.Chdir()
	return repo
}

func requireExitCode(t *testing.T, want int, err error) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, want, ExitCode(err), err.Error())
}
