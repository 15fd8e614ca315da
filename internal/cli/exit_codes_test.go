package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	clierrors "github.com/ariel-frischer/bump/internal/errors"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  error
		want int
	}{
		"nil error":          {err: nil, want: ExitSuccess},
		"exit error":         {err: NewExitError(ExitLintFailed), want: 6},
		"wrapped exit error": {err: fmt.Errorf("lint: %w", NewExitError(ExitLintFailed)), want: 6},
		"argument error":     {err: clierrors.NewArgumentError("bad flag"), want: ExitInvalidArguments},
		"config error":       {err: clierrors.NewConfigError("bad preset"), want: ExitInvalidArguments},
		"prerequisite error": {err: clierrors.NewPrerequisiteError("no repo"), want: ExitMissingPrerequisite},
		"runtime error":      {err: clierrors.NewRuntimeError("push failed"), want: ExitFailure},
		"generic error":      {err: errors.New("generic error"), want: ExitFailure},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ExitCode(tc.err))
		})
	}
}

func TestExitError_Error(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "exit code 6", NewExitError(6).Error())
}
