// SPDX-License-Identifier: MPL-2.0

package process_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwtool/mwtool/internal/process"
	"github.com/mwtool/mwtool/internal/process/processtest"
)

func TestDumpAutoload(t *testing.T) {
	t.Parallel()

	tests := []struct {
		composer string
		want     []string
	}{
		{"", []string{"composer", "dump-autoload"}},
		{"composer", []string{"composer", "dump-autoload"}},
		{"php composer.phar", []string{"php", "composer.phar", "dump-autoload"}},
	}

	for _, tt := range tests {
		runner := processtest.NewSuccessful()
		result, err := process.DumpAutoload(context.Background(), runner, tt.composer)
		require.NoError(t, err, "DumpAutoload(%q)", tt.composer)
		assert.True(t, result.Successful, "DumpAutoload(%q)", tt.composer)
		assert.True(t, runner.Called(tt.want...), "invocations = %q, want %q", runner.Invocations, tt.want)
	}
}

func TestDumpAutoload_Failure(t *testing.T) {
	t.Parallel()

	runner := processtest.NewFailing("Script failed")
	result, err := process.DumpAutoload(context.Background(), runner, "composer")
	require.NoError(t, err)
	assert.False(t, result.Successful)
	assert.Equal(t, "Script failed", result.Stderr)
}
