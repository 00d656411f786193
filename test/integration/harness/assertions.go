package harness

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertSuccess verifies the command succeeded with exit code 0.
func AssertSuccess(tb testing.TB, result RunResult) {
	tb.Helper()
	assert.Equal(tb, 0, result.Status,
		"Expected success (exit 0), got %d.\nStdout: %s\nStderr: %s",
		result.Status, result.Stdout, result.Stderr)
}

// AssertFailure verifies the command failed with non-zero exit code.
func AssertFailure(tb testing.TB, result RunResult) {
	tb.Helper()
	assert.NotEqual(tb, 0, result.Status,
		"Expected failure (non-zero exit), got success.\nStdout: %s",
		result.Stdout)
}

// AssertExitCode verifies the command exited with a specific code.
func AssertExitCode(tb testing.TB, result RunResult, expected int) {
	tb.Helper()
	assert.Equal(tb, expected, result.Status,
		"Expected exit code %d, got %d.\nStdout: %s\nStderr: %s",
		expected, result.Status, result.Stdout, result.Stderr)
}

// AssertStdoutContains verifies stdout contains the expected string.
func AssertStdoutContains(tb testing.TB, result RunResult, expected string) {
	tb.Helper()
	assert.Contains(tb, result.Stdout, expected,
		"Expected stdout to contain %q.\nActual stdout: %s",
		expected, result.Stdout)
}

// AssertStdoutNotContains verifies stdout does not contain the string.
func AssertStdoutNotContains(tb testing.TB, result RunResult, unexpected string) {
	tb.Helper()
	assert.NotContains(tb, result.Stdout, unexpected,
		"Expected stdout NOT to contain %q.\nActual stdout: %s",
		unexpected, result.Stdout)
}

// AssertStderrContains verifies stderr contains the expected string.
func AssertStderrContains(tb testing.TB, result RunResult, expected string) {
	tb.Helper()
	assert.Contains(tb, result.Stderr, expected,
		"Expected stderr to contain %q.\nActual stderr: %s",
		expected, result.Stderr)
}

// AssertStderrEmpty verifies stderr is empty.
func AssertStderrEmpty(tb testing.TB, result RunResult) {
	tb.Helper()
	assert.Empty(tb, strings.TrimSpace(result.Stderr),
		"Expected empty stderr, got: %s", result.Stderr)
}

// AssertOutputContains verifies that output, once normalized, contains the
// expected string. Use it for raw transcripts (wizard runs, server stdout)
// where volatile values would otherwise break the comparison.
func AssertOutputContains(tb testing.TB, output, expected string) {
	tb.Helper()
	clean := CleanOutput(output)
	assert.Contains(tb, clean, expected,
		"Expected normalized output to contain %q.\nNormalized output: %s",
		expected, clean)
}

// AssertUUIDCount verifies how many UUID-shaped values the run printed.
func AssertUUIDCount(tb testing.TB, result RunResult, expected int) {
	tb.Helper()
	require.Len(tb, result.UUIDs, expected,
		"Expected %d UUIDs in stdout, got %v.\nStdout: %s",
		expected, result.UUIDs, result.Stdout)
}
