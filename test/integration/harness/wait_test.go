package harness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shortenPolling shrinks the poll budget for tests that exercise timeouts.
func shortenPolling(t *testing.T) {
	t.Helper()
	oldInterval, oldBudget := pollInterval, pollBudget
	pollInterval = 5 * time.Millisecond
	pollBudget = 100 * time.Millisecond
	t.Cleanup(func() {
		pollInterval = oldInterval
		pollBudget = oldBudget
	})
}

func TestWaitUntilResolvesOnThirdPoll(t *testing.T) {
	shortenPolling(t)

	calls := 0
	err := WaitUntilMsg(func() bool {
		calls++
		return calls >= 3
	}, "condition never became true")

	require.NoError(t, err)
	assert.GreaterOrEqual(t, calls, 3)
}

func TestWaitUntilImmediateSuccess(t *testing.T) {
	err := WaitUntilMsg(func() bool { return true }, "unused")
	require.NoError(t, err)
}

func TestWaitUntilTimesOutWithLabel(t *testing.T) {
	shortenPolling(t)

	err := WaitUntilMsg(func() bool { return false }, "server never came up")
	require.Error(t, err)
	assert.Equal(t, "server never came up", err.Error())
}

func TestWaitUntilLabelIsLazy(t *testing.T) {
	shortenPolling(t)

	evaluated := false
	err := WaitUntil(func() bool { return true }, func() string {
		evaluated = true
		return "should not run"
	})

	require.NoError(t, err)
	assert.False(t, evaluated, "describe must only run on failure")
}

func TestWaitUntilLabelEvaluatedOnFailure(t *testing.T) {
	shortenPolling(t)

	evaluated := false
	err := WaitUntil(func() bool { return false }, func() string {
		evaluated = true
		return "expected output missing"
	})

	require.Error(t, err)
	assert.True(t, evaluated)
	assert.Equal(t, "expected output missing", err.Error())
}
