package harness

import (
	"errors"
	"time"
)

// Variables so tests can shrink the budget.
var (
	pollInterval = 50 * time.Millisecond
	pollBudget   = 30 * time.Second
)

// WaitUntil polls cond until it returns true. If the polling budget is
// exhausted first, it returns an error whose message is the describe
// label; describe runs lazily, only on failure, so callers can embed
// expensive diagnostics (like full captured output) for free on the
// happy path.
func WaitUntil(cond func() bool, describe func() string) error {
	if cond() {
		return nil
	}

	timeout := time.After(pollBudget)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			return errors.New(describe())
		case <-ticker.C:
			if cond() {
				return nil
			}
		}
	}
}

// WaitUntilMsg is WaitUntil with a fixed label.
func WaitUntilMsg(cond func() bool, label string) error {
	return WaitUntil(cond, func() string { return label })
}
