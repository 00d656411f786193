// Package integration_test provides end-to-end tests for the lhci CLI.
// Tests compile the binary once via TestMain and drive it through the
// harness package: synchronous runs, interactive wizard sessions, and
// ephemeral servers.
package integration_test

import (
	"log"
	"os"
	"testing"

	"github.com/CryptoMoneyBotz/lighthouse-ci/test/integration/harness"
)

func TestMain(m *testing.M) {
	// Build binary once before all tests
	_, err := harness.BuildBinary()
	if err != nil {
		log.Fatalf("Failed to build binary: %v", err)
	}

	// Run tests
	code := m.Run()

	// Cleanup
	harness.CleanupBinary()

	os.Exit(code)
}
