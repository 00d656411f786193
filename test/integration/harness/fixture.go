package harness

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"
)

const (
	deleteAttempts  = 3
	deleteRetryWait = 1 * time.Second
)

// WithTempDir creates a uniquely-named directory under the OS temp root,
// runs fn with its path, and removes the directory afterward. Removal runs
// on every exit path, including when fn returns an error.
func WithTempDir(fn func(dir string) error) error {
	dir, err := os.MkdirTemp("", "lhci-")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			log.Printf("Warning: failed to cleanup temp dir %s: %v", dir, err)
		}
	}()

	return fn(dir)
}

// RetryDelete removes path, retrying a few times to tolerate OS-level file
// locks. Missing files succeed trivially. Fixture cleanup failures must not
// fail the test itself, so after the final attempt the error is dropped.
func RetryDelete(path string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return
	}

	for i := 0; i < deleteAttempts; i++ {
		if err := os.Remove(path); err == nil {
			return
		}
		if i < deleteAttempts-1 {
			time.Sleep(deleteRetryWait)
		}
	}
}

// SQLFilePath returns a unique relative filename for a throwaway SQLite
// database. It does not touch the filesystem; the randomized name makes
// collisions negligible for test purposes.
func SQLFilePath() string {
	return fmt.Sprintf("cli-test-%d.tmp.sql", rand.Intn(1_000_000_000))
}
