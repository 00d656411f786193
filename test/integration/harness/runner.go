package harness

import (
	"bytes"
	"context"
	"os/exec"
	"time"
)

const runTimeout = 30 * time.Second

// RunOptions overrides the working directory and environment of a run.
type RunOptions struct {
	Dir string
	Env map[string]string
}

// RunResult is the immutable record of a completed synchronous run.
// Stdout and Stderr are normalized via CleanOutput; UUIDs holds every
// UUID-shaped substring found in the raw stdout before normalization.
type RunResult struct {
	Stdout string
	Stderr string
	Status int
	UUIDs  []string
}

// RunCLI executes the lhci binary with the given arguments and blocks until
// it exits. The process environment is the harness baseline plus
// opts.Env. A nil opts is equivalent to the zero value.
func RunCLI(args []string, opts *RunOptions) RunResult {
	if opts == nil {
		opts = &RunOptions{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binaryPath, args...)
	cmd.Dir = opts.Dir
	cmd.Env = Environ(opts.Env)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	status := 0
	if exitErr, ok := err.(*exec.ExitError); ok {
		status = exitErr.ExitCode()
	} else if err != nil {
		// Spawn failures and timeouts have no exit status yet
		status = -1
	}

	rawStdout := stdout.String()
	return RunResult{
		Stdout: CleanOutput(rawStdout),
		Stderr: CleanOutput(stderr.String()),
		Status: status,
		UUIDs:  ExtractUUIDs(rawStdout),
	}
}
