package harness

import (
	"bufio"
	"io"
	"os/exec"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// OutputBuffer accumulates streamed process output for later predicate
// evaluation and final retrieval. It is append-only: text is never
// truncated or rewritten, so pollers can safely re-read it.
type OutputBuffer struct {
	mu  sync.Mutex
	buf strings.Builder
}

// Append adds text to the buffer.
func (b *OutputBuffer) Append(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.WriteString(text)
}

// String returns everything accumulated so far.
func (b *OutputBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Contains reports whether the accumulated output contains substr.
func (b *OutputBuffer) Contains(substr string) bool {
	return strings.Contains(b.String(), substr)
}

// procHandle wraps a spawned child process with accumulating stdout/stderr
// buffers and the last-observed exit status (-1 until the process exits).
type procHandle struct {
	cmd     *exec.Cmd
	stdout  *OutputBuffer
	stderr  *OutputBuffer
	readers errgroup.Group

	mu     sync.Mutex
	status int
	exited bool
}

// startProc spawns cmd with stdout/stderr readers feeding the handle's
// buffers and a waiter recording the exit status. The caller may have
// attached a stdin pipe to cmd beforehand.
func startProc(cmd *exec.Cmd) (*procHandle, error) {
	h := &procHandle{
		cmd:    cmd,
		stdout: &OutputBuffer{},
		stderr: &OutputBuffer{},
		status: -1,
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	h.readers.Go(func() error { return drain(stdout, h.stdout) })
	h.readers.Go(func() error { return drain(stderr, h.stderr) })

	go func() {
		// Readers must finish before Wait closes the pipes
		_ = h.readers.Wait()
		err := cmd.Wait()

		status := 0
		if exitErr, ok := err.(*exec.ExitError); ok {
			status = exitErr.ExitCode()
		} else if err != nil {
			status = -1
		}

		h.mu.Lock()
		h.status = status
		h.exited = true
		h.mu.Unlock()
	}()

	return h, nil
}

// Status returns the recorded exit status, -1 while the process is running.
func (h *procHandle) Status() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

// Exited reports whether the exit status has been recorded.
func (h *procHandle) Exited() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.exited
}

// Kill terminates the child. Safe to call after the process has exited.
func (h *procHandle) Kill() {
	if h.cmd.Process != nil {
		_ = h.cmd.Process.Kill()
	}
}

// drain copies r into buf chunk by chunk until EOF.
func drain(r io.Reader, buf *OutputBuffer) error {
	reader := bufio.NewReader(r)
	chunk := make([]byte, 4096)
	for {
		n, err := reader.Read(chunk)
		if n > 0 {
			buf.Append(string(chunk[:n]))
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}
