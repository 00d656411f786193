package harness

import (
	"fmt"
	"os"
	"os/exec"
	"time"
)

// DefaultWizardPrompt is the marker the wizard prints once it is ready to
// accept input.
const DefaultWizardPrompt = "Which wizard"

// WizardOptions configures an interactive wizard run.
type WizardOptions struct {
	Dir           string
	Env           map[string]string
	PromptPattern string // Marker to wait for before feeding input; defaults to DefaultWizardPrompt
}

// WizardResult holds the unnormalized output of a driven wizard run.
// Callers apply CleanOutput themselves if they want stable comparisons.
type WizardResult struct {
	Stdout string
	Stderr string
	Status int
}

// RunWizard spawns `lhci wizard` with extraArgs, waits for the initial
// prompt, then feeds each answer in order. An answer is only written after
// the previous one has been observed in the captured stdout, so input
// order is strict. The child process is killed on every exit path.
func RunWizard(extraArgs []string, answers []string, opts *WizardOptions) (WizardResult, error) {
	if opts == nil {
		opts = &WizardOptions{}
	}
	prompt := opts.PromptPattern
	if prompt == "" {
		prompt = DefaultWizardPrompt
	}

	cmd := exec.Command(binaryPath, append([]string{"wizard"}, extraArgs...)...)
	cmd.Dir = opts.Dir
	cmd.Env = Environ(opts.Env)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return WizardResult{}, fmt.Errorf("failed to open stdin pipe: %w", err)
	}

	proc, err := startProc(cmd)
	if err != nil {
		return WizardResult{}, fmt.Errorf("failed to spawn wizard: %w", err)
	}
	defer proc.Kill()

	result := func() WizardResult {
		return WizardResult{
			Stdout: proc.stdout.String(),
			Stderr: proc.stderr.String(),
			Status: proc.Status(),
		}
	}

	// The timeout message carries everything captured so far: when the
	// wizard never prints what we expect, the full transcript is the only
	// useful diagnostic.
	err = WaitUntil(func() bool { return proc.stdout.Contains(prompt) }, func() string {
		return fmt.Sprintf("expected wizard to print %q\nstdout: %s\nstderr: %s",
			prompt, proc.stdout.String(), proc.stderr.String())
	})
	if err != nil {
		return result(), err
	}

	for _, answer := range answers {
		if _, err := fmt.Fprintf(stdin, "%s\r\n", answer); err != nil {
			return result(), fmt.Errorf("failed to write wizard input %q: %w", answer, err)
		}

		err = WaitUntil(func() bool { return proc.stdout.Contains(answer) }, func() string {
			return fmt.Sprintf("expected wizard to consume input %q\nstdout: %s\nstderr: %s",
				answer, proc.stdout.String(), proc.stderr.String())
		})
		if err != nil {
			return result(), err
		}

		// The echo only proves the input was read; give the wizard a beat
		// to process it before the next answer arrives
		time.Sleep(inputDelay())
	}

	// End of scripted input
	_ = stdin.Close()

	// Non-fatal: the deferred kill makes a missed exit moot
	_ = WaitUntilMsg(proc.Exited, "wizard did not exit after input ended")

	return result(), nil
}

// inputDelay is longer on CI machines, which process wizard steps slower.
func inputDelay() time.Duration {
	if os.Getenv("CI") != "" {
		return 500 * time.Millisecond
	}
	return 50 * time.Millisecond
}
