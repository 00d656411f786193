package harness

import (
	"os"
	"sort"
	"strings"
)

// baselineEnv blanks credential variables and silences noisy CLI behavior
// so runs are deterministic regardless of the ambient shell.
var baselineEnv = map[string]string{
	"LHCI_GITHUB_TOKEN":     "",
	"LHCI_GITHUB_APP_TOKEN": "",
	"NO_UPDATE_NOTIFIER":    "1",
	"LHCI_NO_LIGHTHOUSERC":  "1",
}

// BuildEnv returns a fresh environment map: the ambient process environment
// overlaid with the harness baseline, overlaid with extra. Caller values win
// over the baseline, the baseline wins over the ambient environment. The
// ambient environment itself is never mutated, so concurrent runs do not
// interfere.
func BuildEnv(extra map[string]string) map[string]string {
	env := make(map[string]string, len(baselineEnv)+len(extra)+32)

	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			env[parts[0]] = parts[1]
		}
	}
	for k, v := range baselineEnv {
		env[k] = v
	}
	for k, v := range extra {
		env[k] = v
	}

	return env
}

// Environ renders BuildEnv's map in the KEY=value form exec.Cmd expects,
// sorted for stable diagnostics.
func Environ(extra map[string]string) []string {
	env := BuildEnv(extra)

	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
