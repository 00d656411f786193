package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEnvBaseline(t *testing.T) {
	env := BuildEnv(map[string]string{"FOO": "bar"})

	assert.Equal(t, "", env["LHCI_GITHUB_TOKEN"])
	assert.Equal(t, "", env["LHCI_GITHUB_APP_TOKEN"])
	assert.Equal(t, "1", env["NO_UPDATE_NOTIFIER"])
	assert.Equal(t, "1", env["LHCI_NO_LIGHTHOUSERC"])
	assert.Equal(t, "bar", env["FOO"])
}

func TestBuildEnvBaselineWinsOverAmbient(t *testing.T) {
	t.Setenv("LHCI_GITHUB_TOKEN", "real-secret")
	t.Setenv("NO_UPDATE_NOTIFIER", "0")

	env := BuildEnv(nil)

	assert.Equal(t, "", env["LHCI_GITHUB_TOKEN"])
	assert.Equal(t, "1", env["NO_UPDATE_NOTIFIER"])
}

func TestBuildEnvCallerWinsOverBaseline(t *testing.T) {
	env := BuildEnv(map[string]string{"LHCI_GITHUB_TOKEN": "override"})
	assert.Equal(t, "override", env["LHCI_GITHUB_TOKEN"])
}

func TestBuildEnvInheritsAmbient(t *testing.T) {
	t.Setenv("HARNESS_AMBIENT_PROBE", "present")

	env := BuildEnv(nil)
	assert.Equal(t, "present", env["HARNESS_AMBIENT_PROBE"])
}

func TestBuildEnvReturnsIndependentMaps(t *testing.T) {
	a := BuildEnv(nil)
	b := BuildEnv(nil)

	a["LHCI_GITHUB_TOKEN"] = "mutated"
	assert.Equal(t, "", b["LHCI_GITHUB_TOKEN"])
}

func TestEnvironFormat(t *testing.T) {
	env := Environ(map[string]string{"FOO": "bar"})

	require.NotEmpty(t, env)
	assert.Contains(t, env, "FOO=bar")
	assert.Contains(t, env, "NO_UPDATE_NOTIFIER=1")
	assert.Contains(t, env, "LHCI_GITHUB_TOKEN=")
}
