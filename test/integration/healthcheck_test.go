package integration_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/CryptoMoneyBotz/lighthouse-ci/test/integration/harness"

	"github.com/stretchr/testify/require"
)

func TestHealthcheckWithBaselineEnv(t *testing.T) {
	result := harness.RunCLI([]string{"healthcheck"}, nil)

	harness.AssertSuccess(t, result)
	// The config check is skipped by the baseline LHCI_NO_LIGHTHOUSERC and
	// the blanked GitHub token shows as a normalized failure glyph
	harness.AssertStdoutContains(t, result, "✓  Configuration file skipped")
	harness.AssertStdoutContains(t, result, "X  GitHub token set")
	harness.AssertStdoutContains(t, result, "Healthcheck passed!")
}

func TestHealthcheckMissingConfigIsFatal(t *testing.T) {
	err := harness.WithTempDir(func(dir string) error {
		result := harness.RunCLI([]string{"healthcheck", "--fatal"}, &harness.RunOptions{
			Dir: dir,
			Env: map[string]string{"LHCI_NO_LIGHTHOUSERC": ""},
		})

		harness.AssertFailure(t, result)
		harness.AssertStdoutContains(t, result, "X  Configuration file found")
		return nil
	})
	require.NoError(t, err)
}

func TestHealthcheckFindsConfig(t *testing.T) {
	err := harness.WithTempDir(func(dir string) error {
		configPath := filepath.Join(dir, ".lighthouserc.json")
		require.NoError(t, os.WriteFile(configPath, []byte("{}"), 0644))

		result := harness.RunCLI([]string{"healthcheck"}, &harness.RunOptions{
			Dir: dir,
			Env: map[string]string{"LHCI_NO_LIGHTHOUSERC": ""},
		})

		harness.AssertSuccess(t, result)
		harness.AssertStdoutContains(t, result, "✓  Configuration file found")
		return nil
	})
	require.NoError(t, err)
}

func TestHealthcheckStorage(t *testing.T) {
	err := harness.WithTempDir(func(dir string) error {
		dbPath := filepath.Join(dir, harness.SQLFilePath())

		result := harness.RunCLI([]string{
			"healthcheck",
			"--storage.sqlDatabasePath=" + dbPath,
		}, nil)

		harness.AssertSuccess(t, result)
		harness.AssertStdoutContains(t, result, "✓  Storage reachable")
		return nil
	})
	require.NoError(t, err)
}
