package integration_test

import (
	"path/filepath"
	"testing"

	"github.com/CryptoMoneyBotz/lighthouse-ci/test/integration/harness"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWizardScriptedAnswers(t *testing.T) {
	result, err := harness.RunWizard(nil, []string{"1", "token-value"}, nil)
	require.NoError(t, err)

	// Every scripted answer must have been echoed back before the process
	// was terminated
	assert.Contains(t, result.Stdout, "1")
	assert.Contains(t, result.Stdout, "token-value")
	assert.Contains(t, result.Stdout, "Which wizard do you want to run?")
}

func TestWizardCreatesProject(t *testing.T) {
	result, err := harness.RunWizard(nil, []string{"1", "My Site", "https://example.com"}, nil)
	require.NoError(t, err)

	assert.Contains(t, result.Stdout, "Created project My Site")
	assert.Contains(t, result.Stdout, "Use token")

	// The project id and admin token are both UUIDs
	uuids := harness.ExtractUUIDs(result.Stdout)
	assert.Len(t, uuids, 2)
	assert.NotEqual(t, uuids[0], uuids[1])
}

func TestWizardPersistsProject(t *testing.T) {
	err := harness.WithTempDir(func(dir string) error {
		dbPath := filepath.Join(dir, harness.SQLFilePath())

		result, wizErr := harness.RunWizard(
			[]string{"--storage.sqlDatabasePath=" + dbPath},
			[]string{"1", "Stored Site"},
			nil,
		)
		require.NoError(t, wizErr)
		assert.Contains(t, result.Stdout, "Created project Stored Site")

		// The database file must exist once the wizard persisted the project
		assert.FileExists(t, dbPath)
		return nil
	})
	require.NoError(t, err)
}

func TestWizardCustomPromptPattern(t *testing.T) {
	result, err := harness.RunWizard(nil, []string{"new-project"}, &harness.WizardOptions{
		PromptPattern: "Which wizard do you want to run?",
	})
	require.NoError(t, err)
	assert.Contains(t, result.Stdout, "new-project")
}

func TestWizardNormalizedTranscript(t *testing.T) {
	result, err := harness.RunWizard(nil, []string{"1", "Normalized"}, nil)
	require.NoError(t, err)

	// The driver returns raw output; normalization is the caller's call
	harness.AssertOutputContains(t, result.Stdout, "Created project Normalized (<UUID>)!")
	harness.AssertOutputContains(t, result.Stdout, "Use token <UUID> to add data.")
}
