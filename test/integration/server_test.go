package integration_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/CryptoMoneyBotz/lighthouse-ci/test/integration/harness"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerAnnouncesPort(t *testing.T) {
	srv, err := harness.StartServer("")
	require.NoError(t, err)

	assert.Greater(t, srv.Port, 1023, "expected an unprivileged OS-assigned port")
	assert.Contains(t, srv.Stdout(), "listening")

	// The generated database is relative to the working directory; Cleanup
	// must leave nothing behind, including the WAL side files
	srv.Cleanup()
	assert.NoFileExists(t, srv.SQLFile)
	assert.NoFileExists(t, srv.SQLFile+"-wal")
	assert.NoFileExists(t, srv.SQLFile+"-shm")
}

func TestServerProjectLifecycle(t *testing.T) {
	// Explicit sql path under the test temp root keeps WAL side files out
	// of the working directory
	srv, err := harness.StartServer(filepath.Join(t.TempDir(), harness.SQLFilePath()))
	require.NoError(t, err)
	defer srv.Cleanup()

	client := &http.Client{Timeout: 10 * time.Second}
	base := fmt.Sprintf("http://127.0.0.1:%d", srv.Port)

	// Version endpoint answers immediately after the announce line
	resp, err := client.Get(base + "/version")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Create a project
	body, _ := json.Marshal(map[string]string{
		"name":        "Integration Project",
		"externalUrl": "https://example.com",
	})
	resp, err = client.Post(base+"/v1/projects", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var project struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		AdminToken string `json:"adminToken"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&project))
	assert.Equal(t, "Integration Project", project.Name)
	assert.NotEmpty(t, project.ID)
	assert.NotEmpty(t, project.AdminToken)

	// Look it up by token
	lookup, _ := json.Marshal(map[string]string{"token": project.AdminToken})
	resp2, err := client.Post(base+"/v1/projects/lookup", "application/json", bytes.NewReader(lookup))
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)

	// Upload a report and read it back
	report, _ := json.Marshal(map[string]any{
		"url":         "https://example.com/",
		"performance": 0.93,
	})
	resp3, err := client.Post(base+"/v1/projects/"+project.ID+"/reports", "application/json", bytes.NewReader(report))
	require.NoError(t, err)
	resp3.Body.Close()
	assert.Equal(t, http.StatusCreated, resp3.StatusCode)

	resp4, err := client.Get(base + "/v1/projects/" + project.ID + "/reports")
	require.NoError(t, err)
	defer resp4.Body.Close()

	var reports []map[string]any
	require.NoError(t, json.NewDecoder(resp4.Body).Decode(&reports))
	assert.Len(t, reports, 1)

	// By now several requests went through the metrics middleware, so the
	// request counter must be exposed with samples recorded
	resp5, err := client.Get(base + "/metrics")
	require.NoError(t, err)
	defer resp5.Body.Close()
	require.Equal(t, http.StatusOK, resp5.StatusCode)

	metrics, err := io.ReadAll(resp5.Body)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "lhci_http_requests_total{")
	assert.Contains(t, string(metrics), `path="/v1/projects"`)
	assert.Contains(t, string(metrics), "lhci_http_request_duration_seconds_bucket")
}

func TestServerStdoutNormalizes(t *testing.T) {
	srv, err := harness.StartServer(filepath.Join(t.TempDir(), harness.SQLFilePath()))
	require.NoError(t, err)
	defer srv.Cleanup()

	harness.AssertOutputContains(t, srv.Stdout(), "Server listening on port XXXX")
}
