// Package harness provides utilities for integration testing the lhci CLI.
// It handles binary compilation, environment isolation, command execution,
// interactive wizard driving, and output normalization.
//
// Environment variables managed:
//   - LHCI_GITHUB_TOKEN / LHCI_GITHUB_APP_TOKEN: Blanked to avoid real API calls
//   - NO_UPDATE_NOTIFIER: Set to suppress update banners
//   - LHCI_NO_LIGHTHOUSERC: Set so ambient config files are ignored
package harness
