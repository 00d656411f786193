package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/CryptoMoneyBotz/lighthouse-ci/storage"
)

// HealthcheckCmd verifies the environment is ready for report collection
type HealthcheckCmd struct {
	Config          string `help:"Path to the configuration file" default:".lighthouserc.json"`
	Fatal           bool   `help:"Exit with a non-zero code when a check fails"`
	SQLDatabasePath string `name:"storage.sqlDatabasePath" help:"Verify this SQLite database is reachable" default:""`
}

type check struct {
	label    string
	passed   bool
	optional bool
}

// Run executes the healthcheck command
func (h *HealthcheckCmd) Run(cli *CLI) error {
	checks := []check{
		h.checkConfigFile(),
		h.checkGithubToken(),
	}
	if h.SQLDatabasePath != "" {
		checks = append(checks, h.checkStorage())
	}

	failed := 0
	for _, c := range checks {
		glyph := "✓"
		if !c.passed {
			glyph = "✘"
			if !c.optional {
				failed++
			}
		}
		fmt.Printf("%s  %s\n", glyph, c.label)
	}

	if failed > 0 {
		fmt.Printf("Healthcheck failed! (%d checks)\n", failed)
		if h.Fatal {
			return errors.New("healthcheck failed")
		}
		return nil
	}

	fmt.Println("Healthcheck passed!")
	return nil
}

func (h *HealthcheckCmd) checkConfigFile() check {
	if os.Getenv("LHCI_NO_LIGHTHOUSERC") == "1" {
		return check{label: "Configuration file skipped (LHCI_NO_LIGHTHOUSERC)", passed: true}
	}

	_, err := os.Stat(h.Config)
	return check{label: "Configuration file found", passed: err == nil}
}

func (h *HealthcheckCmd) checkGithubToken() check {
	// GitHub status reporting is optional, so a missing token never fails
	// the healthcheck outright
	return check{
		label:    "GitHub token set",
		passed:   os.Getenv("LHCI_GITHUB_TOKEN") != "" || os.Getenv("LHCI_GITHUB_APP_TOKEN") != "",
		optional: true,
	}
}

func (h *HealthcheckCmd) checkStorage() check {
	store, err := storage.NewStore(h.SQLDatabasePath)
	if err != nil {
		return check{label: "Storage reachable", passed: false}
	}
	defer store.Close()
	return check{label: "Storage reachable", passed: true}
}
