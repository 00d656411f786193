package cmd

import (
	"os"

	"github.com/CryptoMoneyBotz/lighthouse-ci/logging"

	"github.com/alecthomas/kong"
)

// CLI represents the command-line interface structure
type CLI struct {
	Version     kong.VersionFlag `help:"Show version information"`
	Debug       bool             `help:"Enable debug logging to file" short:"d"`
	MaxLogFiles int              `help:"Maximum number of log files to keep (0 = unlimited)" default:"1000"`

	Server      ServerCmd      `cmd:"" help:"Run the report server"`
	Wizard      WizardCmd      `cmd:"" help:"Run an interactive configuration wizard"`
	Healthcheck HealthcheckCmd `cmd:"" help:"Check that the environment is configured correctly"`
}

// AfterApply initializes logging after CLI parsing
func (c *CLI) AfterApply() error {
	logFilePath, err := logging.Initialize(c.Debug, c.MaxLogFiles)
	if err != nil {
		return err
	}

	// Set environment variables AFTER initialization so child processes
	// inherit debug settings
	if c.Debug {
		os.Setenv("LHCI_DEBUG", "1")
		if logFilePath != "" {
			os.Setenv("LHCI_DEBUG_FILE", logFilePath)
		}
	}

	return nil
}
