package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/CryptoMoneyBotz/lighthouse-ci/logging"
	"github.com/CryptoMoneyBotz/lighthouse-ci/storage"

	"github.com/google/uuid"
)

// WizardCmd runs the interactive project-setup flow. Prompts are written to
// stdout and answers are read line-by-line from stdin, so the command can be
// driven by a test harness over a pipe as well as by a person. Every answer
// is echoed back once it has been consumed.
type WizardCmd struct {
	SQLDatabasePath string `name:"storage.sqlDatabasePath" help:"Persist the created project to this SQLite database" default:""`
}

// Run executes the wizard command
func (w *WizardCmd) Run(cli *CLI) error {
	in := bufio.NewScanner(os.Stdin)

	fmt.Println("? Which wizard do you want to run?")
	fmt.Println("  1) new-project")
	choice := readAnswer(in, "1")
	if choice != "1" && choice != "new-project" {
		return fmt.Errorf("unknown wizard: %s", choice)
	}

	fmt.Println("? What would you like to name the project?")
	name := readAnswer(in, "Unnamed project")

	fmt.Println("? Where is the project's code hosted?")
	externalURL := readAnswer(in, "")

	return w.createProject(name, externalURL)
}

// createProject persists the project when a database is configured,
// otherwise mints throwaway identifiers
func (w *WizardCmd) createProject(name, externalURL string) error {
	id := uuid.New().String()
	token := uuid.New().String()

	if w.SQLDatabasePath != "" {
		store, err := storage.NewStore(w.SQLDatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()

		project, err := store.CreateProject(context.Background(), name, externalURL)
		if err != nil {
			return err
		}
		id, token = project.ID, project.AdminToken
	}

	logging.Logger.Info("Wizard created project", "name", name, "project_id", id)
	fmt.Printf("Created project %s (%s)!\n", name, id)
	fmt.Printf("Use token %s to add data.\n", token)
	return nil
}

// readAnswer reads one line from the wizard's input, echoing it back.
// On EOF (the harness closes stdin after its scripted answers) the
// fallback is used so the wizard still completes.
func readAnswer(in *bufio.Scanner, fallback string) string {
	if !in.Scan() {
		fmt.Println(fallback)
		return fallback
	}

	answer := strings.TrimSpace(in.Text())
	if answer == "" {
		answer = fallback
	}
	fmt.Println(answer)
	return answer
}
