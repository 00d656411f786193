package cmd

import (
	"fmt"

	"github.com/CryptoMoneyBotz/lighthouse-ci/logging"
	"github.com/CryptoMoneyBotz/lighthouse-ci/server"
	"github.com/CryptoMoneyBotz/lighthouse-ci/storage"
)

// ServerCmd starts the report server
type ServerCmd struct {
	Host            string `help:"Host to bind to" default:"127.0.0.1"`
	Port            int    `help:"Port to listen on (0 picks a free port)" short:"p" default:"9001"`
	SQLDatabasePath string `name:"storage.sqlDatabasePath" help:"Path to the SQLite database file" default:"lhci.db"`
}

// Run executes the server command
func (s *ServerCmd) Run(cli *CLI) error {
	logging.Logger.Info("Starting report server",
		"host", s.Host,
		"port", s.Port,
		"db_path", s.SQLDatabasePath)

	store, err := storage.NewStore(s.SQLDatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	srv := server.NewServer(s.Host, s.Port, store)
	if err := srv.Listen(); err != nil {
		return err
	}

	// The test harness parses this line to discover the bound port
	fmt.Printf("Server listening on port %d\n", srv.Port())

	// Blocks until shutdown
	return srv.Serve()
}
