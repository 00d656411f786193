package harness

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/CryptoMoneyBotz/lighthouse-ci/server"
)

var announcedPortRe = regexp.MustCompile(`port (\d{4,6})`)

// ServerHandle owns a running `lhci server` child process. The caller is
// responsible for Stop and for deleting SQLFile afterward (RetryDelete).
type ServerHandle struct {
	Port    int
	SQLFile string
	proc    *procHandle
}

// Stdout returns the server's captured stdout so far.
func (s *ServerHandle) Stdout() string {
	return s.proc.stdout.String()
}

// Stop kills the server process.
func (s *ServerHandle) Stop() {
	s.proc.Kill()
}

// Cleanup stops the server and removes its database. SQLite in WAL mode
// leaves -wal/-shm side files behind when the process is killed, so those
// are deleted along with the main file.
func (s *ServerHandle) Cleanup() {
	s.Stop()
	RetryDelete(s.SQLFile)
	RetryDelete(s.SQLFile + "-wal")
	RetryDelete(s.SQLFile + "-shm")
}

// StartServer launches the CLI's server subcommand on an OS-assigned port
// backed by sqlFile (generated when empty), waits for it to announce
// readiness, and parses the bound port out of its stdout.
func StartServer(sqlFile string, extraArgs ...string) (*ServerHandle, error) {
	if sqlFile == "" {
		sqlFile = SQLFilePath()
	}

	args := append([]string{
		"server",
		"--port=0",
		"--storage.sqlDatabasePath=" + sqlFile,
	}, extraArgs...)

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = Environ(nil)

	proc, err := startProc(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to spawn server: %w", err)
	}

	err = WaitUntil(func() bool { return proc.stdout.Contains("listening") }, func() string {
		return fmt.Sprintf("expected server to start listening\nstdout: %s\nstderr: %s",
			proc.stdout.String(), proc.stderr.String())
	})
	if err != nil {
		proc.Kill()
		return nil, err
	}

	match := announcedPortRe.FindStringSubmatch(proc.stdout.String())
	if match == nil {
		proc.Kill()
		return nil, fmt.Errorf("server did not announce a port\nstdout: %s", proc.stdout.String())
	}
	port, err := strconv.Atoi(match[1])
	if err != nil {
		proc.Kill()
		return nil, fmt.Errorf("unparseable port %q: %w", match[1], err)
	}

	return &ServerHandle{
		Port:    port,
		SQLFile: sqlFile,
		proc:    proc,
	}, nil
}

// StartFallbackServer serves dir (resolved relative to the current working
// directory) as a single-page application on an OS-assigned port. The
// caller owns shutdown via Close.
func StartFallbackServer(dir string) (*server.FallbackServer, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", dir, err)
	}

	srv := server.NewFallbackServer(absDir, true)
	if err := srv.Listen(); err != nil {
		return nil, err
	}
	return srv, nil
}
