package server

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/CryptoMoneyBotz/lighthouse-ci/logging"

	"github.com/gin-gonic/gin"
)

// FallbackServer serves a directory of static files as a stand-in site
// dependency during tests. When isSinglePageApplication is set, unknown
// paths fall back to index.html so client-side routes resolve.
type FallbackServer struct {
	rootDirectory           string
	isSinglePageApplication bool
	listener                net.Listener
	httpServer              *http.Server
}

// NewFallbackServer creates a fallback server rooted at rootDirectory
func NewFallbackServer(rootDirectory string, isSinglePageApplication bool) *FallbackServer {
	return &FallbackServer{
		rootDirectory:           rootDirectory,
		isSinglePageApplication: isSinglePageApplication,
	}
}

// RootDirectory returns the directory being served
func (f *FallbackServer) RootDirectory() string {
	return f.rootDirectory
}

// Port returns the OS-assigned port. Only valid after Listen.
func (f *FallbackServer) Port() int {
	if f.listener == nil {
		return 0
	}
	return f.listener.Addr().(*net.TCPAddr).Port
}

// Listen binds an OS-assigned port and begins serving in the background
func (f *FallbackServer) Listen() error {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("failed to bind fallback server: %w", err)
	}
	f.listener = listener

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.NoRoute(f.serveFile)

	f.httpServer = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := f.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Logger.Error("Fallback server stopped unexpectedly", "error", err)
		}
	}()

	logging.Logger.Info("Fallback server listening",
		"port", f.Port(),
		"root", f.rootDirectory,
		"spa", f.isSinglePageApplication)
	return nil
}

// Close stops the fallback server
func (f *FallbackServer) Close() error {
	if f.httpServer == nil {
		return nil
	}
	return f.httpServer.Close()
}

// serveFile resolves the request path inside the root directory,
// falling back to index.html for SPA routes
func (f *FallbackServer) serveFile(c *gin.Context) {
	requested := filepath.Join(f.rootDirectory, filepath.Clean("/"+c.Request.URL.Path))

	// Clean above anchors the path at /, so requested cannot escape the root
	if fileExists(requested) {
		c.File(requested)
		return
	}

	if f.isSinglePageApplication {
		index := filepath.Join(f.rootDirectory, "index.html")
		if fileExists(index) {
			c.File(index)
			return
		}
	}

	c.Status(http.StatusNotFound)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
