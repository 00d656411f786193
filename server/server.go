package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CryptoMoneyBotz/lighthouse-ci/logging"
	"github.com/CryptoMoneyBotz/lighthouse-ci/storage"
	"github.com/CryptoMoneyBotz/lighthouse-ci/version"

	"github.com/gin-gonic/gin"
)

// Server exposes the report API backed by a SQLite store
type Server struct {
	store      *storage.Store
	host       string
	port       int
	listener   net.Listener
	httpServer *http.Server
}

// NewServer creates a report server. A port of 0 asks the OS for a free port.
func NewServer(host string, port int, store *storage.Store) *Server {
	return &Server{
		store: store,
		host:  host,
		port:  port,
	}
}

// Port returns the port the server is bound to. Only valid after Listen.
func (s *Server) Port() int {
	if s.listener == nil {
		return s.port
	}
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Listen binds the server's listener and begins serving in the background.
// The bound port is known once Listen returns.
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", s.host, s.port))
	if err != nil {
		return fmt.Errorf("failed to bind %s:%d: %w", s.host, s.port, err)
	}
	s.listener = listener

	s.httpServer = &http.Server{
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Logger.Error("Server stopped unexpectedly", "error", err)
		}
	}()

	logging.Logger.Info("Report server listening", "port", s.Port())
	return nil
}

// Serve blocks until SIGINT/SIGTERM, then shuts the server down gracefully
func (s *Server) Serve() error {
	if s.httpServer == nil {
		return errors.New("server is not listening")
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)
	<-done

	logging.Logger.Info("Shutting down report server")
	return s.Close()
}

// Close stops the server, releasing its listener
func (s *Server) Close() error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// router builds the gin engine with all API routes registered
func (s *Server) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), metricsMiddleware())

	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": version.Version})
	})
	router.GET("/metrics", metricsHandler())

	v1 := router.Group("/v1")
	{
		v1.GET("/projects", s.listProjects)
		v1.POST("/projects", s.createProject)
		v1.POST("/projects/lookup", s.lookupProject)
		v1.GET("/projects/:projectId/reports", s.listReports)
		v1.POST("/projects/:projectId/reports", s.createReport)
	}

	return router
}

// projectResponse is the wire form of a project; the admin token is only
// included in the create response.
type projectResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ExternalURL string `json:"externalUrl"`
	Slug        string `json:"slug"`
	AdminToken  string `json:"adminToken,omitempty"`
}

type createProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	ExternalURL string `json:"externalUrl"`
}

type lookupProjectRequest struct {
	Token string `json:"token" binding:"required"`
}

type createReportRequest struct {
	URL         string  `json:"url"`
	Performance float64 `json:"performance"`
	Payload     string  `json:"payload"`
}

type reportResponse struct {
	ID          uint    `json:"id"`
	ProjectID   string  `json:"projectId"`
	URL         string  `json:"url"`
	Performance float64 `json:"performance"`
}

func (s *Server) listProjects(c *gin.Context) {
	projects, err := s.store.ListProjects(c.Request.Context())
	if err != nil {
		logging.Logger.Error("Failed to list projects", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, projectResponse{
			ID:          p.ID,
			Name:        p.Name,
			ExternalURL: p.ExternalURL,
			Slug:        p.Slug,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := s.store.CreateProject(c.Request.Context(), req.Name, req.ExternalURL)
	if err != nil {
		logging.Logger.Error("Failed to create project", "error", err, "name", req.Name)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, projectResponse{
		ID:          project.ID,
		Name:        project.Name,
		ExternalURL: project.ExternalURL,
		Slug:        project.Slug,
		AdminToken:  project.AdminToken,
	})
}

func (s *Server) lookupProject(c *gin.Context) {
	var req lookupProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := s.store.FindProjectByToken(c.Request.Context(), req.Token)
	if errors.Is(err, storage.ErrProjectNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no project with that token"})
		return
	}
	if err != nil {
		logging.Logger.Error("Failed to look up project", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, projectResponse{
		ID:          project.ID,
		Name:        project.Name,
		ExternalURL: project.ExternalURL,
		Slug:        project.Slug,
	})
}

func (s *Server) listReports(c *gin.Context) {
	projectID := c.Param("projectId")
	if _, err := s.store.FindProjectByID(c.Request.Context(), projectID); err != nil {
		if errors.Is(err, storage.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown project"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	reports, err := s.store.ListReports(c.Request.Context(), projectID)
	if err != nil {
		logging.Logger.Error("Failed to list reports", "error", err, "project_id", projectID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]reportResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, reportResponse{
			ID:          r.ID,
			ProjectID:   r.ProjectID,
			URL:         r.URL,
			Performance: r.PerformanceRaw,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createReport(c *gin.Context) {
	projectID := c.Param("projectId")
	if _, err := s.store.FindProjectByID(c.Request.Context(), projectID); err != nil {
		if errors.Is(err, storage.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown project"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := s.store.CreateReport(c.Request.Context(), projectID, req.URL, req.Performance, req.Payload)
	if err != nil {
		logging.Logger.Error("Failed to create report", "error", err, "project_id", projectID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, reportResponse{
		ID:          report.ID,
		ProjectID:   report.ProjectID,
		URL:         report.URL,
		Performance: report.PerformanceRaw,
	})
}
