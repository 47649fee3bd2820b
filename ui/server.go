// Package ui exposes the analysis pipeline over HTTP.
package ui

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hoaxlens/internal"
	"hoaxlens/internal/analysis"
)

// Server wires the orchestrator into a gin router.
type Server struct {
	router *gin.Engine
	orch   *analysis.Orchestrator
	logger *internal.Logger
}

// NewServer creates the HTTP server. Set GIN_MODE=release in production.
func NewServer(orch *analysis.Orchestrator) *Server {
	s := &Server{
		router: gin.Default(),
		orch:   orch,
		logger: internal.NewDefaultLogger("http"),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.POST("/analyze", s.handleAnalyze)
		api.GET("/status/:id", s.handleStatus)
		api.GET("/result/:id", s.handleResult)
		api.GET("/history", s.handleHistory)
		api.GET("/statistics", s.handleStatistics)
	}
}

// Router exposes the underlying engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP listener.
func (s *Server) Run(addr string) error {
	s.logger.Info("listening on %s", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
