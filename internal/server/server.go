package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"supportbot/internal/domain"
)

// Pipeline is the orchestrator surface the HTTP layer consumes.
type Pipeline interface {
	HandleQuery(ctx context.Context, query string) domain.QueryResult
	Health(ctx context.Context) error
}

// queryRequest is the body of POST /api/query.
type queryRequest struct {
	Text string `json:"text" binding:"required"`
}

// Server exposes the support pipeline over HTTP.
type Server struct {
	pipeline Pipeline
	logger   *slog.Logger
	engine   *gin.Engine
}

// New creates the HTTP server around the support pipeline.
func New(pipeline Pipeline, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), corsMiddleware())

	s := &Server{
		pipeline: pipeline,
		logger:   logger,
		engine:   engine,
	}

	engine.GET("/health", s.handleHealth)
	engine.POST("/api/query", s.handleQuery)

	return s
}

// Run starts the server on addr and blocks.
func (s *Server) Run(addr string) error {
	s.logger.Info("starting HTTP server", "addr", addr)
	return s.engine.Run(addr)
}

// Handler returns the underlying http.Handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.pipeline.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": "1.0.0",
	})
}

func (s *Server) handleQuery(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must contain a non-empty 'text' field"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query text is empty"})
		return
	}

	result := s.pipeline.HandleQuery(c.Request.Context(), req.Text)
	s.logger.Info("handled query", "intent", result.Intent, "status", result.Status)
	c.JSON(http.StatusOK, result)
}

// corsMiddleware allows browser clients from any origin, matching the
// development posture of the frontend this API serves.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
