// Package server exposes the HTTP API: document upload, document listing,
// retrieval-augmented search and sentiment analysis.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/docrag/ingestion"
	"github.com/poiesic/docrag/search"
	"github.com/poiesic/docrag/sentiment"
	"github.com/poiesic/docrag/storage"
)

// Server holds the state for the REST API server.
type Server struct {
	coordinator  *ingestion.Coordinator
	documents    storage.DocumentRepository
	orchestrator *search.Orchestrator
	analyzer     *sentiment.Analyzer
	router       *gin.Engine
	logger       *slog.Logger
}

// NewServer creates a new Server instance.
func NewServer(
	coordinator *ingestion.Coordinator,
	documents storage.DocumentRepository,
	orchestrator *search.Orchestrator,
	analyzer *sentiment.Analyzer,
) *Server {
	r := gin.Default()
	s := &Server{
		coordinator:  coordinator,
		documents:    documents,
		orchestrator: orchestrator,
		analyzer:     analyzer,
		router:       r,
		logger:       slog.Default().With("component", "http-server"),
	}
	s.setupRoutes()
	return s
}

// Run starts the server on the specified address.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Handler returns the underlying handler, for embedding in an http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.POST("/upload", s.handleUpload)
	s.router.GET("/documents", s.handleListDocuments)
	s.router.POST("/search", s.handleSearch)
	s.router.POST("/sentiment", s.handleSentiment)
}

// Health check
func (s *Server) healthCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}
