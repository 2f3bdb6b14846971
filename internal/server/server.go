// Package server provides the HTTP API over the VSDX extractor.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/stevebcampbell/vsdx-extraction/internal/config"
	"github.com/stevebcampbell/vsdx-extraction/internal/history"
	"github.com/stevebcampbell/vsdx-extraction/internal/vsdx"
)

// Analyzer is the AI collaborator boundary: read-only over the extraction result.
// Nil means analysis is not configured (no credential).
type Analyzer interface {
	AnalyzeExtraction(ctx context.Context, result *vsdx.Result, summary vsdx.Summary) (string, error)
}

// Server is the HTTP server for the extraction API.
type Server struct {
	extractor  *vsdx.Extractor
	history    *history.Store
	analyzer   Analyzer
	config     *config.ServerConfig
	extractCfg *config.ExtractConfig
	logger     *zap.Logger
	server     *http.Server

	mu   sync.Mutex
	last *vsdx.Result // most recent extraction, served by chart/analyze endpoints
}

// NewServer creates a server with the given dependencies. history and analyzer
// may be nil; the corresponding endpoints then report not-configured.
func NewServer(
	extractor *vsdx.Extractor,
	hist *history.Store,
	analyzer Analyzer,
	cfg *config.ServerConfig,
	extractCfg *config.ExtractConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		extractor:  extractor,
		history:    hist,
		analyzer:   analyzer,
		config:     cfg,
		extractCfg: extractCfg,
		logger:     logger,
	}
}

// router builds the chi router; split out so handler tests exercise real routing.
func (s *Server) router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/extract", s.handleExtract)
	r.Post("/api/v1/analyze", s.handleAnalyze)
	r.Get("/api/v1/chart", s.handleChart)
	r.Get("/api/v1/history", s.handleHistoryList)
	r.Get("/api/v1/history/{id}", s.handleHistoryGet)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
