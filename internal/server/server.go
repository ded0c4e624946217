// Package server exposes the Discovery backend over HTTP/JSON: the query
// endpoint, the flow-simulation endpoints the dashboard polls, and the
// operational surface (health, metrics).
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fernandadias/DiscoveryRAGAgentV2/internal/flowsim"
	"github.com/fernandadias/DiscoveryRAGAgentV2/internal/generator"
)

// Version is set from the build by the cmd package.
var Version = "dev"

// Config holds server configuration.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS origins (dev mode)
}

// Server is the Discovery demo backend.
type Server struct {
	cfg         Config
	engine      *flowsim.Engine
	provider    generator.Provider
	router      chi.Router
	httpServer  *http.Server
	stopMetrics chan struct{}
}

// New creates a server around the given simulation engine and answer
// provider.
func New(cfg Config, engine *flowsim.Engine, provider generator.Provider) *Server {
	s := &Server{
		cfg:      cfg,
		engine:   engine,
		provider: provider,
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(instrument)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Post("/query", s.handleQuery)
	r.Post("/flow/start", s.handleFlowStart)
	r.Get("/flow/{simulationID}", s.handleFlowStatus)
	r.Get("/flow/{simulationID}/ws", s.handleFlowStream)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Engine returns the simulation engine.
func (s *Server) Engine() *flowsim.Engine { return s.engine }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.stopMetrics = make(chan struct{})
	go s.trackSimulations(s.stopMetrics)

	log.Printf("discovery server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.stopMetrics != nil {
		close(s.stopMetrics)
		s.stopMetrics = nil
	}
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
