package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/zkiot/revocation-registry/internal/proofreq"
	"github.com/zkiot/revocation-registry/internal/prover"
	"github.com/zkiot/revocation-registry/internal/registry"
)

// Server is the HTTP facade over the revocation registry.
type Server struct {
	httpServer *http.Server
	addr       string

	registry *registry.Service
	builder  *proofreq.Builder
	prover   prover.Prover // nil when the proving backend is disabled
}

// Config holds server configuration.
type Config struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns a default server configuration.
func DefaultConfig() Config {
	return Config{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// New creates a new server instance.
func New(cfg Config, reg *registry.Service, builder *proofreq.Builder, prv prover.Prover) *Server {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	mux := http.NewServeMux()

	server := &Server{
		addr:     addr,
		registry: reg,
		builder:  builder,
		prover:   prv,
	}
	server.registerRoutes(mux)

	server.httpServer = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return server
}

// Start starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		log.Println("Server shut down gracefully")
		return nil
	case err := <-errChan:
		return err
	}
}

// Handler returns the server's HTTP handler (for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// registerRoutes registers all API endpoints.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.handleHealth)

	// Device lifecycle
	mux.HandleFunc("/api/v1/devices/register", s.handleDeviceRegister)
	mux.HandleFunc("/api/v1/devices/revoke-batch", s.handleBatchRevoke)
	mux.HandleFunc("/api/v1/devices/", s.handleDeviceOperations)

	// Proof construction
	mux.HandleFunc("/api/v1/proof-requests", s.handleProofRequest)
	mux.HandleFunc("/api/v1/proofs", s.handleProve)

	// Accumulator state
	mux.HandleFunc("/api/v1/accumulator", s.handleAccumulator)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
