package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/lwerth/INFO510-public/internal/ports"
)

//go:embed static/*
var staticFiles embed.FS

// Server is the local results browser. It binds localhost by default
// and serves stored runs and their artifacts read-only.
type Server struct {
	router    *http.ServeMux
	host      string
	port      int
	runRepo   ports.RunRepository
	summaries ports.SummaryRepository
	artifacts ports.ArtifactStore
	logger    zerolog.Logger
}

func NewServer(
	host string,
	port int,
	rr ports.RunRepository,
	sr ports.SummaryRepository,
	ar ports.ArtifactStore,
	logger zerolog.Logger,
) *Server {
	s := &Server{
		router:    http.NewServeMux(),
		host:      host,
		port:      port,
		runRepo:   rr,
		summaries: sr,
		artifacts: ar,
		logger:    logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to create static filesystem: %v", err))
	}
	s.router.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Health check
	s.router.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Pages
	s.router.HandleFunc("GET /", s.handleIndex)
	s.router.HandleFunc("GET /runs/{id}", s.handleRun)
	s.router.HandleFunc("GET /runs/{id}/artifacts/{name}", s.handleArtifact)
}

func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.host, s.port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	fmt.Printf("Starting server at http://%s:%d\n", s.host, s.port)

	// Handle graceful shutdown
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("server shutdown")
		}
	}()

	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil // Graceful shutdown
	}
	return err
}
