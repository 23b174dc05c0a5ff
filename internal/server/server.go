// Package server exposes the rendering pipeline over HTTP.
//
// Routes:
//
//	POST /api/generate-docx?template=<id>   DOCX download (rate limited)
//	POST /api/generate-pdf?template=<id>    PDF download (rate limited, PRO tier)
//	POST /api/preview?template=<id>         HTML preview with optional overlay
//	GET  /api/templates                     template registry for the caller
//	GET  /healthz                           liveness
//
// Callers identify their subscription tier with an HS256 bearer token
// carrying a "tier" claim. Requests without a token are FREE.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/vitae/internal/server/ratelimit"
	"github.com/matzehuels/vitae/pkg/pipeline"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Options configures a Server.
type Options struct {
	Addr            string
	JWTSecret       string
	TrustProxy      bool
	RateLimit       ratelimit.Config
	DefaultTemplate string
}

// Server is the HTTP boundary around a pipeline Runner.
type Server struct {
	opts    Options
	runner  *pipeline.Runner
	logger  *log.Logger
	limiter *ratelimit.Limiter
	tokens  *TokenVerifier
	router  chi.Router
}

// New builds a server. The runner's registry is the one served.
func New(runner *pipeline.Runner, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if opts.DefaultTemplate == "" {
		opts.DefaultTemplate = pipeline.DefaultTemplate
	}
	s := &Server{
		opts:    opts,
		runner:  runner,
		logger:  logger,
		limiter: ratelimit.NewLimiter(opts.RateLimit),
		tokens:  NewTokenVerifier(opts.JWTSecret),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.withRequestID)
	r.Use(s.withLogging)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.withTier)
		r.Get("/templates", s.handleTemplates)
		r.Post("/preview", s.handlePreview)
		r.With(s.withRateLimit("docx")).Post("/generate-docx", s.handleDownload(pipeline.FormatDOCX))
		r.With(s.withRateLimit("pdf")).Post("/generate-pdf", s.handleDownload(pipeline.FormatPDF))
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.opts.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// Close stops background work.
func (s *Server) Close() error {
	s.limiter.Stop()
	return nil
}
