package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/officeimg/pkg/domain/interfaces"
	"github.com/m-mizutani/officeimg/pkg/utils/ctxlog"
)

const defaultMaxUploadSize = 64 << 20

// config holds internal HTTP server configuration
type config struct {
	addr          string
	maxUploadSize int64
	jobSourceRoot string
	jobOutputRoot string
	tempDir       string
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithMaxUploadSize limits the size of documents accepted by the upload endpoint
func WithMaxUploadSize(size int64) Option {
	return func(c *config) {
		if size > 0 {
			c.maxUploadSize = size
		}
	}
}

// WithJobSourceRoot sets the directory that job source documents must lie under.
// The job API is only mounted when it is set.
func WithJobSourceRoot(dir string) Option {
	return func(c *config) {
		c.jobSourceRoot = dir
	}
}

// WithJobOutputRoot sets the output root for jobs submitted without one. Output
// roots given by clients must lie under it.
func WithJobOutputRoot(dir string) Option {
	return func(c *config) {
		c.jobOutputRoot = dir
	}
}

// WithTempDir sets where uploaded documents are staged. Empty uses os.TempDir.
func WithTempDir(dir string) Option {
	return func(c *config) {
		c.tempDir = dir
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	extractUC interfaces.ExtractUseCase,
	jobUC interfaces.JobUseCase,
	opts ...Option,
) (*Server, error) {
	if extractUC == nil {
		return nil, goerr.New("extract use case is required")
	}

	// Default configuration
	cfg := &config{
		addr:          "localhost:8080",
		maxUploadSize: defaultMaxUploadSize,
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	// Health check
	router.Get("/health", handleHealth)

	router.Route("/api/v1", func(r chi.Router) {
		extractHandler := NewExtractHandler(extractUC, cfg.maxUploadSize, cfg.tempDir)
		r.Post("/extract", extractHandler.Handle)

		switch {
		case jobUC == nil:
		case cfg.jobSourceRoot == "":
			ctxlog.From(ctx).Warn("Job API disabled, job source root is not configured")
		default:
			jobHandler := NewJobHandler(jobUC, cfg.jobSourceRoot, cfg.jobOutputRoot)
			r.Post("/jobs", jobHandler.Submit)
			r.Get("/jobs/{id}", jobHandler.Get)
		}
	})

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}

	return server, nil
}
