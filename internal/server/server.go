// Package server exposes the conversion pipeline over HTTP: upload and
// analyze a package, convert it with a chosen filament mapping, download the
// result. Uploads live in sessions that expire after a configured age.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/josuanbn/bl2u1/internal/audit"
	"github.com/josuanbn/bl2u1/internal/catalog"
	"github.com/josuanbn/bl2u1/internal/convert"
	"github.com/josuanbn/bl2u1/internal/session"
)

// Default lifecycle configuration values.
const (
	DefaultCleanupInterval = 30 * time.Minute
	DefaultMaxFileAge      = 8 * time.Hour
)

// Config holds the server's runtime configuration.
type Config struct {
	// ListenAddr is the address to bind, e.g. ":8080". Use ":0" in tests.
	ListenAddr string
	// TemplatesDir holds the printer template packages.
	TemplatesDir string
	// MaxFileAge is how old a session may grow before a sweep removes it.
	// Zero uses the default (8h).
	MaxFileAge time.Duration
	// CleanupInterval is how often the background sweep runs. Zero uses
	// the default (30m).
	CleanupInterval time.Duration
}

// Server serves the conversion API and owns the cleanup goroutine.
type Server struct {
	cfg      Config
	sessions *session.Store
	catalogs *catalog.Store
	log      *zap.Logger
	audit    *audit.Emitter

	srv           *http.Server
	ln            net.Listener
	cancelCleanup context.CancelFunc
	cleanupDone   chan struct{}
}

// New creates a server. auditor may be nil to disable the audit log.
func New(cfg Config, sessions *session.Store, catalogs *catalog.Store, log *zap.Logger, auditor *audit.Emitter) *Server {
	if cfg.MaxFileAge <= 0 {
		cfg.MaxFileAge = DefaultMaxFileAge
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultCleanupInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	if catalogs == nil {
		catalogs = catalog.NewStore(catalog.Builtin())
	}
	return &Server{
		cfg:      cfg,
		sessions: sessions,
		catalogs: catalogs,
		log:      log,
		audit:    auditor,
	}
}

// Start binds the listener and begins serving. It also starts the session
// cleanup goroutine. It returns once the server accepts connections.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("server: listen on %s: %w", s.cfg.ListenAddr, err)
	}
	s.ln = ln
	s.srv = &http.Server{Handler: s.withRequestLog(s.routes())}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("serve", zap.Error(err))
		}
	}()

	cleanupCtx, cancel := context.WithCancel(ctx)
	s.cancelCleanup = cancel
	s.cleanupDone = make(chan struct{})
	go s.runCleanupLoop(cleanupCtx)

	return nil
}

// Addr returns the listener address, useful for tests with port 0.
func (s *Server) Addr() net.Addr {
	if s.ln != nil {
		return s.ln.Addr()
	}
	return nil
}

// Stop gracefully shuts down the HTTP server and the cleanup goroutine.
func (s *Server) Stop(ctx context.Context) error {
	if s.cancelCleanup != nil {
		s.cancelCleanup()
		<-s.cleanupDone
	}
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /convert", s.handleConvert)
	mux.HandleFunc("GET /download/{name}", s.handleDownload)
	mux.HandleFunc("GET /filament-types", s.handleFilamentTypes)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

// withRequestLog wraps the handler with structured request logging.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// runCleanupLoop periodically sweeps expired sessions. It stops when the
// context is canceled.
func (s *Server) runCleanupLoop(ctx context.Context) {
	defer close(s.cleanupDone)

	ticker := time.NewTicker(s.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep executes a single expired-session cleanup pass.
func (s *Server) sweep(ctx context.Context) {
	removed, err := s.sessions.RemoveOlderThan(ctx, s.cfg.MaxFileAge)
	if err != nil {
		s.log.Warn("session cleanup", zap.Error(err))
		return
	}
	if removed == 0 {
		return
	}
	sessionsCleaned.Add(float64(removed))
	s.log.Info("removed expired sessions", zap.Int("removed", removed))
	if err := s.audit.Emit(audit.Event{Kind: audit.KindCleanup, Removed: removed}); err != nil {
		s.log.Warn("audit emit", zap.Error(err))
	}
}

// converter builds a pipeline bound to the catalog snapshot current at call
// time, so one conversion never sees a mid-flight catalog reload.
func (s *Server) converter() *convert.Converter {
	return &convert.Converter{
		TemplatesDir: s.cfg.TemplatesDir,
		Profiles:     s.catalogs.Current(),
		Log:          s.log,
	}
}
