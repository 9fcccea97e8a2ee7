// Package web provides the HTTP server and handlers for the grid editor.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/JonMunkholm/gridsheet/internal/config"
	"github.com/JonMunkholm/gridsheet/internal/exchange"
	"github.com/JonMunkholm/gridsheet/internal/session"
	"github.com/JonMunkholm/gridsheet/internal/web/middleware"
)

//go:embed static
var staticFiles embed.FS

// Server is the HTTP server for the grid editor.
type Server struct {
	cfg      *config.Config
	sessions *session.Manager
	imports  *exchange.Limiter
	router   *chi.Mux
	server   *http.Server
	upgrader websocket.Upgrader
	now      func() time.Time

	limiters []*rateLimiter
}

// NewServer creates a Server serving sessions from m.
func NewServer(cfg *config.Config, m *session.Manager) *Server {
	s := &Server{
		cfg:      cfg,
		sessions: m,
		imports:  exchange.NewLimiter(cfg.Import.MaxConcurrent, cfg.Import.MaxWaitTime),
		router:   chi.NewRouter(),
		now:      time.Now,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)

	if s.cfg.Security.EnableCSP {
		s.router.Use(securityHeaders)
	}

	if s.cfg.Rate.Enabled {
		limiter := s.newRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(limiter.middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.router.Get("/health", s.handleHealth)

	// Pages
	s.router.With(chimw.Compress(5), chimw.Timeout(s.cfg.Server.RequestTimeout)).
		Get("/", s.handleGridPage)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(&s.cfg.Security))

		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Use(s.withSession)

			// The websocket is long-lived: no timeout or compression.
			r.Get("/ws", s.handleSocket)

			r.Group(func(r chi.Router) {
				r.Use(chimw.Compress(5))
				r.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))

				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Post("/commands", s.handleCommand)
				r.Get("/export", s.handleExport)

				if s.cfg.Rate.Enabled {
					limiter := s.newRateLimiter(s.cfg.Rate.ImportLimit, time.Minute)
					r.With(limiter.middleware).Post("/import", s.handleImport)
				} else {
					r.Post("/import", s.handleImport)
				}
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(chimw.Compress(5))
			r.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))

			r.Get("/status", s.handleStatus)
			r.Post("/sessions", s.handleCreateSession)
		})
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for running imports.
func (s *Server) Shutdown(ctx context.Context) error {
	for _, l := range s.limiters {
		l.stop()
	}
	if s.server == nil {
		return nil
	}
	err := s.server.Shutdown(ctx)
	if drainErr := s.imports.WaitForDrain(ctx); drainErr != nil {
		slog.Warn("imports still running at shutdown", "active", s.imports.Active())
	}
	return err
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON and writes it to w with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
