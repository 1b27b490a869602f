// Package api exposes the planner over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/varghesereji/VOPlanner/internal/auth"
	"github.com/varghesereji/VOPlanner/internal/health"
	"github.com/varghesereji/VOPlanner/internal/httputil"
	"github.com/varghesereji/VOPlanner/internal/metrics"
	"github.com/varghesereji/VOPlanner/internal/planner"
	"github.com/varghesereji/VOPlanner/internal/resolver"
	"github.com/varghesereji/VOPlanner/internal/site"
)

// DefaultMaxTargets bounds the target list of one plan request.
const DefaultMaxTargets = 200

// Options configures the HTTP server.
type Options struct {
	Addr       string
	Auth       auth.Config
	TrustProxy bool
	MaxTargets int

	// MaxInFlightPerIP and MaxInFlight cap concurrent resolve and plan
	// requests.
	MaxInFlightPerIP int
	MaxInFlight      int
}

// Server holds the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a configured HTTP server.
func NewServer(opts Options, plans *planner.Planner, sites *site.Registry, res resolver.Resolver, logger *slog.Logger) *Server {
	if opts.MaxTargets <= 0 {
		opts.MaxTargets = DefaultMaxTargets
	}
	logger = logger.With("component", "api")

	ready := health.NewReadiness(map[string]health.Check{
		"sites": func(context.Context) error {
			if len(sites.IDs()) == 0 {
				return errNoSites
			}
			return nil
		},
	})

	limiter := newInflightLimiter(opts.MaxInFlightPerIP, opts.MaxInFlight)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.Handle("GET /readyz", ready)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /api/v1/sites", sitesHandler(sites))
	mux.HandleFunc("GET /api/v1/resolve/{name}", limiter.wrap(opts.TrustProxy, resolveHandler(res)))
	mux.HandleFunc("POST /api/v1/parse", parseHandler())
	mux.HandleFunc("POST /api/v1/plan", limiter.wrap(opts.TrustProxy, planHandler(plans, opts.MaxTargets)))

	// metrics -> request id -> logging -> auth -> mux
	var handler http.Handler = mux
	handler = auth.Middleware(opts.Auth)(handler)
	handler = loggingMiddleware(logger, opts.TrustProxy)(handler)
	handler = requestIDMiddleware(handler)
	handler = metrics.Middleware(handler)

	return &Server{
		httpServer: &http.Server{
			Addr:              opts.Addr,
			Handler:           handler,
			ReadTimeout:       10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			// Plans wait on remote lookups one target at a time.
			WriteTimeout: 5 * time.Minute,
			IdleTimeout:  120 * time.Second,
		},
		logger: logger,
	}
}

// Handler returns the full middleware chain.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// HTTPServer returns the underlying *http.Server for external control (e.g. shutdown).
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.logger.Info("listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// probePath returns true for health/readiness probe paths that should not log at INFO.
func probePath(path string) bool {
	return path == "/healthz" || path == "/readyz"
}

type ctxKey int

const requestIDKey ctxKey = iota

// RequestID returns the id assigned to the request, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// requestIDMiddleware keeps a caller-supplied X-Request-ID or assigns a
// new one, and echoes it on the response.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logger *slog.Logger, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sr, r)

			level := slog.LevelInfo
			switch {
			case probePath(r.URL.Path):
				level = slog.LevelDebug
			case sr.statusCode >= 500:
				level = slog.LevelError
			}

			logger.Log(r.Context(), level, "request",
				"request_id", RequestID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", strconv.Itoa(sr.statusCode),
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_ip", httputil.ClientIP(r, trustProxy),
			)
		})
	}
}
