// Package api serves the dashboard's JSON API.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/abatilo/clarity/internal/clog"
	"github.com/abatilo/clarity/internal/dashboard"
	"github.com/abatilo/clarity/internal/metrics"
)

const (
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
	maxBodyBytes    = 1 << 20
	maxImportBytes  = 16 << 20
)

// Server is the clarity HTTP API server.
type Server struct {
	app     *dashboard.App
	origins []string
	server  *http.Server
}

// NewServer creates a server over app. origins lists the CORS origins allowed
// to call the API.
func NewServer(app *dashboard.App, origins []string) *Server {
	return &Server{app: app, origins: origins}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(clog.SlogChiMiddleware(clog.WithChiFilter(func(r *http.Request) bool {
		return r.URL.Path != "/health" && r.URL.Path != "/metrics"
	})))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(observe)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", s.handleListTasks)
			r.Post("/", s.handleAddTask)
			r.Delete("/", s.handleClearTasks)
			r.Post("/{id}/complete", s.handleCompleteTask)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/cognitive-load", s.handleCognitiveLoad)
			r.Get("/realism", s.handleRealism)
			r.Get("/fatigue", s.handleFatigue)
			r.Get("/interruptions", s.handleInterruptions)
			r.Get("/rhythm", s.handleRhythm)
		})

		r.Post("/drift/train", s.handleTrain)
		r.Post("/drift/predict", s.handlePredict)
		r.Post("/priorities", s.handlePriorities)
		r.Post("/mood", s.handleMood)
		r.Get("/dashboard", s.handleDashboard)

		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)
		r.Post("/sample", s.handleSample)

		r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
			writeError(w, http.StatusNotFound, "not_found", "not found")
		})
	})

	return cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler(r)
}

// observe records request durations by route pattern.
func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RequestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}

// requestBase keeps ctx's values for every request but not its cancellation,
// so requests in flight at shutdown can finish their saves.
func requestBase(ctx context.Context) func(net.Listener) context.Context {
	base := context.WithoutCancel(ctx)
	return func(net.Listener) context.Context { return base }
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       requestBase(ctx),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "starting server", "addr", addr)
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
