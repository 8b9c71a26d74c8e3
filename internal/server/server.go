// Package server exposes the donation ledger as a JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/ogahribetzz/transparansi/internal/donations"
)

// HeaderAdminPIN carries the admin PIN on /api/admin requests.
const HeaderAdminPIN = "X-Admin-PIN"

// HeaderDataSource tells clients whether a read was served live or from the
// fallback dataset.
const HeaderDataSource = "X-Data-Source"

// maxBodyBytes bounds request bodies; donation proofs arrive base64 encoded.
const maxBodyBytes = 15 << 20

// Options configures a Server.
type Options struct {
	AdminPIN       string
	AllowedOrigins []string
	// RPS and Burst size the shared token bucket. RPS <= 0 disables it.
	RPS    float64
	Burst  int
	Logger *slog.Logger
}

// Server routes API requests to a donations.Service.
type Server struct {
	svc     *donations.Service
	log     *slog.Logger
	pin     string
	origins []string
	limiter *rate.Limiter
}

// New creates a Server.
func New(svc *donations.Service, opts Options) *Server {
	s := &Server{
		svc:     svc,
		log:     opts.Logger,
		pin:     opts.AdminPIN,
		origins: opts.AllowedOrigins,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if len(s.origins) == 0 {
		s.origins = []string{"*"}
	}
	if opts.RPS > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(opts.RPS), opts.Burst)
	}
	return s
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", HeaderAdminPIN},
		ExposedHeaders: []string{HeaderDataSource},
		MaxAge:         300,
	}))
	r.Use(s.rateLimit)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/transactions", s.handlePublicTransactions)
		r.Get("/summary", s.handleSummary)
		r.Get("/categories", s.handleCategories)
		r.Get("/programs", s.handlePrograms)
		r.Get("/locations", s.handleLocations)
		r.Get("/config", s.handleConfig)
		r.Post("/donations", s.handleSubmitDonation)

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requirePIN)
			r.Get("/transactions", s.handleAllTransactions)
			r.Get("/transactions/pending", s.handlePendingTransactions)
			r.Post("/transactions", s.handleManualTransaction)
			r.Post("/transactions/{id}/approve", s.handleApprove)
			r.Put("/config", s.handleUpdateConfig)
			r.Get("/notifications", s.handleNotifications)
			r.Post("/notifications/{id}/read", s.handleMarkRead)
			r.Get("/audit", s.handleAudit)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}
