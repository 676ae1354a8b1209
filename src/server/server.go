package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"

	"prettytrace/src/catcher"
	"prettytrace/src/repository"
)

// Server exposes the diagnostic surface over HTTP: health, persisted
// reports, and a live report stream.
type Server struct {
	catcher *catcher.Catcher
	reports *repository.ReportRepository
	hub     *Hub
}

// NewServer wires the HTTP surface. reports may be nil when persistence is
// disabled; the endpoint then answers 503.
func NewServer(c *catcher.Catcher, reports *repository.ReportRepository) *Server {
	return &Server{
		catcher: c,
		reports: reports,
		hub:     NewHub(),
	}
}

// Hub returns the live-stream hub so it can be registered as a report
// handler on the catcher.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(s.recoverer)

	// Public routes
	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error("\"/healthcheck\" error")
		}
	})

	r.Get("/reports", s.handleRecentReports)
	r.Get("/ws/reports", s.hub.handleWS)

	return r
}

// Start runs the server until SIGINT or SIGTERM, then shuts down
// gracefully.
func (s *Server) Start(port string) {
	addr := ":" + port
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server crashed")
		}
	}()

	// Shutdown on SIGINT or SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Shutdown error")
	}
}

// handleRecentReports returns the most recently persisted reports as JSON.
func (s *Server) handleRecentReports(w http.ResponseWriter, r *http.Request) {
	if s.reports == nil {
		http.Error(w, "report persistence disabled", http.StatusServiceUnavailable)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	reports, err := s.reports.Recent(r.Context(), limit)
	if err != nil {
		logger.WithError(err).Error("Failed to load recent reports")
		http.Error(w, "failed to load reports", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(reports); err != nil {
		logger.WithError(err).Error("Failed to encode reports")
	}
}
