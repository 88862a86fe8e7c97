package handlers

import (
	"log/slog"
	nethttp "net/http"
	"time"

	appodds "github.com/preston-bernstein/better-bets-service/internal/app/odds"
	appplayers "github.com/preston-bernstein/better-bets-service/internal/app/players"
	appprices "github.com/preston-bernstein/better-bets-service/internal/app/prices"
	apprisk "github.com/preston-bernstein/better-bets-service/internal/app/risk"
	appteams "github.com/preston-bernstein/better-bets-service/internal/app/teams"
	"github.com/preston-bernstein/better-bets-service/internal/poller"
)

type nowFunc func() time.Time

// Services groups the application services the handlers front. Nil members answer 503.
type Services struct {
	Odds    *appodds.Service
	Teams   *appteams.Service
	Players *appplayers.Service
	Prices  *appprices.Service
	Risk    *apprisk.Service
}

// Handler wires HTTP routes to the application services.
type Handler struct {
	svcs     Services
	logger   *slog.Logger
	now      nowFunc
	statusFn func() poller.Status
}

// NewHandler constructs a Handler with defaults.
func NewHandler(svcs Services, logger *slog.Logger, statusFn func() poller.Status) *Handler {
	return &Handler{
		svcs:     svcs,
		logger:   logger,
		now:      time.Now,
		statusFn: statusFn,
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic (e.g., for Kubernetes probes).
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.statusFn == nil {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, nethttp.StatusServiceUnavailable, msg, h.logger)
}

func (h *Handler) unavailable(w nethttp.ResponseWriter, r *nethttp.Request, what string) {
	writeError(w, r, nethttp.StatusServiceUnavailable, what+" service not configured", h.logger)
}

// NotFound answers unknown routes with the JSON error body.
func (h *Handler) NotFound(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusNotFound, "not found", h.logger)
}

// MethodNotAllowed answers known routes called with the wrong method.
func (h *Handler) MethodNotAllowed(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
}
