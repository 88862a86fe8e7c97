package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/preston-bernstein/better-bets-service/internal/http/middleware"
	"github.com/preston-bernstein/better-bets-service/internal/logging"
	"github.com/preston-bernstein/better-bets-service/internal/providers"
	"github.com/preston-bernstein/better-bets-service/internal/quant"
)

// validationErrors are service errors that mean the caller sent bad input.
var validationErrors = []error{
	quant.ErrInsufficientData,
	quant.ErrInvalidConfidence,
	quant.ErrInvalidHorizon,
	quant.ErrInvalidMethod,
	quant.ErrInvalidSims,
	quant.ErrInvalidValue,
}

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error(logger, "failed to encode response", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, logger *slog.Logger) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = r.Header.Get("X-Request-ID")
	}
	body := map[string]string{"error": message}
	if reqID != "" {
		body["requestId"] = reqID
	}
	writeJSON(w, status, body, logger)
}

// writeServiceError maps a service or provider error onto an HTTP status.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	status, msg := statusForError(err)
	if rl, ok := providers.AsRateLimitError(err); ok && rl.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(rl.RetryAfter.Seconds())))
	}
	if status >= http.StatusInternalServerError {
		logging.Warn(logger, "upstream request failed",
			slog.Int(logging.FieldStatusCode, status),
			slog.Any("err", err),
		)
	}
	writeError(w, r, status, msg, logger)
}

func statusForError(err error) (int, string) {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return http.StatusBadRequest, err.Error()
		}
	}
	if errors.Is(err, quant.ErrInvalidPrice) {
		return http.StatusUnprocessableEntity, err.Error()
	}
	if _, ok := providers.AsRateLimitError(err); ok {
		return http.StatusTooManyRequests, "upstream rate limit reached"
	}
	switch {
	case errors.Is(err, providers.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, providers.ErrProviderUnavailable):
		return http.StatusServiceUnavailable, "provider unavailable"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "request cancelled"
	default:
		return http.StatusBadGateway, "upstream request failed"
	}
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string, logger *slog.Logger) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", logger)
	return false
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}
