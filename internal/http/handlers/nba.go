package handlers

import (
	"log/slog"
	nethttp "net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/better-bets-service/internal/domain/players"
	"github.com/preston-bernstein/better-bets-service/internal/domain/teams"
	"github.com/preston-bernstein/better-bets-service/internal/http/requestutil"
	"github.com/preston-bernstein/better-bets-service/internal/logging"
)

// Teams returns the NBA teams.
func (h *Handler) Teams(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.svcs.Teams == nil {
		h.unavailable(w, r, "teams")
		return
	}
	logger := loggerFromContext(r, h.logger)
	items, err := h.svcs.Teams.Teams(r.Context())
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	logging.Info(logger, "served teams", slog.Int(logging.FieldCount, len(items)))
	writeJSON(w, nethttp.StatusOK, teams.TeamsResponse{Count: len(items), Teams: items}, logger)
}

// Players returns NBA players, optionally filtered with active=true|false.
func (h *Handler) Players(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.svcs.Players == nil {
		h.unavailable(w, r, "players")
		return
	}
	logger := loggerFromContext(r, h.logger)
	q := r.URL.Query()
	var active *bool
	if requestutil.FirstParam(q, "active") != "" {
		v, err := requestutil.BoolParam(q, "active", false)
		if err != nil {
			writeError(w, r, nethttp.StatusBadRequest, err.Error(), logger)
			return
		}
		active = &v
	}
	items, err := h.svcs.Players.Players(r.Context(), active)
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	logging.Info(logger, "served players", slog.Int(logging.FieldCount, len(items)))
	writeJSON(w, nethttp.StatusOK, players.NewPlayersResponse(items), logger)
}

// PlayerByID returns a single player if present.
func (h *Handler) PlayerByID(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.svcs.Players == nil {
		h.unavailable(w, r, "players")
		return
	}
	logger := loggerFromContext(r, h.logger)
	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil || id == "" || strings.ContainsAny(id, " \t/") {
		writeError(w, r, nethttp.StatusBadRequest, "invalid player id", logger)
		return
	}
	player, ok, err := h.svcs.Players.PlayerByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	if !ok {
		writeError(w, r, nethttp.StatusNotFound, "player not found", logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, player, logger)
}
