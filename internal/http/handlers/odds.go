package handlers

import (
	"fmt"
	"log/slog"
	nethttp "net/http"

	appodds "github.com/preston-bernstein/better-bets-service/internal/app/odds"
	domainodds "github.com/preston-bernstein/better-bets-service/internal/domain/odds"
	"github.com/preston-bernstein/better-bets-service/internal/http/requestutil"
	"github.com/preston-bernstein/better-bets-service/internal/logging"
)

// quotaResponse is the /requests payload.
type quotaResponse struct {
	Remaining int `json:"remaining"`
	Used      int `json:"used"`
	Last      int `json:"last"`
}

// Sports lists in-season sports, or all of them with all=true.
func (h *Handler) Sports(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.svcs.Odds == nil {
		h.unavailable(w, r, "odds")
		return
	}
	logger := loggerFromContext(r, h.logger)
	all, err := requestutil.BoolParam(r.URL.Query(), "all", false)
	if err != nil {
		writeError(w, r, nethttp.StatusBadRequest, err.Error(), logger)
		return
	}
	sports, err := h.svcs.Odds.Sports(r.Context(), all)
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	logging.Info(logger, "served sports", slog.Int(logging.FieldCount, len(sports)))
	writeJSON(w, nethttp.StatusOK, sports, logger)
}

// Scores returns live, upcoming and recently completed games for a sport.
func (h *Handler) Scores(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.svcs.Odds == nil {
		h.unavailable(w, r, "odds")
		return
	}
	logger := loggerFromContext(r, h.logger)
	q := r.URL.Query()
	sport := requestutil.FirstParam(q, "sport")
	if sport == "" {
		writeError(w, r, nethttp.StatusBadRequest, domainodds.ErrSportRequired.Error(), logger)
		return
	}
	daysFrom, err := requestutil.IntParam(q, "daysFrom", 0)
	if err != nil {
		writeError(w, r, nethttp.StatusBadRequest, err.Error(), logger)
		return
	}
	if requestutil.FirstParam(q, "daysFrom") != "" && (daysFrom < 1 || daysFrom > appodds.MaxDaysFrom) {
		writeError(w, r, nethttp.StatusBadRequest, fmt.Sprintf("daysFrom must be between 1 and %d", appodds.MaxDaysFrom), logger)
		return
	}
	scores, err := h.svcs.Odds.Scores(r.Context(), sport, daysFrom)
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	logging.Info(logger, "served scores",
		slog.String(logging.FieldSport, sport),
		slog.Int(logging.FieldCount, len(scores)),
	)
	writeJSON(w, nethttp.StatusOK, scores, logger)
}

// Odds returns bookmaker odds for a sport across the requested regions.
func (h *Handler) Odds(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.svcs.Odds == nil {
		h.unavailable(w, r, "odds")
		return
	}
	logger := loggerFromContext(r, h.logger)
	q := r.URL.Query()
	query := domainodds.OddsQuery{
		Sport:      requestutil.FirstParam(q, "sport"),
		Regions:    domainodds.SplitList(requestutil.FirstParam(q, "regions")),
		Markets:    domainodds.SplitList(requestutil.FirstParam(q, "markets")),
		OddsFormat: requestutil.FirstParam(q, "oddsFormat", "odds_format"),
		DateFormat: requestutil.FirstParam(q, "dateFormat", "date_format"),
		EventIDs:   domainodds.SplitList(requestutil.FirstParam(q, "eventIds", "event_ids")),
		Bookmakers: domainodds.SplitList(requestutil.FirstParam(q, "bookmakers")),
	}
	if err := query.Validate(); err != nil {
		writeError(w, r, nethttp.StatusBadRequest, err.Error(), logger)
		return
	}
	events, err := h.svcs.Odds.Odds(r.Context(), query)
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	logging.Info(logger, "served odds",
		slog.String(logging.FieldSport, query.Sport),
		slog.Int(logging.FieldCount, len(events)),
	)
	writeJSON(w, nethttp.StatusOK, events, logger)
}

// Requests reports the upstream request quota.
func (h *Handler) Requests(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.svcs.Odds == nil {
		h.unavailable(w, r, "odds")
		return
	}
	logger := loggerFromContext(r, h.logger)
	quota, err := h.svcs.Odds.Quota(r.Context())
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, quotaResponse{
		Remaining: quota.Remaining,
		Used:      quota.Used,
		Last:      quota.Last,
	}, logger)
}
