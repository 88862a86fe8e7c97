package handlers

import (
	"errors"
	"log/slog"
	"math"
	nethttp "net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	appprices "github.com/preston-bernstein/better-bets-service/internal/app/prices"
	apprisk "github.com/preston-bernstein/better-bets-service/internal/app/risk"
	"github.com/preston-bernstein/better-bets-service/internal/http/requestutil"
	"github.com/preston-bernstein/better-bets-service/internal/logging"
	"github.com/preston-bernstein/better-bets-service/internal/quant"
	"github.com/preston-bernstein/better-bets-service/internal/timeutil"
)

// Prices returns daily bars for the symbol in the path.
func (h *Handler) Prices(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.svcs.Prices == nil {
		h.unavailable(w, r, "prices")
		return
	}
	logger := loggerFromContext(r, h.logger)
	symbol := chi.URLParam(r, "symbol")
	from, to, err := dateWindow(r)
	if err != nil {
		writeError(w, r, nethttp.StatusBadRequest, err.Error(), logger)
		return
	}
	series, err := h.svcs.Prices.Daily(r.Context(), symbol, from, to)
	if errors.Is(err, appprices.ErrSymbolRequired) {
		writeError(w, r, nethttp.StatusBadRequest, err.Error(), logger)
		return
	}
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	logging.Info(logger, "served prices",
		slog.String(logging.FieldSymbol, series.Symbol),
		slog.Int(logging.FieldCount, series.Count),
	)
	writeJSON(w, nethttp.StatusOK, series, logger)
}

// VaR computes Value-at-Risk for a symbol over a date window.
func (h *Handler) VaR(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.svcs.Risk == nil {
		h.unavailable(w, r, "risk")
		return
	}
	logger := loggerFromContext(r, h.logger)
	query, err := parseVaRQuery(r)
	if err != nil {
		writeError(w, r, nethttp.StatusBadRequest, err.Error(), logger)
		return
	}
	report, err := h.svcs.Risk.VaR(r.Context(), query)
	if errors.Is(err, appprices.ErrSymbolRequired) {
		writeError(w, r, nethttp.StatusBadRequest, err.Error(), logger)
		return
	}
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	logging.Info(logger, "served var",
		slog.String(logging.FieldSymbol, report.Symbol),
		slog.Int(logging.FieldCount, len(report.Estimates)),
	)
	writeJSON(w, nethttp.StatusOK, report, logger)
}

func parseVaRQuery(r *nethttp.Request) (apprisk.Query, error) {
	q := r.URL.Query()
	symbol := requestutil.FirstParam(q, "symbol")
	if symbol == "" {
		return apprisk.Query{}, appprices.ErrSymbolRequired
	}
	var method quant.Method
	if raw := requestutil.FirstParam(q, "method"); raw != "" {
		m, err := quant.ParseMethod(raw)
		if err != nil {
			return apprisk.Query{}, err
		}
		method = m
	}
	// Absent model parameters stay zero so the service applies its defaults.
	// A supplied zero is a caller error, not a request for the default.
	confidence, err := requestutil.FloatParam(q, "confidence", 0)
	if err != nil {
		return apprisk.Query{}, err
	}
	if supplied(q, "confidence") && (confidence <= 0 || confidence >= 1 || math.IsNaN(confidence)) {
		return apprisk.Query{}, quant.ErrInvalidConfidence
	}
	horizon, err := requestutil.IntParam(q, "horizon", 0)
	if err != nil {
		return apprisk.Query{}, err
	}
	if supplied(q, "horizon") && (horizon < 1 || horizon > quant.MaxHorizonDays) {
		return apprisk.Query{}, quant.ErrInvalidHorizon
	}
	sims, err := requestutil.IntParam(q, "simulations", 0)
	if err != nil {
		return apprisk.Query{}, err
	}
	if supplied(q, "simulations") && (sims < 1 || sims > quant.MaxSimulations) {
		return apprisk.Query{}, quant.ErrInvalidSims
	}
	value, err := requestutil.FloatParam(q, "value", 0)
	if err != nil {
		return apprisk.Query{}, err
	}
	if value < 0 {
		return apprisk.Query{}, quant.ErrInvalidValue
	}
	returns := requestutil.FirstParam(q, "returns")
	if returns != "" && returns != apprisk.ReturnsSimple && returns != apprisk.ReturnsLog {
		return apprisk.Query{}, errors.New("returns must be simple or log")
	}
	from, to, err := dateWindow(r)
	if err != nil {
		return apprisk.Query{}, err
	}
	return apprisk.Query{
		Symbol:  symbol,
		From:    from,
		To:      to,
		Returns: returns,
		Request: quant.Request{
			Method:         method,
			Confidence:     confidence,
			HorizonDays:    horizon,
			Simulations:    sims,
			PortfolioValue: value,
		},
	}, nil
}

func supplied(q url.Values, key string) bool {
	return strings.TrimSpace(q.Get(key)) != ""
}

// dateWindow parses optional from/to query dates. Zero values mean "use the default".
func dateWindow(r *nethttp.Request) (time.Time, time.Time, error) {
	q := r.URL.Query()
	return timeutil.ParseRange(requestutil.FirstParam(q, "from"), requestutil.FirstParam(q, "to"))
}
