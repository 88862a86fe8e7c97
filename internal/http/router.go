package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/preston-bernstein/better-bets-service/internal/http/handlers"
	"github.com/preston-bernstein/better-bets-service/internal/http/middleware"
	"github.com/preston-bernstein/better-bets-service/internal/metrics"
)

// RouterOptions carries the cross-cutting pieces the router installs as middleware.
type RouterOptions struct {
	Logger      *slog.Logger
	Metrics     *metrics.Recorder
	CORSOrigins []string
}

// NewRouter registers HTTP routes on a chi mux. admin may be nil to leave admin routes unmounted.
func NewRouter(h *handlers.Handler, admin *handlers.AdminHandler, opts RouterOptions) nethttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logging(opts.Logger, opts.Metrics))
	r.Use(chimw.Recoverer)
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{nethttp.MethodGet, nethttp.MethodPost, nethttp.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID", "Retry-After"},
			MaxAge:         300,
		}))
	}
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)

	r.Get("/sports", h.Sports)
	r.Get("/scores", h.Scores)
	r.Get("/odds", h.Odds)
	r.Get("/requests", h.Requests)

	r.Route("/sports/nba", func(r chi.Router) {
		r.Get("/teams", h.Teams)
		r.Get("/players", h.Players)
		r.Get("/players/{id}", h.PlayerByID)
	})

	r.Get("/prices/{symbol}", h.Prices)
	r.Get("/risk/var", h.VaR)

	if admin != nil {
		r.Post("/admin/odds/backfill", admin.Backfill)
		r.Get("/admin/odds/backfill/{runID}", admin.BackfillStatus)
	}
	return r
}
