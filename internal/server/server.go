package server

import (
	"context"
	"log/slog"
	"net/http"

	appodds "github.com/preston-bernstein/better-bets-service/internal/app/odds"
	"github.com/preston-bernstein/better-bets-service/internal/app/players"
	appprices "github.com/preston-bernstein/better-bets-service/internal/app/prices"
	apprisk "github.com/preston-bernstein/better-bets-service/internal/app/risk"
	"github.com/preston-bernstein/better-bets-service/internal/app/teams"
	"github.com/preston-bernstein/better-bets-service/internal/cache"
	"github.com/preston-bernstein/better-bets-service/internal/config"
	httpserver "github.com/preston-bernstein/better-bets-service/internal/http"
	"github.com/preston-bernstein/better-bets-service/internal/http/handlers"
	"github.com/preston-bernstein/better-bets-service/internal/logging"
	"github.com/preston-bernstein/better-bets-service/internal/metrics"
	"github.com/preston-bernstein/better-bets-service/internal/poller"
	"github.com/preston-bernstein/better-bets-service/internal/quant"
	"github.com/preston-bernstein/better-bets-service/internal/store"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	store         *store.MemoryStore
	services      handlers.Services
	httpServer    httpServer
	metricsServer httpServer
	poller        Poller
	admin         *handlers.AdminHandler
	metricsStop   func(context.Context) error
	closers       []func() error
}

// New constructs a server with providers selected from cfg.
func New(cfg config.Config, logger *slog.Logger) *Server {
	return newServerWithProviders(cfg, logger, nil, nil)
}

// newServerWithProviders wires every component. A nil set builds providers from cfg; a non-nil set is
// still wrapped with retries so tests exercise the same path.
func newServerWithProviders(cfg config.Config, logger *slog.Logger, set *providerSet, recorder *metrics.Recorder) *Server {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	factory := newProviderFactory(logger, recorder)
	var provs providerSet
	if set == nil {
		provs = factory.build(cfg)
	} else {
		provs = factory.wrap(cfg, *set)
	}

	respCache, closeCache := buildCache(context.Background(), cfg.Cache, logger)
	loader := cache.Loader{
		Cache:   respCache,
		Name:    "response",
		TTL:     cfg.Cache.TTL,
		Logger:  logger,
		Metrics: recorder,
	}

	memoryStore := store.NewMemoryStore()
	pricesSvc := appprices.NewService(provs.Prices, loader, cfg.Prices.LookbackDays)
	svcs := handlers.Services{
		Odds:    appodds.NewService(provs.Odds, loader, cfg.OddsAPI.OddsFormat, cfg.OddsAPI.DateFormat),
		Teams:   teams.NewService(memoryStore, provs.NBA),
		Players: players.NewService(memoryStore, provs.NBA),
		Prices:  pricesSvc,
		Risk:    apprisk.NewService(pricesSvc, quant.NewEngine(recorder), RiskDefaults(cfg.Risk)),
	}

	arch := buildArchive(cfg, provs.Odds, logger, recorder)
	plr := poller.New(provs.NBA, provs.Odds, memoryStore, logger, recorder, cfg.Poller.Interval).
		WithRetention(arch.archive, cfg.Archive.RetentionDays, retentionPrefixes...)

	handler := handlers.NewHandler(svcs, logger, plr.Status)
	router := httpserver.NewRouter(handler, arch.admin, httpserver.RouterOptions{
		Logger:      logger,
		Metrics:     recorder,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	srv := &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		store:         memoryStore,
		services:      svcs,
		httpServer:    buildHTTPServer(cfg, router),
		metricsServer: metricsSrv,
		poller:        plr,
		admin:         arch.admin,
		metricsStop:   metricsShutdown,
	}
	if closeCache != nil {
		srv.closers = append(srv.closers, closeCache)
	}
	return srv
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, svcs handlers.Services, httpSrv httpServer, plr Poller) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		services:   svcs,
		httpServer: httpSrv,
		poller:     plr,
	}
}

// RiskDefaults maps risk config onto the VaR parameters a request may omit.
func RiskDefaults(cfg config.RiskConfig) quant.Request {
	return quant.Request{
		Method:      quant.MethodAll,
		Confidence:  cfg.Confidence,
		HorizonDays: cfg.HorizonDays,
		Simulations: cfg.Simulations,
		Seed:        cfg.Seed,
	}
}

func buildHTTPServer(cfg config.Config, handler http.Handler) httpServer {
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
	return netHTTPServer{srv: srv}
}

// Run starts the poller and HTTP server, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	s.poller.Start(ctx)

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	logging.Info(s.logger, "http server starting", slog.String("addr", s.httpServer.Addr()))
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	logging.Info(s.logger, "metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "error", err)
		}
	}

	if err := s.poller.Stop(shutdownCtx); err != nil {
		logging.Error(s.logger, "failed to stop poller", err)
	}

	if s.admin != nil {
		if err := s.admin.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "admin backfill did not stop in time", "error", err)
		}
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			logging.Warn(s.logger, "close failed", "error", err)
		}
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "err", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:              ":" + recCfg.Port,
				Handler:           handler,
				ReadHeaderTimeout: readTimeout,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		logging.Info(logger, "starting "+name+" server", slog.String("addr", srv.Addr()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(logger, name+" server failed", "error", err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
