package server

import (
	"log/slog"

	"github.com/preston-bernstein/better-bets-service/internal/archive"
	"github.com/preston-bernstein/better-bets-service/internal/config"
	"github.com/preston-bernstein/better-bets-service/internal/history"
	"github.com/preston-bernstein/better-bets-service/internal/http/handlers"
	"github.com/preston-bernstein/better-bets-service/internal/metrics"
	"github.com/preston-bernstein/better-bets-service/internal/providers"
)

// retentionPrefixes are the archive folders the poller prunes.
var retentionPrefixes = []string{"odds/raw", "odds/transformed"}

type archiveComponents struct {
	archive *archive.Archive
	admin   *handlers.AdminHandler
}

// buildArchive opens the file archive and, when an admin token is configured, the backfill endpoint over it.
func buildArchive(cfg config.Config, odds providers.OddsProvider, logger *slog.Logger, recorder *metrics.Recorder) archiveComponents {
	comps := archiveComponents{archive: archive.New(cfg.Archive.Dir, logger)}
	if cfg.Server.AdminToken == "" {
		return comps
	}

	retrier := providers.NewRetrier(logger, recorder, 0, 0)
	backfiller := history.NewBackfiller(odds, comps.archive, retrier, logger, recorder)
	comps.admin = handlers.NewAdminHandler(backfiller, BackfillDefaults(cfg), cfg.Server.AdminToken, logger)
	return comps
}

// BackfillDefaults maps odds config onto backfill options. The date range is left to the caller.
func BackfillDefaults(cfg config.Config) history.BackfillOptions {
	return history.BackfillOptions{
		Sport:        history.DefaultSport,
		SnapshotHour: cfg.OddsAPI.SnapshotHourUTC,
		QuotaFloor:   cfg.OddsAPI.QuotaFloor,
		MaxErrors:    cfg.OddsAPI.MaxErrors,
	}
}
