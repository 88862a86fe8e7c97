// Package history collects historical odds and NBA season data into the archive.
package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/preston-bernstein/better-bets-service/internal/archive"
	"github.com/preston-bernstein/better-bets-service/internal/domain/odds"
	"github.com/preston-bernstein/better-bets-service/internal/logging"
	"github.com/preston-bernstein/better-bets-service/internal/metrics"
	"github.com/preston-bernstein/better-bets-service/internal/providers"
	"github.com/preston-bernstein/better-bets-service/internal/timeutil"
)

var (
	// ErrQuotaExhausted stops a backfill once remaining requests reach the floor.
	ErrQuotaExhausted = errors.New("odds quota floor reached")
	// ErrTooManyErrors stops a backfill after repeated fetch or write failures.
	ErrTooManyErrors = errors.New("too many backfill errors")
)

const (
	DefaultSport        = "basketball_nba"
	DefaultSnapshotHour = 12
	DefaultQuotaFloor   = 400
	DefaultMaxErrors    = 5

	resultWritten = "written"
	resultSkipped = "skipped"
	resultFailed  = "failed"
)

// BackfillOptions selects the days and limits for one backfill run.
type BackfillOptions struct {
	// RunID labels the run in logs and the report. Empty generates one.
	RunID string
	Sport string
	// League names the archive folder. Empty derives it from Sport (basketball_nba -> nba).
	League string
	From   time.Time
	To     time.Time
	// SnapshotHour is the UTC hour each day's snapshot is taken at. Out of range uses DefaultSnapshotHour.
	SnapshotHour int
	QuotaFloor   int
	MaxErrors    int
	// Force re-fetches days that are already archived.
	Force bool
}

// BackfillReport summarizes a run. It is returned even when the run stops early.
type BackfillReport struct {
	RunID          string `json:"runId"`
	Sport          string `json:"sport"`
	From           string `json:"from"`
	To             string `json:"to"`
	Requested      int    `json:"requested"`
	Written        int    `json:"written"`
	Skipped        int    `json:"skipped"`
	Failed         int    `json:"failed"`
	StoppedEarly   bool   `json:"stoppedEarly"`
	Reason         string `json:"reason,omitempty"`
	RemainingQuota int    `json:"remainingQuota"`
}

// Backfiller pulls one historical odds snapshot per day and archives it.
type Backfiller struct {
	odds    providers.OddsProvider
	archive *archive.Archive
	retrier *providers.Retrier
	logger  *slog.Logger
	metrics *metrics.Recorder
	newID   func() string
}

// NewBackfiller wires a Backfiller. retrier guards archive writes and may be nil.
func NewBackfiller(p providers.OddsProvider, a *archive.Archive, retrier *providers.Retrier, logger *slog.Logger, recorder *metrics.Recorder) *Backfiller {
	return &Backfiller{
		odds:    p,
		archive: a,
		retrier: retrier,
		logger:  logger,
		metrics: recorder,
		newID:   uuid.NewString,
	}
}

// Run walks From..To inclusive. It stops with ErrQuotaExhausted or ErrTooManyErrors
// when a limit trips, and with the context error when ctx ends.
func (b *Backfiller) Run(ctx context.Context, opts BackfillOptions) (BackfillReport, error) {
	opts = normalize(opts)
	if opts.RunID == "" {
		opts.RunID = b.newID()
	}
	report := BackfillReport{
		RunID: opts.RunID,
		Sport: opts.Sport,
		From:  timeutil.FormatDate(opts.From),
		To:    timeutil.FormatDate(opts.To),
	}
	logger := logging.FromContext(ctx, b.logger)
	if logger != nil {
		logger = logger.With(
			slog.String(logging.FieldRunID, report.RunID),
			slog.String(logging.FieldSport, opts.Sport),
		)
	}

	days, err := timeutil.DaysBetween(opts.From, opts.To)
	if err != nil {
		return report, err
	}
	report.Requested = len(days)

	quota, err := b.odds.Quota(ctx)
	if err != nil {
		return report, fmt.Errorf("fetch quota: %w", err)
	}
	report.RemainingQuota = quota.Remaining
	logging.Info(logger, "odds backfill starting",
		slog.Int(logging.FieldCount, len(days)),
		slog.String("from", report.From),
		slog.String("to", report.To),
		slog.Int(logging.FieldRemaining, quota.Remaining),
	)

	errCount := 0
	for _, day := range days {
		date := timeutil.FormatDate(day)
		if err := ctx.Err(); err != nil {
			return b.stop(logger, report, err, date)
		}
		if report.RemainingQuota <= opts.QuotaFloor {
			return b.stop(logger, report, fmt.Errorf("%w: %d remaining, floor %d", ErrQuotaExhausted, report.RemainingQuota, opts.QuotaFloor), date)
		}
		if errCount >= opts.MaxErrors {
			return b.stop(logger, report, fmt.Errorf("%w: %d errors", ErrTooManyErrors, errCount), date)
		}

		key := archive.OddsRawKey(opts.League, day)
		if !opts.Force && b.archive.Exists(key) {
			report.Skipped++
			b.metrics.RecordBackfillDay(opts.Sport, resultSkipped)
			continue
		}

		at := timeutil.AtHour(day, opts.SnapshotHour)
		q := odds.OddsQuery{Sport: opts.Sport, Regions: []string{"us"}, Markets: []string{odds.MarketH2H}}
		snapshot, err := b.odds.HistoricalOdds(ctx, q, at)
		if err != nil {
			errCount++
			report.Failed++
			b.metrics.RecordBackfillDay(opts.Sport, resultFailed)
			logging.Error(logger, "historical odds fetch failed", err, slog.String(logging.FieldDate, date))
			continue
		}
		if quota, err := b.odds.Quota(ctx); err == nil {
			report.RemainingQuota = quota.Remaining
			b.metrics.SetQuotaRemaining(quota.Remaining)
		}

		err = providers.Do(ctx, b.retrier, "archive", func(context.Context) error {
			return b.archive.WriteJSON(key, snapshot)
		})
		if err != nil {
			errCount++
			report.Failed++
			b.metrics.RecordBackfillDay(opts.Sport, resultFailed)
			logging.Error(logger, "archive write failed", err, slog.String(logging.FieldKey, key))
			continue
		}
		report.Written++
		b.metrics.RecordBackfillDay(opts.Sport, resultWritten)
		logging.Info(logger, "odds snapshot archived",
			slog.String(logging.FieldKey, key),
			slog.Int(logging.FieldCount, len(snapshot.Data)),
			slog.Int(logging.FieldRemaining, report.RemainingQuota),
		)
	}

	logging.Info(logger, "odds backfill complete",
		slog.Int("written", report.Written),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed),
	)
	return report, nil
}

func (b *Backfiller) stop(logger *slog.Logger, report BackfillReport, err error, date string) (BackfillReport, error) {
	report.StoppedEarly = true
	report.Reason = err.Error()
	logging.Error(logger, "odds backfill stopped", err, slog.String(logging.FieldDate, date))
	return report, err
}

func normalize(opts BackfillOptions) BackfillOptions {
	if opts.Sport == "" {
		opts.Sport = DefaultSport
	}
	if opts.League == "" {
		opts.League = LeagueFor(opts.Sport)
	}
	if opts.SnapshotHour < 0 || opts.SnapshotHour > 23 {
		opts.SnapshotHour = DefaultSnapshotHour
	}
	if opts.QuotaFloor <= 0 {
		opts.QuotaFloor = DefaultQuotaFloor
	}
	if opts.MaxErrors <= 0 {
		opts.MaxErrors = DefaultMaxErrors
	}
	return opts
}

// LeagueFor returns the archive league for a sport key: the part after the last underscore.
func LeagueFor(sport string) string {
	if i := strings.LastIndex(sport, "_"); i >= 0 && i < len(sport)-1 {
		return sport[i+1:]
	}
	return sport
}
