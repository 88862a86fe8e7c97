package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/better-bets-service/internal/domain/players"
	"github.com/preston-bernstein/better-bets-service/internal/domain/teams"
	"github.com/preston-bernstein/better-bets-service/internal/logging"
	"github.com/preston-bernstein/better-bets-service/internal/metrics"
	"github.com/preston-bernstein/better-bets-service/internal/providers"
)

const defaultInterval = 10 * time.Minute

// RosterWriter receives refreshed NBA rosters.
type RosterWriter interface {
	SetTeams(items []teams.Team)
	SetPlayers(items []players.Player)
}

// Pruner drops archived files older than a retention window.
type Pruner interface {
	Prune(prefix string, retentionDays int) ([]string, error)
}

// Poller refreshes NBA rosters into the store and the odds quota on an interval.
type Poller struct {
	nba      providers.NBAProvider
	odds     providers.OddsProvider
	roster   RosterWriter
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration

	pruner        Pruner
	retentionDays int
	prunePrefixes []string

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the poller loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// IsReady reports whether the poller has had a recent success and is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// New constructs a Poller. odds may be nil when no quota tracking is wanted.
func New(nba providers.NBAProvider, oddsProvider providers.OddsProvider, roster RosterWriter, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Poller{
		nba:      nba,
		odds:     oddsProvider,
		roster:   roster,
		logger:   logger,
		metrics:  recorder,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// WithRetention prunes each prefix after every cycle. Non-positive days disables pruning.
func (p *Poller) WithRetention(pruner Pruner, days int, prefixes ...string) *Poller {
	p.pruner = pruner
	p.retentionDays = days
	p.prunePrefixes = prefixes
	return p
}

// Start begins polling until the context is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	if p.started {
		p.startMu.Unlock()
		return
	}
	p.started = true
	p.startMu.Unlock()

	p.ticker = time.NewTicker(p.interval)

	go func() {
		logging.Info(p.logger, "poller started", slog.Int64(logging.FieldDurationMS, p.interval.Milliseconds()))
		// Warm the roster on boot.
		p.fetchOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				p.stopTicker()
				logging.Info(p.logger, "poller stopped")
				return
			case <-p.done:
				p.stopTicker()
				logging.Info(p.logger, "poller stopped")
				return
			case <-p.ticker.C:
				p.fetchOnce(ctx)
			}
		}
	}()
}

// Stop halts the polling loop.
func (p *Poller) Stop(ctx context.Context) error {
	_ = ctx
	p.stopOnce.Do(func() {
		close(p.done)
		p.stopTicker()
	})
	return nil
}

// fetchOnce runs a cycle. Roster failures fail the cycle; quota and pruning problems are only logged.
func (p *Poller) fetchOnce(ctx context.Context) {
	start := time.Now()
	p.recordAttempt(start)

	teamCount, playerCount, err := p.refreshRoster(ctx)
	p.metrics.RecordPollerCycle(time.Since(start), err)
	if err != nil {
		logging.Error(p.logger, "poller refresh failed", err, slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()))
		p.recordFailure(err, start)
		return
	}

	p.refreshQuota(ctx)
	p.prune()
	p.recordSuccess(start)
	logging.Info(p.logger, "poller refreshed roster",
		slog.Int("teams", teamCount),
		slog.Int("players", playerCount),
		slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()),
	)
}

func (p *Poller) refreshRoster(ctx context.Context) (int, int, error) {
	if p.nba == nil {
		return 0, 0, providers.ErrProviderUnavailable
	}
	teamList, teamErr := p.nba.FetchTeams(ctx)
	playerList, playerErr := p.nba.FetchPlayers(ctx)
	if teamErr == nil && p.roster != nil {
		p.roster.SetTeams(teamList)
	}
	if playerErr == nil && p.roster != nil {
		p.roster.SetPlayers(playerList)
	}
	var errs []error
	if teamErr != nil {
		errs = append(errs, fmt.Errorf("teams: %w", teamErr))
	}
	if playerErr != nil {
		errs = append(errs, fmt.Errorf("players: %w", playerErr))
	}
	return len(teamList), len(playerList), errors.Join(errs...)
}

func (p *Poller) refreshQuota(ctx context.Context) {
	if p.odds == nil {
		return
	}
	quota, err := p.odds.Quota(ctx)
	if err != nil {
		logging.Warn(p.logger, "quota refresh failed", slog.Any("err", err))
		return
	}
	p.metrics.SetQuotaRemaining(quota.Remaining)
}

func (p *Poller) prune() {
	if p.pruner == nil || p.retentionDays <= 0 {
		return
	}
	for _, prefix := range p.prunePrefixes {
		removed, err := p.pruner.Prune(prefix, p.retentionDays)
		if err != nil {
			logging.Warn(p.logger, "archive prune failed", slog.String(logging.FieldKey, prefix), slog.Any("err", err))
			continue
		}
		if len(removed) > 0 {
			logging.Info(p.logger, "archive pruned", slog.String(logging.FieldKey, prefix), slog.Int(logging.FieldCount, len(removed)))
		}
	}
}

func (p *Poller) stopTicker() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Poller) recordSuccess(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
}

func (p *Poller) recordFailure(err error, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.status.LastAttempt = at
}

// Status returns a snapshot of the poller's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}
