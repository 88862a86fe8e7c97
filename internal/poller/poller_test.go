package poller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/preston-bernstein/better-bets-service/internal/domain/odds"
	"github.com/preston-bernstein/better-bets-service/internal/domain/players"
	"github.com/preston-bernstein/better-bets-service/internal/domain/teams"
	"github.com/preston-bernstein/better-bets-service/internal/metrics"
	"github.com/preston-bernstein/better-bets-service/internal/store"
	"github.com/preston-bernstein/better-bets-service/internal/teststubs"
)

func rosterProvider() *teststubs.StubNBAProvider {
	return &teststubs.StubNBAProvider{
		Teams:   []teams.Team{{ID: "bos", Name: "Celtics"}, {ID: "lal", Name: "Lakers"}},
		Players: []players.Player{{ID: "player-1", FirstName: "Jayson", LastName: "Tatum", Active: true}},
	}
}

func TestPollerRefreshesRosterAndQuota(t *testing.T) {
	provider := rosterProvider()
	provider.Notify = make(chan struct{})
	oddsProvider := &teststubs.StubOddsProvider{Usage: odds.Quota{Remaining: 321, ObservedAt: time.Now()}}
	s := store.NewMemoryStore()
	rec := metrics.NewRecorder()

	p := New(provider, oddsProvider, s, nil, rec, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p.Start(ctx)

	select {
	case <-provider.Notify:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for initial fetch")
	}

	deadline := time.Now().Add(500 * time.Millisecond)
	for !p.Status().IsReady() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	_ = p.Stop(context.Background())

	if got := len(s.ListTeams()); got != 2 {
		t.Fatalf("expected 2 teams stored, got %d", got)
	}
	if got := len(s.ListPlayers()); got != 1 {
		t.Fatalf("expected 1 player stored, got %d", got)
	}
	if rec.QuotaRemaining() != 321 {
		t.Fatalf("expected quota gauge 321, got %d", rec.QuotaRemaining())
	}
}

func TestPollerStopsOnContextCancel(t *testing.T) {
	provider := rosterProvider()
	provider.Notify = make(chan struct{})

	p := New(provider, nil, store.NewMemoryStore(), nil, nil, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	p.Start(ctx)

	select {
	case <-provider.Notify:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for initial fetch")
	}

	cancel()
	_ = p.Stop(context.Background())
	time.Sleep(10 * time.Millisecond)

	callsAfterStop := provider.Calls.Load()
	time.Sleep(20 * time.Millisecond)
	if provider.Calls.Load() != callsAfterStop {
		t.Fatalf("expected no additional fetches after stop; before=%d after=%d", callsAfterStop, provider.Calls.Load())
	}
}

func TestPollerStopIsIdempotent(t *testing.T) {
	p := New(rosterProvider(), nil, nil, nil, nil, time.Hour)

	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("first stop returned error: %v", err)
	}
	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("second stop returned error: %v", err)
	}
}

func TestPollerStartIsIdempotent(t *testing.T) {
	p := New(rosterProvider(), nil, nil, nil, nil, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p.Start(ctx)
	p.Start(ctx) // should no-op

	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("stop returned error: %v", err)
	}
}

func TestPollerDefaultsInterval(t *testing.T) {
	p := New(rosterProvider(), nil, nil, nil, nil, 0)
	if p.interval != defaultInterval {
		t.Fatalf("expected default interval %s, got %s", defaultInterval, p.interval)
	}
}

func TestPollerStartReturnsWhenAlreadyStarted(t *testing.T) {
	p := New(rosterProvider(), nil, nil, nil, nil, time.Hour)
	p.started = true
	p.Start(context.Background())
	if p.ticker != nil {
		t.Fatalf("expected ticker not to be created when already started")
	}
}

func TestPollerStatusTracksFailuresAndSuccess(t *testing.T) {
	provider := rosterProvider()
	provider.Err = errors.New("boom")

	p := New(provider, nil, store.NewMemoryStore(), nil, nil, time.Millisecond)
	ctx := context.Background()

	p.fetchOnce(ctx)
	status := p.Status()
	if status.ConsecutiveFailures != 1 {
		t.Fatalf("expected 1 failure, got %d", status.ConsecutiveFailures)
	}
	if status.LastError == "" {
		t.Fatalf("expected last error recorded")
	}
	if !status.LastSuccess.IsZero() {
		t.Fatalf("expected no success recorded yet")
	}
	if status.IsReady() {
		t.Fatalf("expected not ready after failure")
	}

	provider.Err = nil
	p.fetchOnce(ctx)
	status = p.Status()
	if status.ConsecutiveFailures != 0 {
		t.Fatalf("expected failures reset, got %d", status.ConsecutiveFailures)
	}
	if status.LastSuccess.IsZero() {
		t.Fatalf("expected success timestamp")
	}
	if !status.IsReady() {
		t.Fatalf("expected ready after success")
	}
}

func TestPollerKeepsTeamsWhenPlayersFail(t *testing.T) {
	provider := rosterProvider()
	provider.PlayerErr = errors.New("players down")
	s := store.NewMemoryStore()

	p := New(provider, nil, s, nil, nil, time.Minute)
	p.fetchOnce(context.Background())

	if len(s.ListTeams()) != 2 {
		t.Fatalf("expected teams stored despite player failure")
	}
	if p.Status().ConsecutiveFailures != 1 {
		t.Fatalf("expected partial refresh to count as failure")
	}
}

func TestPollerQuotaFailureDoesNotFailCycle(t *testing.T) {
	oddsProvider := &teststubs.StubOddsProvider{QuotaErr: errors.New("no key")}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := metrics.NewRecorder()

	p := New(rosterProvider(), oddsProvider, store.NewMemoryStore(), logger, rec, time.Minute)
	p.fetchOnce(context.Background())

	if !p.Status().IsReady() {
		t.Fatalf("expected ready despite quota failure")
	}
	if rec.QuotaRemaining() != -1 {
		t.Fatalf("expected quota to stay unknown, got %d", rec.QuotaRemaining())
	}
}

func TestPollerPrunesArchivePrefixes(t *testing.T) {
	pruner := &teststubs.StubPruner{Err: errors.New("disk")}
	p := New(rosterProvider(), nil, nil, nil, nil, time.Minute).
		WithRetention(pruner, 30, "odds/raw/nba", "odds/transformed/nba")
	p.fetchOnce(context.Background())

	if len(pruner.Prefixes) != 2 {
		t.Fatalf("expected both prefixes pruned, got %v", pruner.Prefixes)
	}
	if !p.Status().IsReady() {
		t.Fatalf("expected prune failures to be tolerated")
	}
}

func TestPollerNilProviderFails(t *testing.T) {
	p := New(nil, nil, nil, nil, nil, time.Minute)
	p.fetchOnce(context.Background())
	if p.Status().ConsecutiveFailures != 1 {
		t.Fatalf("expected failure without a provider")
	}
}

func BenchmarkPollerFetchOnce(b *testing.B) {
	p := New(rosterProvider(), nil, store.NewMemoryStore(), nil, nil, time.Second)
	ctx := context.Background()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p.fetchOnce(ctx)
	}
}
