package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/preston-bernstein/better-bets-service/internal/archive"
	"github.com/preston-bernstein/better-bets-service/internal/domain/odds"
	"github.com/preston-bernstein/better-bets-service/internal/providers/fixture"
	"github.com/preston-bernstein/better-bets-service/internal/transform"
)

func TestRunWritesCSVForArchivedSnapshots(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("ARCHIVE_DIR", dir)

	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	snapshot, err := fixture.New().HistoricalOdds(context.Background(), odds.OddsQuery{Sport: "basketball_nba"}, day.Add(12*time.Hour))
	if err != nil {
		t.Fatalf("fixture snapshot: %v", err)
	}
	a := archive.New(dir, nil)
	rawKey := archive.OddsRawKey("nba", day)
	if err := a.WriteJSON(rawKey, snapshot); err != nil {
		t.Fatalf("seed archive: %v", err)
	}

	var out bytes.Buffer
	if err := run(context.Background(), nil, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	var report transform.RunReport
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v (%s)", err, out.String())
	}
	if report.Transformed != 1 || report.Lines == 0 {
		t.Fatalf("unexpected report %+v", report)
	}
	if !a.Exists(archive.OddsTransformedKey("nba", rawKey)) {
		t.Fatalf("expected transformed csv")
	}
}

func TestRunRejectsUnknownSink(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("ARCHIVE_DIR", t.TempDir())
	if err := run(context.Background(), []string{"-sink", "parquet"}, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for unknown sink")
	}
}

func TestRunPostgresRequiresDSN(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("ARCHIVE_DIR", t.TempDir())
	t.Setenv("POSTGRES_DSN", "")
	if err := run(context.Background(), []string{"-sink", "postgres"}, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error without dsn")
	}
}
