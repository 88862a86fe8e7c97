package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/preston-bernstein/better-bets-service/internal/archive"
	"github.com/preston-bernstein/better-bets-service/internal/history"
)

func TestRunArchivesEachDay(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("ARCHIVE_DIR", dir)

	var out bytes.Buffer
	if err := run(context.Background(), []string{"-from", "2024-01-02", "-to", "2024-01-03"}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	var report history.BackfillReport
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v (%s)", err, out.String())
	}
	if report.Requested != 2 || report.Written != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
	a := archive.New(dir, nil)
	for _, day := range []time.Time{
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	} {
		if !a.Exists(archive.OddsRawKey("nba", day)) {
			t.Fatalf("expected archived snapshot for %s", day.Format("2006-01-02"))
		}
	}
}

func TestRunRequiresFrom(t *testing.T) {
	if err := run(context.Background(), nil, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error without -from")
	}
}

func TestRunRejectsReversedRange(t *testing.T) {
	err := run(context.Background(), []string{"-from", "2024-01-05", "-to", "2024-01-02"}, &bytes.Buffer{})
	if err == nil {
		t.Fatalf("expected error for reversed range")
	}
}
