package transform

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/preston-bernstein/better-bets-service/internal/archive"
	"github.com/preston-bernstein/better-bets-service/internal/domain/odds"
	"github.com/preston-bernstein/better-bets-service/internal/testutil"
)

type recordingSink struct {
	writes map[string]int
	fail   string
}

func (s *recordingSink) Write(_ context.Context, source string, lines []odds.Line) error {
	if source == s.fail {
		return errors.New("sink down")
	}
	if s.writes == nil {
		s.writes = map[string]int{}
	}
	s.writes[source] = len(lines)
	return nil
}

func seedArchive(t *testing.T) *archive.Archive {
	t.Helper()
	logger, _ := testutil.NewBufferLogger()
	dir := t.TempDir()
	a := archive.New(dir, logger)
	if err := a.WriteJSON("odds/raw/nba/nba_2023-01-02.json", sampleSnapshot()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := a.WriteJSON("odds/raw/nba/nba_2023-01-03.json", sampleSnapshot()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	bad := filepath.Join(dir, "odds", "raw", "nba", "nba_2023-01-04.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed bad file: %v", err)
	}
	return a
}

func TestRunnerSkipsBadFiles(t *testing.T) {
	a := seedArchive(t)
	sink := &recordingSink{}
	report, err := NewRunner(a, sink, nil).Run(context.Background(), "odds/raw/nba")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Files != 3 || report.Transformed != 2 || report.Failed != 1 || report.Lines != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
	if sink.writes["odds/raw/nba/nba_2023-01-02.json"] != 1 {
		t.Fatalf("unexpected sink writes %v", sink.writes)
	}
}

func TestRunnerCountsSinkFailures(t *testing.T) {
	a := seedArchive(t)
	sink := &recordingSink{fail: "odds/raw/nba/nba_2023-01-03.json"}
	report, err := NewRunner(a, sink, nil).Run(context.Background(), "odds/raw/nba")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Transformed != 1 || report.Failed != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestRunnerWritesCSVIntoArchive(t *testing.T) {
	a := seedArchive(t)
	if _, err := NewRunner(a, NewCSVSink(a), nil).Run(context.Background(), "odds/raw/nba"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows, err := a.ReadCSV("odds/transformed/nba/nba_2023-01-02.csv")
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 2 || rows[0][0] != "event_id" || rows[1][0] != "evt-1" {
		t.Fatalf("unexpected csv rows %v", rows)
	}
}

func TestRunnerEmptyPrefix(t *testing.T) {
	a := archive.New(t.TempDir(), nil)
	report, err := NewRunner(a, &recordingSink{}, nil).Run(context.Background(), "odds/raw/nfl")
	if err != nil || report.Files != 0 {
		t.Fatalf("expected empty run, got %+v %v", report, err)
	}
}
