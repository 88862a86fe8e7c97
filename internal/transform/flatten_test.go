package transform

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/better-bets-service/internal/domain/odds"
	"github.com/preston-bernstein/better-bets-service/internal/testutil"
)

var snapshotAt = time.Date(2023, 1, 2, 11, 55, 0, 0, time.UTC)

func sampleSnapshot() odds.HistoricalOdds {
	return odds.HistoricalOdds{
		Timestamp: snapshotAt,
		Data: []odds.Event{{
			ID:           "evt-1",
			SportKey:     "basketball_nba",
			SportTitle:   "NBA",
			CommenceTime: snapshotAt.Add(8 * time.Hour),
			HomeTeam:     "Boston Celtics",
			AwayTeam:     "Los Angeles Lakers",
			Bookmakers: []odds.Bookmaker{
				{
					Key:   "draftkings",
					Title: "DraftKings",
					Markets: []odds.Market{
						{Key: "h2h", Outcomes: []odds.Outcome{
							{Name: "Los Angeles Lakers", Price: 2.6},
							{Name: "Boston Celtics", Price: 1.5},
						}},
						{Key: "h2h_lay", Outcomes: []odds.Outcome{
							{Name: "Boston Celtics", Price: 1.52},
							{Name: "Los Angeles Lakers", Price: 2.7},
						}},
					},
				},
				{
					Key:   "broken",
					Title: "Broken Book",
					Markets: []odds.Market{
						{Key: "h2h", Outcomes: []odds.Outcome{
							{Name: "Over", Price: 1.9},
							{Name: "Under", Price: 1.9},
						}},
					},
				},
			},
		}},
	}
}

func TestFlattenMatchesPricesByName(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	lines, err := Flatten(sampleSnapshot(), logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected lay and mismatched markets dropped, got %d lines", len(lines))
	}
	l := lines[0]
	if l.HomePrice != 1.5 || l.AwayPrice != 2.6 {
		t.Fatalf("expected home 1.5 away 2.6, got %v/%v", l.HomePrice, l.AwayPrice)
	}
	if l.EventID != "evt-1" || l.BookmakerKey != "draftkings" || l.MarketKey != "h2h" || !l.SnapshotAt.Equal(snapshotAt) {
		t.Fatalf("unexpected line %+v", l)
	}
	if l.DrawPrice != nil {
		t.Fatalf("expected no draw price, got %v", *l.DrawPrice)
	}
	// 1/1.5 + 1/2.6 = 0.6667 + 0.3846
	if l.Overround == nil || *l.Overround != 1.0513 {
		t.Fatalf("expected overround 1.0513, got %v", l.Overround)
	}
	if !strings.Contains(buf.String(), "market outcomes do not match teams") {
		t.Fatalf("expected mismatch warning, got %q", buf.String())
	}
}

func TestFlattenCarriesDrawPrice(t *testing.T) {
	snap := sampleSnapshot()
	snap.Data[0].Bookmakers = snap.Data[0].Bookmakers[:1]
	snap.Data[0].Bookmakers[0].Markets = []odds.Market{{Key: "h2h", Outcomes: []odds.Outcome{
		{Name: "Boston Celtics", Price: 2.1},
		{Name: "Draw", Price: 3.4},
		{Name: "Los Angeles Lakers", Price: 3.2},
	}}}

	lines, err := Flatten(snap, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 1 || lines[0].DrawPrice == nil || *lines[0].DrawPrice != 3.4 {
		t.Fatalf("expected draw price 3.4, got %+v", lines)
	}
}

func TestFlattenNormalizesAmericanPrices(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	snap := sampleSnapshot()
	snap.Data[0].Bookmakers = snap.Data[0].Bookmakers[:1]
	snap.Data[0].Bookmakers[0].Markets = []odds.Market{
		{Key: "h2h", Outcomes: []odds.Outcome{
			{Name: "Boston Celtics", Price: -200},
			{Name: "Los Angeles Lakers", Price: 150},
		}},
		{Key: "spreads", Outcomes: []odds.Outcome{
			{Name: "Boston Celtics", Price: -110},
			{Name: "Los Angeles Lakers", Price: 40},
		}},
	}

	lines, err := Flatten(snap, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected the invalid market skipped, got %d lines", len(lines))
	}
	if lines[0].HomePrice != 1.5 || lines[0].AwayPrice != 2.5 {
		t.Fatalf("expected decimal prices 1.5/2.5, got %v/%v", lines[0].HomePrice, lines[0].AwayPrice)
	}
	if lines[0].Overround == nil || *lines[0].Overround != 1.0667 {
		t.Fatalf("expected overround 1.0667, got %v", lines[0].Overround)
	}
	if !strings.Contains(buf.String(), "market prices are invalid") {
		t.Fatalf("expected invalid price warning, got %q", buf.String())
	}
}

func TestFlattenRejectsEmptySnapshot(t *testing.T) {
	if _, err := Flatten(odds.HistoricalOdds{}, nil); !errors.Is(err, ErrEmptySnapshot) {
		t.Fatalf("expected ErrEmptySnapshot, got %v", err)
	}
}

func TestRecordFormatsColumns(t *testing.T) {
	draw := 3.25
	rec := Record(odds.Line{
		EventID:      "e",
		CommenceTime: snapshotAt,
		HomePrice:    1.5,
		AwayPrice:    2.75,
		DrawPrice:    &draw,
		SnapshotAt:   snapshotAt,
	})
	if len(rec) != len(Columns) {
		t.Fatalf("expected %d fields, got %d", len(Columns), len(rec))
	}
	if rec[9] != "1.5" || rec[10] != "2.75" || rec[11] != "3.25" || rec[12] != "" {
		t.Fatalf("unexpected prices %v", rec[9:13])
	}
	if rec[13] != "2023-01-02T11:55:00Z" {
		t.Fatalf("unexpected snapshot field %q", rec[13])
	}
}
