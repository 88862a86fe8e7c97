package transform

import (
	"context"
	"path"
	"strconv"
	"time"

	"github.com/preston-bernstein/better-bets-service/internal/archive"
	"github.com/preston-bernstein/better-bets-service/internal/domain/odds"
)

// Columns is the column order shared by the CSV and Postgres sinks.
var Columns = []string{
	"event_id", "sport_key", "sport_title", "commence_time", "home_team", "away_team",
	"bookmaker_key", "bookmaker_title", "market_key", "home_price", "away_price", "draw_price", "overround", "snapshot_at",
}

// CSVSink writes one CSV per source file next to the raw archive.
type CSVSink struct {
	archive *archive.Archive
}

func NewCSVSink(a *archive.Archive) *CSVSink {
	return &CSVSink{archive: a}
}

// Write stores lines at odds/transformed/<league>/<name>.csv where league is the source's folder.
func (s *CSVSink) Write(_ context.Context, source string, lines []odds.Line) error {
	league := path.Base(path.Dir(source))
	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, Record(l))
	}
	return s.archive.WriteCSV(archive.OddsTransformedKey(league, source), Columns, rows)
}

// Record renders a line in Columns order. Absent optional prices are empty fields.
func Record(l odds.Line) []string {
	draw, over := "", ""
	if l.DrawPrice != nil {
		draw = formatPrice(*l.DrawPrice)
	}
	if l.Overround != nil {
		over = formatPrice(*l.Overround)
	}
	return []string{
		l.EventID,
		l.SportKey,
		l.SportTitle,
		l.CommenceTime.UTC().Format(time.RFC3339),
		l.HomeTeam,
		l.AwayTeam,
		l.BookmakerKey,
		l.BookmakerTitle,
		l.MarketKey,
		formatPrice(l.HomePrice),
		formatPrice(l.AwayPrice),
		draw,
		over,
		l.SnapshotAt.UTC().Format(time.RFC3339),
	}
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
