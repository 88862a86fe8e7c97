package transform

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/preston-bernstein/better-bets-service/internal/domain/odds"
)

const (
	DefaultTable = "odds_lines"
	// 14 params per row keeps a batch well under the 65535 bind-parameter limit.
	batchSize = 500
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// PostgresSink upserts lines keyed by (event_id, bookmaker_key, market_key, snapshot_at).
type PostgresSink struct {
	db    execer
	table string
}

// OpenPostgres connects with lib/pq and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// NewPostgresSink writes into table, DefaultTable when empty.
func NewPostgresSink(db execer, table string) *PostgresSink {
	if table == "" {
		table = DefaultTable
	}
	return &PostgresSink{db: db, table: table}
}

// EnsureSchema creates the table and its conflict key when missing, and adds columns
// introduced after the table was first created.
func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableSQL(s.table)); err != nil {
		return fmt.Errorf("create %s: %w", s.table, err)
	}
	alter := fmt.Sprintf("ALTER TABLE %s ADD COLUMN IF NOT EXISTS overround DOUBLE PRECISION", pq.QuoteIdentifier(s.table))
	if _, err := s.db.ExecContext(ctx, alter); err != nil {
		return fmt.Errorf("migrate %s: %w", s.table, err)
	}
	return nil
}

// Write upserts lines in batches. A key repeated within lines keeps its last occurrence,
// since ON CONFLICT cannot update the same row twice in one statement.
func (s *PostgresSink) Write(ctx context.Context, _ string, lines []odds.Line) error {
	lines = dedupeByKey(lines)
	for start := 0; start < len(lines); start += batchSize {
		end := start + batchSize
		if end > len(lines) {
			end = len(lines)
		}
		batch := lines[start:end]
		if _, err := s.db.ExecContext(ctx, upsertSQL(s.table, len(batch)), upsertArgs(batch)...); err != nil {
			return fmt.Errorf("upsert %d lines: %w", len(batch), err)
		}
	}
	return nil
}

type lineKey struct {
	eventID, bookmaker, market string
	snapshot                   time.Time
}

func dedupeByKey(lines []odds.Line) []odds.Line {
	index := make(map[lineKey]int, len(lines))
	out := make([]odds.Line, 0, len(lines))
	for _, l := range lines {
		k := lineKey{l.EventID, l.BookmakerKey, l.MarketKey, l.SnapshotAt.UTC()}
		if i, ok := index[k]; ok {
			out[i] = l
			continue
		}
		index[k] = len(out)
		out = append(out, l)
	}
	return out
}

func createTableSQL(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	event_id        TEXT NOT NULL,
	sport_key       TEXT NOT NULL,
	sport_title     TEXT NOT NULL,
	commence_time   TIMESTAMPTZ NOT NULL,
	home_team       TEXT NOT NULL,
	away_team       TEXT NOT NULL,
	bookmaker_key   TEXT NOT NULL,
	bookmaker_title TEXT NOT NULL,
	market_key      TEXT NOT NULL,
	home_price      DOUBLE PRECISION NOT NULL,
	away_price      DOUBLE PRECISION NOT NULL,
	draw_price      DOUBLE PRECISION,
	overround       DOUBLE PRECISION,
	snapshot_at     TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (event_id, bookmaker_key, market_key, snapshot_at)
)`, pq.QuoteIdentifier(table))
}

func upsertSQL(table string, rows int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", pq.QuoteIdentifier(table), strings.Join(Columns, ", "))
	n := 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for c := range Columns {
			if c > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", n)
			n++
		}
		b.WriteByte(')')
	}
	b.WriteString(" ON CONFLICT (event_id, bookmaker_key, market_key, snapshot_at) DO UPDATE SET ")
	var sets []string
	for _, col := range Columns {
		switch col {
		case "event_id", "bookmaker_key", "market_key", "snapshot_at":
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}
	b.WriteString(strings.Join(sets, ", "))
	return b.String()
}

func upsertArgs(lines []odds.Line) []any {
	args := make([]any, 0, len(lines)*len(Columns))
	for _, l := range lines {
		var draw, over any
		if l.DrawPrice != nil {
			draw = *l.DrawPrice
		}
		if l.Overround != nil {
			over = *l.Overround
		}
		args = append(args,
			l.EventID, l.SportKey, l.SportTitle, l.CommenceTime.UTC(),
			l.HomeTeam, l.AwayTeam, l.BookmakerKey, l.BookmakerTitle, l.MarketKey,
			l.HomePrice, l.AwayPrice, draw, over, l.SnapshotAt.UTC(),
		)
	}
	return args
}
