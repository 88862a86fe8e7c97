package transform

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/preston-bernstein/better-bets-service/internal/archive"
	"github.com/preston-bernstein/better-bets-service/internal/domain/odds"
	"github.com/preston-bernstein/better-bets-service/internal/logging"
)

// Sink receives the lines flattened from one archived file.
type Sink interface {
	Write(ctx context.Context, source string, lines []odds.Line) error
}

// RunReport counts what a Run did.
type RunReport struct {
	Files       int `json:"files"`
	Transformed int `json:"transformed"`
	Failed      int `json:"failed"`
	Lines       int `json:"lines"`
}

// Runner flattens every raw snapshot under a prefix into a Sink.
type Runner struct {
	archive *archive.Archive
	sink    Sink
	logger  *slog.Logger
}

func NewRunner(a *archive.Archive, sink Sink, logger *slog.Logger) *Runner {
	return &Runner{archive: a, sink: sink, logger: logger}
}

// Run processes each JSON key under prefix. Unreadable files and sink failures are logged
// and counted, never fatal.
func (r *Runner) Run(ctx context.Context, prefix string) (RunReport, error) {
	logger := logging.FromContext(ctx, r.logger)
	keys, err := r.archive.List(prefix)
	if err != nil {
		return RunReport{}, fmt.Errorf("list %s: %w", prefix, err)
	}

	var report RunReport
	for _, key := range keys {
		if !strings.HasSuffix(key, ".json") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Files++

		var snapshot odds.HistoricalOdds
		if err := r.archive.ReadJSON(key, &snapshot); err != nil {
			report.Failed++
			logging.Error(logger, "raw odds unreadable", err, slog.String(logging.FieldKey, key))
			continue
		}
		lines, err := Flatten(snapshot, logger)
		if err != nil {
			report.Failed++
			logging.Error(logger, "raw odds flatten failed", err, slog.String(logging.FieldKey, key))
			continue
		}
		if err := r.sink.Write(ctx, key, lines); err != nil {
			report.Failed++
			logging.Error(logger, "sink write failed", err, slog.String(logging.FieldKey, key))
			continue
		}
		report.Transformed++
		report.Lines += len(lines)
		logging.Info(logger, "raw odds transformed", slog.String(logging.FieldKey, key), slog.Int(logging.FieldCount, len(lines)))
	}
	logging.Info(logger, "transform complete",
		slog.Int("files", report.Files),
		slog.Int("failed", report.Failed),
		slog.Int("lines", report.Lines),
	)
	return report, nil
}
