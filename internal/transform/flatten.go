// Package transform flattens archived historical odds into one row per (event, bookmaker, market).
package transform

import (
	"errors"
	"log/slog"

	"github.com/preston-bernstein/better-bets-service/internal/domain/odds"
	"github.com/preston-bernstein/better-bets-service/internal/logging"
)

// ErrEmptySnapshot is returned for snapshots without a timestamp.
var ErrEmptySnapshot = errors.New("snapshot has no timestamp")

const drawOutcome = "Draw"

// Flatten turns a snapshot into lines. Exchange lay markets are dropped. American prices
// are converted to decimal. Prices are matched to teams by outcome name; a market naming
// neither team is skipped with a warning.
func Flatten(snapshot odds.HistoricalOdds, logger *slog.Logger) ([]odds.Line, error) {
	if snapshot.Timestamp.IsZero() {
		return nil, ErrEmptySnapshot
	}
	var lines []odds.Line
	for _, ev := range snapshot.Data {
		for _, book := range ev.Bookmakers {
			for _, market := range book.Markets {
				if market.Key == odds.MarketH2HLay {
					continue
				}
				outcomes, err := odds.ToDecimal(market.Outcomes)
				if err != nil {
					logging.Warn(logger, "market prices are invalid",
						slog.String("event", ev.ID),
						slog.String("bookmaker", book.Key),
						slog.String("market", market.Key),
						slog.Any("err", err),
					)
					continue
				}
				line, ok := priceLine(ev, outcomes)
				if !ok {
					logging.Warn(logger, "market outcomes do not match teams",
						slog.String("event", ev.ID),
						slog.String("bookmaker", book.Key),
						slog.String("market", market.Key),
					)
					continue
				}
				line.EventID = ev.ID
				line.SportKey = ev.SportKey
				line.SportTitle = ev.SportTitle
				line.CommenceTime = ev.CommenceTime
				line.HomeTeam = ev.HomeTeam
				line.AwayTeam = ev.AwayTeam
				line.BookmakerKey = book.Key
				line.BookmakerTitle = book.Title
				line.MarketKey = market.Key
				line.SnapshotAt = snapshot.Timestamp
				lines = append(lines, line)
			}
		}
	}
	return lines, nil
}

func priceLine(ev odds.Event, outcomes []odds.Outcome) (odds.Line, bool) {
	var (
		line       odds.Line
		home, away bool
	)
	if over, err := odds.Overround(outcomes); err == nil {
		line.Overround = &over
	}
	for _, o := range outcomes {
		switch o.Name {
		case ev.HomeTeam:
			line.HomePrice, home = o.Price, true
		case ev.AwayTeam:
			line.AwayPrice, away = o.Price, true
		case drawOutcome:
			price := o.Price
			line.DrawPrice = &price
		}
	}
	return line, home && away
}
