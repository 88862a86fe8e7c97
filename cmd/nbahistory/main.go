// Command nbahistory archives every team's games for the requested seasons.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/preston-bernstein/better-bets-service/internal/archive"
	"github.com/preston-bernstein/better-bets-service/internal/cli"
	"github.com/preston-bernstein/better-bets-service/internal/history"
	"github.com/preston-bernstein/better-bets-service/internal/metrics"
	"github.com/preston-bernstein/better-bets-service/internal/server"
)

const appVersion = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("nbahistory", flag.ContinueOnError)
	fs.SetOutput(out)
	seasons := fs.String("seasons", "", "comma-separated season start years, e.g. 2022,2023")
	if err := fs.Parse(args); err != nil {
		return err
	}
	years, err := cli.SplitInts(*seasons)
	if err != nil {
		return err
	}
	if len(years) == 0 {
		return errors.New("-seasons is required")
	}

	cfg, logger, err := cli.Load("nbahistory", appVersion)
	if err != nil {
		return err
	}
	_, nba, _ := server.Providers(cfg, logger, metrics.NewRecorder())
	collector := history.NewSeasonCollector(nba, archive.New(cfg.Archive.Dir, logger), logger, cfg.NBA.Concurrency)

	report, runErr := collector.Collect(ctx, years)
	if err := cli.WriteJSON(out, report); err != nil {
		return err
	}
	return runErr
}
