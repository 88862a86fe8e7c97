// Command oddshistory archives one historical odds snapshot per day.
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
	"github.com/preston-bernstein/better-bets-service/internal/providers"
	"github.com/preston-bernstein/better-bets-service/internal/server"
	"github.com/preston-bernstein/better-bets-service/internal/timeutil"
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
	fs := flag.NewFlagSet("oddshistory", flag.ContinueOnError)
	fs.SetOutput(out)
	from := fs.String("from", "", "first day to archive (YYYY-MM-DD)")
	to := fs.String("to", "", "last day to archive (YYYY-MM-DD); defaults to -from")
	sport := fs.String("sport", history.DefaultSport, "the-odds-api sport key")
	force := fs.Bool("force", false, "re-fetch days that are already archived")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *from == "" {
		return errors.New("-from is required")
	}
	if *to == "" {
		*to = *from
	}
	start, end, err := timeutil.ParseRange(*from, *to)
	if err != nil {
		return err
	}

	cfg, logger, err := cli.Load("oddshistory", appVersion)
	if err != nil {
		return err
	}
	rec := metrics.NewRecorder()
	odds, _, _ := server.Providers(cfg, logger, rec)
	backfiller := history.NewBackfiller(odds, archive.New(cfg.Archive.Dir, logger), providers.NewRetrier(logger, rec, 0, 0), logger, rec)

	opts := server.BackfillDefaults(cfg)
	opts.Sport = *sport
	opts.From = start
	opts.To = end
	opts.Force = *force

	report, runErr := backfiller.Run(ctx, opts)
	if err := cli.WriteJSON(out, report); err != nil {
		return err
	}
	return runErr
}
