// Command oddstransform flattens archived odds snapshots into one row per bookmaker line.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/preston-bernstein/better-bets-service/internal/archive"
	"github.com/preston-bernstein/better-bets-service/internal/cli"
	"github.com/preston-bernstein/better-bets-service/internal/transform"
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
	fs := flag.NewFlagSet("oddstransform", flag.ContinueOnError)
	fs.SetOutput(out)
	prefix := fs.String("prefix", archive.OddsRawPrefix("nba"), "archive folder holding raw snapshots")
	sinkName := fs.String("sink", "csv", "where lines go: csv or postgres")
	table := fs.String("table", "odds_lines", "postgres table for the postgres sink")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, logger, err := cli.Load("oddstransform", appVersion)
	if err != nil {
		return err
	}
	arch := archive.New(cfg.Archive.Dir, logger)

	var sink transform.Sink
	switch strings.ToLower(*sinkName) {
	case "csv":
		sink = transform.NewCSVSink(arch)
	case "postgres":
		if cfg.Postgres.DSN == "" {
			return errors.New("POSTGRES_DSN is required for the postgres sink")
		}
		db, err := transform.OpenPostgres(ctx, cfg.Postgres.DSN)
		if err != nil {
			return err
		}
		defer db.Close()
		pg := transform.NewPostgresSink(db, *table)
		if err := pg.EnsureSchema(ctx); err != nil {
			return err
		}
		sink = pg
	default:
		return fmt.Errorf("unknown sink %q (expected csv or postgres)", *sinkName)
	}

	report, err := transform.NewRunner(arch, sink, logger).Run(ctx, *prefix)
	if err != nil {
		return err
	}
	return cli.WriteJSON(out, report)
}
