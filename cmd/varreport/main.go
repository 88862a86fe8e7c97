// Command varreport prints Value-at-Risk estimates for a list of symbols.
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
	"text/tabwriter"

	appprices "github.com/preston-bernstein/better-bets-service/internal/app/prices"
	apprisk "github.com/preston-bernstein/better-bets-service/internal/app/risk"
	"github.com/preston-bernstein/better-bets-service/internal/cache"
	"github.com/preston-bernstein/better-bets-service/internal/cli"
	"github.com/preston-bernstein/better-bets-service/internal/metrics"
	"github.com/preston-bernstein/better-bets-service/internal/quant"
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
	fs := flag.NewFlagSet("varreport", flag.ContinueOnError)
	fs.SetOutput(out)
	symbols := fs.String("symbols", "", "comma-separated tickers, e.g. AAPL,MSFT")
	method := fs.String("method", string(quant.MethodAll), "historical, parametric, montecarlo or all")
	confidence := fs.Float64("confidence", 0, "confidence level in (0,1); omit for the configured default")
	horizon := fs.Int("horizon", 0, "holding period in days, at most 252; omit for the configured default")
	sims := fs.Int("simulations", 0, "monte carlo paths, at most 1000000; omit for the configured default")
	value := fs.Float64("value", 0, "portfolio value for currency amounts")
	from := fs.String("from", "", "first price date (YYYY-MM-DD)")
	to := fs.String("to", "", "last price date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := checkExplicit(fs, *confidence, *horizon, *sims); err != nil {
		return err
	}
	tickers := cli.SplitList(*symbols)
	if len(tickers) == 0 {
		return errors.New("-symbols is required")
	}
	m, err := quant.ParseMethod(*method)
	if err != nil {
		return err
	}
	start, end, err := timeutil.ParseRange(*from, *to)
	if err != nil {
		return err
	}

	cfg, logger, err := cli.Load("varreport", appVersion)
	if err != nil {
		return err
	}
	rec := metrics.NewRecorder()
	_, _, priceProvider := server.Providers(cfg, logger, rec)
	pricesSvc := appprices.NewService(priceProvider, cache.Loader{}, cfg.Prices.LookbackDays)
	risk := apprisk.NewService(pricesSvc, quant.NewEngine(rec), server.RiskDefaults(cfg.Risk))

	req := quant.Request{Method: m, Confidence: *confidence, HorizonDays: *horizon, Simulations: *sims, PortfolioValue: *value}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tMETHOD\tCONF\tHORIZON\tVAR\tES\tAMOUNT\tOBS")

	var errs []error
	for _, symbol := range tickers {
		report, err := risk.VaR(ctx, apprisk.Query{Symbol: symbol, From: start, To: end, Request: req})
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", symbol, err))
			fmt.Fprintf(tw, "%s\terror\t\t\t\t\t\t%v\n", symbol, err)
			continue
		}
		for _, est := range report.Estimates {
			fmt.Fprintf(tw, "%s\t%s\t%.2f\t%d\t%.4f%%\t%.4f%%\t%s\t%d\n",
				report.Symbol, est.Method, est.Confidence, est.HorizonDays,
				est.VaR*100, est.ExpectedShortfall*100, amount(est.VaRAmount), est.Observations)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return errors.Join(errs...)
}

// checkExplicit rejects model flags that were set to out-of-range values, zero included.
func checkExplicit(fs *flag.FlagSet, confidence float64, horizon, sims int) error {
	var err error
	fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "confidence":
			if confidence <= 0 || confidence >= 1 {
				err = quant.ErrInvalidConfidence
			}
		case "horizon":
			if horizon < 1 || horizon > quant.MaxHorizonDays {
				err = quant.ErrInvalidHorizon
			}
		case "simulations":
			if sims < 1 || sims > quant.MaxSimulations {
				err = quant.ErrInvalidSims
			}
		}
	})
	return err
}

func amount(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}
