// Package risk turns daily prices into Value-at-Risk estimates.
package risk

import (
	"context"
	"fmt"
	"time"

	appprices "github.com/preston-bernstein/better-bets-service/internal/app/prices"
	"github.com/preston-bernstein/better-bets-service/internal/quant"
	"github.com/preston-bernstein/better-bets-service/internal/timeutil"
)

const (
	ReturnsSimple = "simple"
	ReturnsLog    = "log"
)

// Query selects the symbol, window and model parameters. Zero model fields take the service defaults.
type Query struct {
	Symbol  string
	From    time.Time
	To      time.Time
	Returns string
	quant.Request
}

// Report is the VaR payload for one symbol.
type Report struct {
	Symbol       string           `json:"symbol"`
	From         string           `json:"from"`
	To           string           `json:"to"`
	Returns      string           `json:"returns"`
	Observations int              `json:"observations"`
	LastClose    float64          `json:"lastClose"`
	Estimates    []quant.Estimate `json:"estimates"`
}

// Service computes VaR from fetched prices.
type Service struct {
	prices   *appprices.Service
	engine   *quant.Engine
	defaults quant.Request
}

func NewService(prices *appprices.Service, engine *quant.Engine, defaults quant.Request) *Service {
	return &Service{prices: prices, engine: engine, defaults: defaults}
}

// VaR fetches the price window, derives returns and runs the requested models.
func (s *Service) VaR(ctx context.Context, q Query) (Report, error) {
	req := s.withDefaults(q.Request)
	if err := req.Validate(); err != nil {
		return Report{}, err
	}
	kind := q.Returns
	if kind == "" {
		kind = ReturnsSimple
	}
	if kind != ReturnsSimple && kind != ReturnsLog {
		return Report{}, fmt.Errorf("unknown returns kind %q (expected simple or log)", q.Returns)
	}

	series, err := s.prices.Daily(ctx, q.Symbol, q.From, q.To)
	if err != nil {
		return Report{}, err
	}
	closes := series.Closes()
	if len(closes) < 3 {
		return Report{}, fmt.Errorf("%w: %d prices for %s", quant.ErrInsufficientData, len(closes), series.Symbol)
	}

	var returns []float64
	if kind == ReturnsLog {
		returns, err = quant.LogReturns(closes)
	} else {
		returns, err = quant.SimpleReturns(closes)
	}
	if err != nil {
		return Report{}, err
	}

	estimates, err := s.engine.Compute(ctx, returns, req)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Symbol:       series.Symbol,
		From:         timeutil.FormatDate(series.Bars[0].Date),
		To:           timeutil.FormatDate(series.Bars[len(series.Bars)-1].Date),
		Returns:      kind,
		Observations: len(returns),
		LastClose:    closes[len(closes)-1],
		Estimates:    estimates,
	}, nil
}

func (s *Service) withDefaults(r quant.Request) quant.Request {
	if r.Method == "" {
		r.Method = s.defaults.Method
	}
	if r.Confidence == 0 {
		r.Confidence = s.defaults.Confidence
	}
	if r.HorizonDays == 0 {
		r.HorizonDays = s.defaults.HorizonDays
	}
	if r.Simulations == 0 {
		r.Simulations = s.defaults.Simulations
	}
	if r.Seed == 0 {
		r.Seed = s.defaults.Seed
	}
	return r
}
