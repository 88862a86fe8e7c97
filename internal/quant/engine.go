package quant

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/preston-bernstein/better-bets-service/internal/metrics"
)

const (
	// MaxHorizonDays is one trading year.
	MaxHorizonDays = 252
	// MaxSimulations bounds Monte Carlo memory to a few megabytes per run.
	MaxSimulations = 1_000_000
)

// Method selects a VaR model.
type Method string

const (
	MethodHistorical Method = "historical"
	MethodParametric Method = "parametric"
	MethodMonteCarlo Method = "montecarlo"
	MethodAll        Method = "all"
)

// ParseMethod maps user input to a Method. Empty input means all.
func ParseMethod(raw string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(raw))); m {
	case "":
		return MethodAll, nil
	case MethodHistorical, MethodParametric, MethodMonteCarlo, MethodAll:
		return m, nil
	case "monte_carlo", "monte-carlo", "mc":
		return MethodMonteCarlo, nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrInvalidMethod, raw)
	}
}

// Request parameterizes a VaR computation.
type Request struct {
	Method         Method
	Confidence     float64
	HorizonDays    int
	Simulations    int
	Seed           int64
	PortfolioValue float64
}

// Validate checks the request parameters.
func (r Request) Validate() error {
	if r.Confidence <= 0 || r.Confidence >= 1 || math.IsNaN(r.Confidence) {
		return ErrInvalidConfidence
	}
	if r.HorizonDays < 1 || r.HorizonDays > MaxHorizonDays {
		return fmt.Errorf("%w: got %d", ErrInvalidHorizon, r.HorizonDays)
	}
	method, err := ParseMethod(string(r.Method))
	if err != nil {
		return err
	}
	if r.Simulations > MaxSimulations || (r.Simulations <= 0 && (method == MethodMonteCarlo || method == MethodAll)) {
		return fmt.Errorf("%w: got %d", ErrInvalidSims, r.Simulations)
	}
	if r.PortfolioValue < 0 || math.IsNaN(r.PortfolioValue) {
		return ErrInvalidValue
	}
	return nil
}

// Estimate is one model's result. Amount fields are set when a portfolio value was given.
type Estimate struct {
	Method            Method   `json:"method"`
	Confidence        float64  `json:"confidence"`
	HorizonDays       int      `json:"horizonDays"`
	VaR               float64  `json:"var"`
	ExpectedShortfall float64  `json:"expectedShortfall"`
	Observations      int      `json:"observations"`
	Simulations       int      `json:"simulations,omitempty"`
	VaRAmount         *float64 `json:"varAmount,omitempty"`
	ESAmount          *float64 `json:"expectedShortfallAmount,omitempty"`
}

// Engine runs VaR models and records each run.
type Engine struct {
	metrics *metrics.Recorder
}

// NewEngine builds an Engine. recorder may be nil.
func NewEngine(recorder *metrics.Recorder) *Engine {
	return &Engine{metrics: recorder}
}

// Compute runs the requested method, or every method for MethodAll, against returns.
// Monte Carlo runs stop early when ctx is done.
func (e *Engine) Compute(ctx context.Context, returns []float64, req Request) ([]Estimate, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if len(returns) < 2 {
		return nil, ErrInsufficientData
	}
	method, _ := ParseMethod(string(req.Method))
	methods := []Method{method}
	if method == MethodAll {
		methods = []Method{MethodHistorical, MethodParametric, MethodMonteCarlo}
	}

	out := make([]Estimate, 0, len(methods))
	for _, m := range methods {
		start := time.Now()
		est, err := e.run(ctx, m, returns, req)
		e.metrics.RecordVaR(string(m), time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("%s var: %w", m, err)
		}
		out = append(out, est)
	}
	return out, nil
}

func (e *Engine) run(ctx context.Context, m Method, returns []float64, req Request) (Estimate, error) {
	est := Estimate{Method: m, Confidence: req.Confidence, HorizonDays: req.HorizonDays, Observations: len(returns)}
	var err error
	switch m {
	case MethodHistorical:
		if est.VaR, err = HistoricalVaR(returns, req.Confidence, req.HorizonDays); err != nil {
			return est, err
		}
		est.ExpectedShortfall, err = HistoricalES(returns, req.Confidence, req.HorizonDays)
	case MethodParametric:
		if est.VaR, err = ParametricVaR(returns, req.Confidence, req.HorizonDays); err != nil {
			return est, err
		}
		est.ExpectedShortfall, err = ParametricES(returns, req.Confidence, req.HorizonDays)
	case MethodMonteCarlo:
		est.Simulations = req.Simulations
		est.VaR, est.ExpectedShortfall, err = MonteCarloVaR(ctx, returns, req.Confidence, req.HorizonDays, req.Simulations, rand.New(rand.NewSource(req.Seed)))
	default:
		err = ErrInvalidMethod
	}
	if err != nil {
		return est, err
	}
	if req.PortfolioValue > 0 {
		v := est.VaR * req.PortfolioValue
		es := est.ExpectedShortfall * req.PortfolioValue
		est.VaRAmount, est.ESAmount = &v, &es
	}
	return est, nil
}
