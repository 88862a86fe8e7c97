package quant

import (
	"context"
	"math"
	"math/rand"
	"sort"
)

const ctxCheckEvery = 1024

// HistoricalVaR is the empirical lower-tail loss at confidence, scaled by sqrt(horizon).
// Results are positive loss fractions floored at zero.
func HistoricalVaR(returns []float64, confidence float64, horizonDays int) (float64, error) {
	if err := validate(returns, confidence, horizonDays); err != nil {
		return 0, err
	}
	q := Quantile(returns, 1-confidence)
	return loss(q) * math.Sqrt(float64(horizonDays)), nil
}

// HistoricalES is the mean loss beyond the historical VaR cutoff, scaled by sqrt(horizon).
func HistoricalES(returns []float64, confidence float64, horizonDays int) (float64, error) {
	if err := validate(returns, confidence, horizonDays); err != nil {
		return 0, err
	}
	sorted := append([]float64(nil), returns...)
	sort.Float64s(sorted)
	cutoff := quantileSorted(sorted, 1-confidence)
	return loss(tailMean(sorted, cutoff)) * math.Sqrt(float64(horizonDays)), nil
}

// ParametricVaR assumes normally distributed returns: -(mu*h + z*sigma*sqrt(h)) with z at 1-confidence.
func ParametricVaR(returns []float64, confidence float64, horizonDays int) (float64, error) {
	if err := validate(returns, confidence, horizonDays); err != nil {
		return 0, err
	}
	mu, sigma := Mean(returns), StdDev(returns)
	h := float64(horizonDays)
	z := NormalQuantile(1 - confidence)
	return loss(mu*h + z*sigma*math.Sqrt(h)), nil
}

// ParametricES is the normal expected shortfall: sigma*sqrt(h)*phi(z)/(1-c) - mu*h.
func ParametricES(returns []float64, confidence float64, horizonDays int) (float64, error) {
	if err := validate(returns, confidence, horizonDays); err != nil {
		return 0, err
	}
	mu, sigma := Mean(returns), StdDev(returns)
	h := float64(horizonDays)
	z := NormalQuantile(1 - confidence)
	es := sigma*math.Sqrt(h)*normalPDF(z)/(1-confidence) - mu*h
	return math.Max(0, es), nil
}

// MonteCarloVaR simulates horizon-day compounded returns from N(mu, sigma) daily draws
// and returns the VaR and expected shortfall of the simulated distribution.
// ctx is checked every ctxCheckEvery paths.
func MonteCarloVaR(ctx context.Context, returns []float64, confidence float64, horizonDays, sims int, rng *rand.Rand) (float64, float64, error) {
	if err := validate(returns, confidence, horizonDays); err != nil {
		return 0, 0, err
	}
	if sims <= 0 || sims > MaxSimulations {
		return 0, 0, ErrInvalidSims
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	mu, sigma := Mean(returns), StdDev(returns)

	outcomes := make([]float64, sims)
	for i := range outcomes {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return 0, 0, err
			}
		}
		growth := 1.0
		for d := 0; d < horizonDays; d++ {
			growth *= 1 + mu + sigma*rng.NormFloat64()
		}
		outcomes[i] = growth - 1
	}
	sort.Float64s(outcomes)
	cutoff := quantileSorted(outcomes, 1-confidence)
	return loss(cutoff), loss(tailMean(outcomes, cutoff)), nil
}

func validate(returns []float64, confidence float64, horizonDays int) error {
	if confidence <= 0 || confidence >= 1 || math.IsNaN(confidence) {
		return ErrInvalidConfidence
	}
	if horizonDays < 1 || horizonDays > MaxHorizonDays {
		return ErrInvalidHorizon
	}
	if len(returns) < 2 {
		return ErrInsufficientData
	}
	return nil
}

func loss(q float64) float64 {
	return math.Max(0, -q)
}
