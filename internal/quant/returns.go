// Package quant computes returns and Value-at-Risk from daily prices.
package quant

import (
	"fmt"
	"math"
)

// SimpleReturns returns p[i]/p[i-1]-1 for each consecutive pair.
func SimpleReturns(prices []float64) ([]float64, error) {
	if err := checkPrices(prices); err != nil {
		return nil, err
	}
	out := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		out[i-1] = prices[i]/prices[i-1] - 1
	}
	return out, nil
}

// LogReturns returns ln(p[i]/p[i-1]) for each consecutive pair.
func LogReturns(prices []float64) ([]float64, error) {
	if err := checkPrices(prices); err != nil {
		return nil, err
	}
	out := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		out[i-1] = math.Log(prices[i] / prices[i-1])
	}
	return out, nil
}

func checkPrices(prices []float64) error {
	if len(prices) < 2 {
		return fmt.Errorf("need at least two prices, got %d: %w", len(prices), ErrInsufficientData)
	}
	for i, p := range prices {
		if p <= 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			return fmt.Errorf("price %d is %v: %w", i, p, ErrInvalidPrice)
		}
	}
	return nil
}
