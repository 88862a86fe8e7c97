package odds

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// DecimalToAmerican converts decimal odds (> 1) to American odds, rounded to the nearest integer.
func DecimalToAmerican(price float64) (int, error) {
	d := decimal.NewFromFloat(price)
	if d.LessThanOrEqual(one) {
		return 0, fmt.Errorf("decimal odds must be greater than 1, got %v", price)
	}
	profit := d.Sub(one)
	if d.GreaterThanOrEqual(decimal.NewFromInt(2)) {
		return int(profit.Mul(hundred).Round(0).IntPart()), nil
	}
	return int(hundred.Neg().Div(profit).Round(0).IntPart()), nil
}

// AmericanToDecimal converts American odds to decimal odds rounded to 4 places.
func AmericanToDecimal(american int) (float64, error) {
	a := decimal.NewFromInt(int64(american))
	switch {
	case american >= 100:
		return a.Div(hundred).Add(one).Round(4).InexactFloat64(), nil
	case american <= -100:
		return hundred.Div(a.Neg()).Add(one).Round(4).InexactFloat64(), nil
	default:
		return 0, fmt.Errorf("american odds must be <= -100 or >= 100, got %d", american)
	}
}

// ImpliedProbability returns 1/price for decimal odds, rounded to 4 places.
func ImpliedProbability(price float64) (float64, error) {
	d := decimal.NewFromFloat(price)
	if d.LessThanOrEqual(one) {
		return 0, fmt.Errorf("decimal odds must be greater than 1, got %v", price)
	}
	return one.Div(d).Round(4).InexactFloat64(), nil
}

// Overround sums implied probabilities across a market's outcomes. Values above 1 are the book's margin.
func Overround(outcomes []Outcome) (float64, error) {
	total := decimal.Zero
	for _, o := range outcomes {
		p, err := ImpliedProbability(o.Price)
		if err != nil {
			return 0, fmt.Errorf("outcome %q: %w", o.Name, err)
		}
		total = total.Add(decimal.NewFromFloat(p))
	}
	return total.Round(4).InexactFloat64(), nil
}

// IsAmerican reports whether outcomes are quoted in American odds. Decimal prices are
// always above 1, so a negative price, or every price at 100 or more, marks American.
func IsAmerican(outcomes []Outcome) bool {
	if len(outcomes) == 0 {
		return false
	}
	all := true
	for _, o := range outcomes {
		if o.Price < 0 {
			return true
		}
		if o.Price < 100 {
			all = false
		}
	}
	return all
}

// ToDecimal returns outcomes with American prices converted to decimal. Decimal input is returned as is.
func ToDecimal(outcomes []Outcome) ([]Outcome, error) {
	if !IsAmerican(outcomes) {
		return outcomes, nil
	}
	out := make([]Outcome, len(outcomes))
	for i, o := range outcomes {
		price, err := AmericanToDecimal(int(o.Price))
		if err != nil {
			return nil, fmt.Errorf("outcome %q: %w", o.Name, err)
		}
		o.Price = price
		out[i] = o
	}
	return out, nil
}
