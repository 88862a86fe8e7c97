package quant

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestSimpleAndLogReturns(t *testing.T) {
	simple, err := SimpleReturns([]float64{100, 110, 99})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(simple) != 2 || !near(simple[0], 0.1, eps) || !near(simple[1], -0.1, eps) {
		t.Fatalf("unexpected simple returns %v", simple)
	}

	logs, err := LogReturns([]float64{100, 110})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !near(logs[0], math.Log(1.1), eps) {
		t.Fatalf("unexpected log return %v", logs[0])
	}
}

func TestReturnsRejectBadInput(t *testing.T) {
	if _, err := SimpleReturns([]float64{100}); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
	if _, err := LogReturns([]float64{100, 0, 50}); !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice for zero price, got %v", err)
	}
	if _, err := SimpleReturns([]float64{100, -1}); !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice for negative price, got %v", err)
	}
}

func TestMeanAndStdDev(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if Mean(xs) != 5 {
		t.Fatalf("expected mean 5, got %v", Mean(xs))
	}
	if !near(StdDev(xs), math.Sqrt(32.0/7.0), eps) {
		t.Fatalf("unexpected sample stddev %v", StdDev(xs))
	}
	if StdDev([]float64{1}) != 0 || Mean(nil) != 0 {
		t.Fatalf("expected zero for degenerate inputs")
	}
}

func TestNormalQuantile(t *testing.T) {
	cases := []struct{ p, want float64 }{
		{0.5, 0},
		{0.975, 1.959963985},
		{0.05, -1.644853627},
		{0.01, -2.326347874},
	}
	for _, tc := range cases {
		if got := NormalQuantile(tc.p); !near(got, tc.want, 1e-6) {
			t.Fatalf("NormalQuantile(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestQuantileInterpolates(t *testing.T) {
	xs := []float64{3, 1, 2, 4}
	if got := Quantile(xs, 0.5); !near(got, 2.5, eps) {
		t.Fatalf("expected median 2.5, got %v", got)
	}
	if xs[0] != 3 {
		t.Fatalf("input should not be reordered")
	}
	if Quantile(xs, 0) != 1 || Quantile(xs, 1) != 4 {
		t.Fatalf("unexpected bounds")
	}
}
