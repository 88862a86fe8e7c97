package quant

import "errors"

var (
	ErrInsufficientData  = errors.New("at least two returns are required")
	ErrInvalidConfidence = errors.New("confidence must be between 0 and 1 exclusive")
	ErrInvalidHorizon    = errors.New("horizon must be between 1 and 252 days")
	ErrInvalidMethod     = errors.New("method must be historical, parametric, montecarlo, or all")
	ErrInvalidSims       = errors.New("simulations must be between 1 and 1000000")
	ErrInvalidValue      = errors.New("portfolio value must not be negative")
	ErrInvalidPrice      = errors.New("prices must be positive and finite")
)
