// Package prices holds daily price bars used for returns and risk.
package prices

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Bar is one trading day for a symbol.
type Bar struct {
	Symbol   string          `json:"symbol"`
	Date     time.Time       `json:"date"`
	Open     decimal.Decimal `json:"open"`
	High     decimal.Decimal `json:"high"`
	Low      decimal.Decimal `json:"low"`
	Close    decimal.Decimal `json:"close"`
	AdjClose decimal.Decimal `json:"adjClose"`
	Volume   int64           `json:"volume"`
}

// Adjusted returns AdjClose when present, otherwise Close.
func (b Bar) Adjusted() decimal.Decimal {
	if b.AdjClose.IsZero() {
		return b.Close
	}
	return b.AdjClose
}

// Series is a symbol's bars.
type Series struct {
	Symbol string `json:"symbol"`
	Count  int    `json:"count"`
	Bars   []Bar  `json:"bars"`
}

// NewSeries sorts bars ascending by date and drops duplicate dates, keeping the last seen.
func NewSeries(symbol string, bars []Bar) Series {
	byDate := make(map[time.Time]Bar, len(bars))
	for _, b := range bars {
		byDate[b.Date] = b
	}
	out := make([]Bar, 0, len(byDate))
	for _, b := range byDate {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return Series{Symbol: symbol, Count: len(out), Bars: out}
}

// Closes returns adjusted closes in date order.
func (s Series) Closes() []float64 {
	bars := append([]Bar(nil), s.Bars...)
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Adjusted().InexactFloat64()
	}
	return out
}

// Between keeps bars with from <= Date <= to. Zero bounds are open.
func (s Series) Between(from, to time.Time) Series {
	kept := make([]Bar, 0, len(s.Bars))
	for _, b := range s.Bars {
		if !from.IsZero() && b.Date.Before(from) {
			continue
		}
		if !to.IsZero() && b.Date.After(to) {
			continue
		}
		kept = append(kept, b)
	}
	return Series{Symbol: s.Symbol, Count: len(kept), Bars: kept}
}
