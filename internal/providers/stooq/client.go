// Package stooq fetches daily price history as CSV from stooq.com.
package stooq

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/preston-bernstein/better-bets-service/internal/domain/prices"
	"github.com/preston-bernstein/better-bets-service/internal/providers"
	"github.com/preston-bernstein/better-bets-service/internal/timeutil"
)

const (
	providerName       = "stooq"
	defaultBaseURL     = "https://stooq.com"
	defaultHTTPTimeout = 15 * time.Second
	defaultMarket      = ".us"
	maxBody            = 8 << 20
)

// Config controls how the client reaches stooq.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client downloads daily bars.
type Client struct {
	baseURL    string
	httpClient httpDoer
}

// NewClient constructs a stooq client.
func NewClient(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	var doer httpDoer = cfg.HTTPClient
	if cfg.HTTPClient == nil {
		doer = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{baseURL: strings.TrimSuffix(base, "/"), httpClient: doer}
}

// FetchDaily downloads bars for symbol and keeps the ones within [from, to], sorted ascending.
// Symbols without a market suffix are treated as US listings.
func (c *Client) FetchDaily(ctx context.Context, symbol string, from, to time.Time) ([]prices.Bar, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, errors.New("symbol is required")
	}
	params := url.Values{}
	params.Set("s", Ticker(symbol))
	params.Set("i", "d")
	if !from.IsZero() {
		params.Set("d1", from.Format("20060102"))
	}
	if !to.IsZero() {
		params.Set("d2", to.Format("20060102"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/q/d/l/?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", providerName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", providerName, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, providers.ErrorFromResponse(providerName, resp, body)
	}

	bars, err := ParseCSV(strings.ToUpper(symbol), body)
	if err != nil {
		return nil, err
	}
	return filterRange(bars, from, to), nil
}

// Ticker maps a user symbol to stooq's lowercase, market-suffixed form.
func Ticker(symbol string) string {
	s := strings.ToLower(strings.TrimSpace(symbol))
	if !strings.Contains(s, ".") {
		s += defaultMarket
	}
	return s
}

// ParseCSV reads "Date,Open,High,Low,Close,Volume[,Adj Close]" rows.
func ParseCSV(symbol string, body []byte) ([]prices.Bar, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || !bytes.Contains(trimmed, []byte(",")) {
		return nil, fmt.Errorf("%s: no data for %s: %w", providerName, symbol, providers.ErrNotFound)
	}

	r := csv.NewReader(bytes.NewReader(trimmed))
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", providerName, err)
	}
	cols := indexColumns(header)
	for _, required := range []string{"date", "open", "high", "low", "close"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", providerName, required)
		}
	}

	var bars []prices.Bar
	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", providerName, line, err)
		}
		bar, err := parseRow(symbol, rec, cols)
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", providerName, line, err)
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%s: no rows for %s: %w", providerName, symbol, providers.ErrNotFound)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	return cols
}

func parseRow(symbol string, rec []string, cols map[string]int) (prices.Bar, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	num := func(name string) (decimal.Decimal, error) {
		raw := field(name)
		if raw == "" {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid %s %q", name, raw)
		}
		return d, nil
	}

	day, err := timeutil.ParseDate(field("date"))
	if err != nil {
		return prices.Bar{}, fmt.Errorf("invalid date %q", field("date"))
	}
	bar := prices.Bar{Symbol: symbol, Date: day}
	if bar.Open, err = num("open"); err != nil {
		return prices.Bar{}, err
	}
	if bar.High, err = num("high"); err != nil {
		return prices.Bar{}, err
	}
	if bar.Low, err = num("low"); err != nil {
		return prices.Bar{}, err
	}
	if bar.Close, err = num("close"); err != nil {
		return prices.Bar{}, err
	}
	if bar.AdjClose, err = num("adj close"); err != nil {
		return prices.Bar{}, err
	}
	if v := field("volume"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return prices.Bar{}, fmt.Errorf("invalid volume %q", v)
		}
		bar.Volume = int64(f)
	}
	if !bar.Close.IsPositive() {
		return prices.Bar{}, fmt.Errorf("non-positive close %s", bar.Close)
	}
	return bar, nil
}

func filterRange(bars []prices.Bar, from, to time.Time) []prices.Bar {
	out := bars[:0]
	for _, b := range bars {
		if !from.IsZero() && b.Date.Before(from) {
			continue
		}
		if !to.IsZero() && b.Date.After(to) {
			continue
		}
		out = append(out, b)
	}
	return out
}
