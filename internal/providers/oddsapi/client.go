// Package oddsapi is a client for the-odds-api v4.
package oddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/preston-bernstein/better-bets-service/internal/domain/odds"
	"github.com/preston-bernstein/better-bets-service/internal/logging"
	"github.com/preston-bernstein/better-bets-service/internal/metrics"
	"github.com/preston-bernstein/better-bets-service/internal/providers"
)

// Config controls how the client reaches the upstream API.
type Config struct {
	BaseURL    string
	APIKey     string
	OddsFormat string
	DateFormat string
	HTTPClient *http.Client
	Logger     *slog.Logger
	Metrics    *metrics.Recorder
}

// Client fetches sports, scores, and odds and tracks the request quota reported on each response.
type Client struct {
	baseURL    string
	apiKey     string
	oddsFormat string
	dateFormat string
	httpClient httpDoer
	logger     *slog.Logger
	metrics    *metrics.Recorder
	now        func() time.Time

	mu    sync.RWMutex
	quota odds.Quota
}

// NewClient constructs a client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		apiKey:     cfg.APIKey,
		oddsFormat: orDefault(cfg.OddsFormat, defaultOddsFormat),
		dateFormat: orDefault(cfg.DateFormat, defaultDateFormat),
		httpClient: resolveHTTPClient(cfg.HTTPClient),
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
		now:        time.Now,
	}
}

// Sports lists in-season sports, or every sport when all is set. This call does not count against the quota.
func (c *Client) Sports(ctx context.Context, all bool) ([]odds.Sport, error) {
	params := url.Values{}
	params.Set("all", strconv.FormatBool(all))

	var out []odds.Sport
	if err := c.get(ctx, "/v4/sports/", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Scores lists upcoming, live, and recently completed games. daysFrom in 1..3 includes completed games; 0 omits it.
func (c *Client) Scores(ctx context.Context, sport string, daysFrom int) ([]odds.ScoreEvent, error) {
	if sport == "" {
		return nil, odds.ErrSportRequired
	}
	params := url.Values{}
	params.Set("dateFormat", c.dateFormat)
	if daysFrom > 0 {
		params.Set("daysFrom", strconv.Itoa(daysFrom))
	}

	var out []odds.ScoreEvent
	if err := c.get(ctx, "/v4/sports/"+url.PathEscape(sport)+"/scores/", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Odds lists events with bookmaker odds.
func (c *Client) Odds(ctx context.Context, q odds.OddsQuery) ([]odds.Event, error) {
	q = q.WithDefaults(c.oddsFormat, c.dateFormat)
	if err := q.Validate(); err != nil {
		return nil, err
	}

	var out []odds.Event
	if err := c.get(ctx, "/v4/sports/"+url.PathEscape(q.Sport)+"/odds/", c.oddsParams(q), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// HistoricalOdds returns the odds snapshot at or before at.
func (c *Client) HistoricalOdds(ctx context.Context, q odds.OddsQuery, at time.Time) (odds.HistoricalOdds, error) {
	if len(q.Regions) == 0 {
		q.Regions = []string{"us"}
	}
	q = q.WithDefaults(c.oddsFormat, c.dateFormat)
	if err := q.Validate(); err != nil {
		return odds.HistoricalOdds{}, err
	}
	params := c.oddsParams(q)
	params.Set("date", at.UTC().Format(time.RFC3339))

	var out odds.HistoricalOdds
	if err := c.get(ctx, "/v4/historical/sports/"+url.PathEscape(q.Sport)+"/odds/", params, &out); err != nil {
		return odds.HistoricalOdds{}, err
	}
	return out, nil
}

// Quota returns the last observed usage, calling the free sports endpoint when nothing is known yet.
func (c *Client) Quota(ctx context.Context) (odds.Quota, error) {
	if q := c.LastQuota(); q.Known() {
		return q, nil
	}
	if _, err := c.Sports(ctx, false); err != nil {
		return odds.Quota{}, err
	}
	return c.LastQuota(), nil
}

// LastQuota returns the most recent quota without calling upstream.
func (c *Client) LastQuota() odds.Quota {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.quota
}

func (c *Client) oddsParams(q odds.OddsQuery) url.Values {
	params := url.Values{}
	params.Set("regions", strings.Join(q.Regions, ","))
	params.Set("markets", strings.Join(q.Markets, ","))
	params.Set("oddsFormat", q.OddsFormat)
	params.Set("dateFormat", q.DateFormat)
	if len(q.EventIDs) > 0 {
		params.Set("eventIds", strings.Join(q.EventIDs, ","))
	}
	if len(q.Bookmakers) > 0 {
		params.Set("bookmakers", strings.Join(q.Bookmakers, ","))
	}
	return params
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if c.apiKey == "" {
		return fmt.Errorf("%s: api key not configured: %w", providerName, providers.ErrProviderUnavailable)
	}
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	logger := logging.FromContext(ctx, c.logger)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", providerName, err)
	}
	defer resp.Body.Close()

	c.observeQuota(resp.Header)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		err := providers.ErrorFromResponse(providerName, resp, body)
		logging.Error(logger, "odds api request failed", err, slog.String(logging.FieldPath, path), slog.Int(logging.FieldStatusCode, resp.StatusCode))
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode %s: %w", providerName, path, err)
	}
	logging.Info(logger, "odds api request", slog.String(logging.FieldPath, path), slog.Int(logging.FieldRemaining, c.LastQuota().Remaining))
	return nil
}

// observeQuota records usage headers. Missing headers leave the previous value untouched.
func (c *Client) observeQuota(h http.Header) {
	remaining, okRemaining := headerInt(h, headerRemaining)
	if !okRemaining {
		return
	}
	used, _ := headerInt(h, headerUsed)
	last, _ := headerInt(h, headerLast)

	c.mu.Lock()
	c.quota = odds.Quota{Remaining: remaining, Used: used, Last: last, ObservedAt: c.now().UTC()}
	c.mu.Unlock()
	c.metrics.SetQuotaRemaining(remaining)
}

func headerInt(h http.Header, key string) (int, bool) {
	raw := strings.TrimSpace(h.Get(key))
	if raw == "" {
		return 0, false
	}
	// The API occasionally reports fractional usage.
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}
