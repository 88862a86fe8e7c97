package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate reports the first configuration problem that would prevent startup.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Port) == "" {
		errs = append(errs, errors.New("server port is required"))
	}
	if c.Poller.Interval <= 0 {
		errs = append(errs, errors.New("poll interval must be positive"))
	}
	if c.Risk.Confidence <= 0 || c.Risk.Confidence >= 1 {
		errs = append(errs, fmt.Errorf("var confidence must be in (0,1), got %v", c.Risk.Confidence))
	}
	if c.Risk.HorizonDays < 1 {
		errs = append(errs, fmt.Errorf("var horizon must be at least 1 day, got %d", c.Risk.HorizonDays))
	}
	if c.Risk.Simulations <= 0 {
		errs = append(errs, fmt.Errorf("var simulations must be positive, got %d", c.Risk.Simulations))
	}
	if !oneOf(c.OddsAPI.Provider, ProviderFixture, ProviderOddsAPI) {
		errs = append(errs, fmt.Errorf("unknown odds provider %q", c.OddsAPI.Provider))
	}
	if c.OddsAPI.Provider == ProviderOddsAPI && c.OddsAPI.APIKey == "" {
		errs = append(errs, errors.New("ODDS_API_KEY is required for the oddsapi provider"))
	}
	if !oneOf(c.OddsAPI.OddsFormat, "decimal", "american") {
		errs = append(errs, fmt.Errorf("unknown odds format %q", c.OddsAPI.OddsFormat))
	}
	if !oneOf(c.NBA.Provider, ProviderFixture, ProviderBalldontlie) {
		errs = append(errs, fmt.Errorf("unknown nba provider %q", c.NBA.Provider))
	}
	if !oneOf(c.Prices.Provider, ProviderFixture, ProviderStooq) {
		errs = append(errs, fmt.Errorf("unknown prices provider %q", c.Prices.Provider))
	}
	if !oneOf(c.Cache.Backend, CacheMemory, CacheRedis, CacheNone) {
		errs = append(errs, fmt.Errorf("unknown cache backend %q", c.Cache.Backend))
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisURL == "" {
		errs = append(errs, errors.New("REDIS_URL is required for the redis cache backend"))
	}
	if c.OddsAPI.SnapshotHourUTC < 0 || c.OddsAPI.SnapshotHourUTC > 23 {
		errs = append(errs, fmt.Errorf("snapshot hour must be 0-23, got %d", c.OddsAPI.SnapshotHourUTC))
	}
	return errors.Join(errs...)
}

func oneOf(value string, options ...string) bool {
	for _, opt := range options {
		if strings.EqualFold(value, opt) {
			return true
		}
	}
	return false
}
