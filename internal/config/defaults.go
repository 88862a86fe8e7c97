package config

import "time"

const (
	DefaultPort        = "5000"
	DefaultOddsBaseURL = "https://api.the-odds-api.com"
	DefaultNBABaseURL  = "https://api.balldontlie.io/v1"
	DefaultStooqURL    = "https://stooq.com"
	DefaultArchiveDir  = "data/archive"
	DefaultServiceName = "better-bets-service"

	ProviderFixture     = "fixture"
	ProviderOddsAPI     = "oddsapi"
	ProviderBalldontlie = "balldontlie"
	ProviderStooq       = "stooq"

	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Default returns the baseline configuration before file and env overrides.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:        DefaultPort,
			CORSOrigins: []string{"http://localhost:3000"},
		},
		OddsAPI: OddsAPIConfig{
			Provider:   ProviderFixture,
			BaseURL:    DefaultOddsBaseURL,
			OddsFormat: "decimal",
			DateFormat: "iso",
			// the-odds-api allows bursts; spacing keeps backfills polite.
			MinInterval:     250 * time.Millisecond,
			QuotaFloor:      400,
			MaxErrors:       5,
			SnapshotHourUTC: 12,
		},
		NBA: NBAConfig{
			Provider: ProviderFixture,
			BaseURL:  DefaultNBABaseURL,
			MaxPages: 10,
			// balldontlie free tier: 5 req/min.
			MinInterval: 12 * time.Second,
			Concurrency: 4,
		},
		Prices: PricesConfig{
			Provider:     ProviderFixture,
			BaseURL:      DefaultStooqURL,
			LookbackDays: 365,
		},
		Cache: CacheConfig{
			Backend: CacheMemory,
			TTL:     60 * time.Second,
		},
		Archive: ArchiveConfig{
			Dir: DefaultArchiveDir,
		},
		Poller: PollerConfig{
			Interval: 10 * time.Minute,
		},
		Metrics: MetricsConfig{
			Enabled:      true,
			Port:         "9090",
			ServiceName:  DefaultServiceName,
			OtlpInsecure: true,
		},
		Risk: RiskConfig{
			Confidence:  0.95,
			HorizonDays: 1,
			Simulations: 10000,
			Seed:        42,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
