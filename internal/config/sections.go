package config

import "time"

// ServerConfig controls the REST listener.
type ServerConfig struct {
	Port        string   `yaml:"port" env:"PORT"`
	AdminToken  string   `yaml:"adminToken" env:"ADMIN_TOKEN"`
	CORSOrigins []string `yaml:"corsOrigins" env:"CORS_ORIGINS" envSeparator:","`
}

// OddsAPIConfig controls how we talk to the-odds-api.
type OddsAPIConfig struct {
	Provider    string        `yaml:"provider" env:"ODDS_PROVIDER"`
	BaseURL     string        `yaml:"baseUrl" env:"ODDS_API_BASE_URL"`
	APIKey      string        `yaml:"apiKey" env:"ODDS_API_KEY"`
	OddsFormat  string        `yaml:"oddsFormat" env:"ODDS_FORMAT"`
	DateFormat  string        `yaml:"dateFormat" env:"ODDS_DATE_FORMAT"`
	MinInterval time.Duration `yaml:"minInterval" env:"ODDS_MIN_INTERVAL"`
	// QuotaFloor stops backfills once remaining requests drop to this value.
	QuotaFloor      int `yaml:"quotaFloor" env:"ODDS_QUOTA_FLOOR"`
	MaxErrors       int `yaml:"maxErrors" env:"ODDS_MAX_ERRORS"`
	SnapshotHourUTC int `yaml:"snapshotHourUtc" env:"ODDS_SNAPSHOT_HOUR_UTC"`
}

// NBAConfig controls the NBA statistics provider.
type NBAConfig struct {
	Provider    string        `yaml:"provider" env:"NBA_PROVIDER"`
	BaseURL     string        `yaml:"baseUrl" env:"BALLDONTLIE_BASE_URL"`
	APIKey      string        `yaml:"apiKey" env:"BALLDONTLIE_API_KEY"`
	MaxPages    int           `yaml:"maxPages" env:"BALLDONTLIE_MAX_PAGES"`
	MinInterval time.Duration `yaml:"minInterval" env:"NBA_MIN_INTERVAL"`
	Concurrency int           `yaml:"concurrency" env:"NBA_CONCURRENCY"`
}

// PricesConfig controls the daily price provider.
type PricesConfig struct {
	Provider     string `yaml:"provider" env:"PRICES_PROVIDER"`
	BaseURL      string `yaml:"baseUrl" env:"STOOQ_BASE_URL"`
	LookbackDays int    `yaml:"lookbackDays" env:"PRICES_LOOKBACK_DAYS"`
}

// CacheConfig selects the response cache backend.
type CacheConfig struct {
	Backend  string        `yaml:"backend" env:"CACHE_BACKEND"`
	RedisURL string        `yaml:"redisUrl" env:"REDIS_URL"`
	TTL      time.Duration `yaml:"ttl" env:"CACHE_TTL"`
}

// ArchiveConfig controls where raw and transformed data files land.
type ArchiveConfig struct {
	Dir           string `yaml:"dir" env:"ARCHIVE_DIR"`
	RetentionDays int    `yaml:"retentionDays" env:"ARCHIVE_RETENTION_DAYS"`
}

// PostgresConfig configures the optional line store.
type PostgresConfig struct {
	DSN string `yaml:"dsn" env:"POSTGRES_DSN"`
}

// PollerConfig controls the background roster/quota refresh.
type PollerConfig struct {
	Interval time.Duration `yaml:"interval" env:"POLL_INTERVAL"`
}

// MetricsConfig controls telemetry export settings.
type MetricsConfig struct {
	Enabled      bool   `yaml:"enabled" env:"METRICS_ENABLED"`
	Port         string `yaml:"port" env:"METRICS_PORT"`
	OtlpEndpoint string `yaml:"otlpEndpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `yaml:"serviceName" env:"OTEL_SERVICE_NAME"`
	OtlpInsecure bool   `yaml:"otlpInsecure" env:"OTEL_EXPORTER_OTLP_INSECURE"`
}

// RiskConfig holds VaR defaults applied when a request omits them.
type RiskConfig struct {
	Confidence  float64 `yaml:"confidence" env:"VAR_CONFIDENCE"`
	HorizonDays int     `yaml:"horizonDays" env:"VAR_HORIZON_DAYS"`
	Simulations int     `yaml:"simulations" env:"VAR_SIMULATIONS"`
	Seed        int64   `yaml:"seed" env:"VAR_SEED"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
	File   string `yaml:"file" env:"LOG_FILE"`
}
