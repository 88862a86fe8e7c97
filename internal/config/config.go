package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime configuration for the service and its batch commands.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	OddsAPI  OddsAPIConfig  `yaml:"oddsApi"`
	NBA      NBAConfig      `yaml:"nba"`
	Prices   PricesConfig   `yaml:"prices"`
	Cache    CacheConfig    `yaml:"cache"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Postgres PostgresConfig `yaml:"postgres"`
	Poller   PollerConfig   `yaml:"poller"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Risk     RiskConfig     `yaml:"risk"`
	Log      LogConfig      `yaml:"log"`
}

// Load builds a Config from defaults, an optional YAML file, and environment variables, in that order.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
