// Package cli holds the bootstrap shared by the batch commands under cmd/.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/preston-bernstein/better-bets-service/internal/config"
	"github.com/preston-bernstein/better-bets-service/internal/logging"
)

// ConfigFileEnv names the optional YAML config file.
const ConfigFileEnv = "CONFIG_FILE"

// Load reads and validates config, then builds a logger tagged with the command name.
func Load(command, version string) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(os.Getenv(ConfigFileEnv))
	if err != nil {
		return config.Config{}, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, fmt.Errorf("invalid config: %w", err)
	}
	logger := logging.NewLogger(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		File:    cfg.Log.File,
		Service: config.DefaultServiceName,
		Version: version,
	})
	return cfg, logger.With(slog.String("command", command)), nil
}

// SplitList splits a comma-separated flag value, dropping blanks.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// SplitInts parses a comma-separated list of integers.
func SplitInts(raw string) ([]int, error) {
	parts := SplitList(raw)
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", part)
		}
		out = append(out, n)
	}
	return out, nil
}

// WriteJSON prints v indented, the way every command reports its run.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
