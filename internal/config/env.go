package config

import (
	"fmt"
	"os"
	"strings"
)

// loadFromEnv overrides config from TASKNEST_* environment variables.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	str := func(name, field string, dst *string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
			sources[field] = SourceEnv
		}
	}
	boolean := func(name, field string, dst *bool) error {
		v := os.Getenv(name)
		if v == "" {
			return nil
		}
		b, ok := boolFromString(v)
		if !ok {
			return fmt.Errorf("%s: invalid boolean %q", name, v)
		}
		*dst = b
		sources[field] = SourceEnv
		return nil
	}

	str("TASKNEST_BACKEND", "backend", &cfg.Backend)
	str("TASKNEST_DATA_FILE", "data_file", &cfg.DataFile)
	str("TASKNEST_DB", "db_path", &cfg.DBPath)
	str("TASKNEST_ON_CORRUPT", "on_corrupt", &cfg.OnCorrupt)
	str("TASKNEST_LOG_LEVEL", "log_level", &cfg.LogLevel)
	str("TASKNEST_LOG_FORMAT", "log_format", &cfg.LogFormat)
	str("TASKNEST_OTLP_ENDPOINT", "otlp_endpoint", &cfg.OTLPEndpoint)
	if err := boolean("TASKNEST_LOG_TIMESTAMPS", "log_timestamps", &cfg.LogTimestamps); err != nil {
		return err
	}
	return boolean("TASKNEST_LOG_CALLER", "log_caller", &cfg.LogCaller)
}

func boolFromString(v string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}
