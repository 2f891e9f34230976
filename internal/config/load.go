package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.tasknest/tasknest.toml or OS-specific config dir)
// 3. Project config file (tasknest.toml or .tasknest.toml in current directory)
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := LoadWithSources(fs, args)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	cfg := &Config{}
	setDefaults(cfg)
	sources := make(map[string]ConfigSource)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}
	var files []string

	if path := findUserConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
		files = append(files, path)
	}

	if path := findProjectConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", path, err)
		}
		files = append(files, path)
	}

	if err := loadFromEnv(cfg, sources); err != nil {
		return nil, err
	}

	if err := parseFlags(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return &ConfigWithSources{Config: cfg, Sources: sources, Files: files}, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.Backend = DefaultBackend
	cfg.DataFile = DefaultDataFile
	cfg.DBPath = DefaultDBPath
	cfg.OnCorrupt = DefaultOnCorrupt
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
	cfg.LogCaller = false
}

// loadConfigFile decodes a TOML file over cfg. Only keys present in the file
// change cfg, and each of them is recorded under source.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	for _, field := range configFields() {
		if md.IsDefined(field) {
			sources[field] = source
		}
	}
	return nil
}

// finalizeConfig normalizes and validates values and computes derived ones.
func finalizeConfig(cfg *Config) error {
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	cfg.OnCorrupt = strings.ToLower(strings.TrimSpace(cfg.OnCorrupt))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	switch cfg.Backend {
	case "", "file", "sqlite", "sqlite3", "memory", "mem":
	default:
		return fmt.Errorf("backend: unknown backend %q, must be one of: file, sqlite, memory", cfg.Backend)
	}
	switch cfg.OnCorrupt {
	case "", "fail", "reset":
	default:
		return fmt.Errorf("on_corrupt: unknown policy %q, must be fail or reset", cfg.OnCorrupt)
	}
	switch cfg.LogFormat {
	case "", "text", "json", "logfmt":
	default:
		return fmt.Errorf("log_format: unknown format %q, must be one of: text, json, logfmt", cfg.LogFormat)
	}

	if cfg.ProjectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.ProjectRoot = wd
	}

	cfg.DataFile = absPath(cfg.ProjectRoot, expandPath(cfg.DataFile))
	cfg.DBPath = absPath(cfg.ProjectRoot, expandPath(cfg.DBPath))
	return nil
}

func absPath(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
