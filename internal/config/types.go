package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, in load order.
	Files []string
}

// Default values.
const (
	DefaultBackend   = "file"
	DefaultDataFile  = "~/.tasknest/store.json"
	DefaultDBPath    = "~/.tasknest/tasknest.db"
	DefaultOnCorrupt = "fail"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for tasknest.
type Config struct {
	// Storage
	Backend   string `toml:"backend"`
	DataFile  string `toml:"data_file"`
	DBPath    string `toml:"db_path"`
	OnCorrupt string `toml:"on_corrupt"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Tracing; empty disables span export
	OTLPEndpoint string `toml:"otlp_endpoint"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// StoragePath returns the path the selected backend reads and writes.
func (c *Config) StoragePath() string {
	switch c.Backend {
	case "sqlite", "sqlite3":
		return c.DBPath
	case "memory", "mem":
		return ""
	default:
		return c.DataFile
	}
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"backend",
		"data_file",
		"db_path",
		"on_corrupt",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"otlp_endpoint",
	}
}

// Fields returns the configurable field names in display order.
func Fields() []string {
	return configFields()
}

// Value returns the string form of a configurable field.
func (c *Config) Value(field string) string {
	switch field {
	case "backend":
		return c.Backend
	case "data_file":
		return c.DataFile
	case "db_path":
		return c.DBPath
	case "on_corrupt":
		return c.OnCorrupt
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return boolString(c.LogTimestamps)
	case "log_caller":
		return boolString(c.LogCaller)
	case "otlp_endpoint":
		return c.OTLPEndpoint
	}
	return ""
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
