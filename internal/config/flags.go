package config

import "flag"

// flagFields maps global flag names to config field names.
var flagFields = map[string]string{
	"backend":        "backend",
	"data":           "data_file",
	"db":             "db_path",
	"on-corrupt":     "on_corrupt",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
	"otlp-endpoint":  "otlp_endpoint",
}

// parseFlags defines the global flags on fs, parses args and records every
// flag that was set explicitly.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("tasknest", flag.ContinueOnError)
	}

	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "Storage backend (file|sqlite|memory)")
	fs.StringVar(&cfg.DataFile, "data", cfg.DataFile, "Path to the JSON data file (file backend)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the SQLite database (sqlite backend)")
	fs.StringVar(&cfg.OnCorrupt, "on-corrupt", cfg.OnCorrupt, "What to do with unreadable task data (fail|reset)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in log output")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Include caller location in log output")
	fs.StringVar(&cfg.OTLPEndpoint, "otlp-endpoint", cfg.OTLPEndpoint, "Export traces to this OTLP/HTTP collector URL")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if field, ok := flagFields[f.Name]; ok {
			sources[field] = SourceFlag
		}
	})
	return nil
}
