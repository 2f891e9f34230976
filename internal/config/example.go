package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# TaskNest configuration file
# Values can be overridden by TASKNEST_* environment variables or CLI flags

# Storage backend: file, sqlite or memory
backend = "file"

# JSON data file used by the file backend (supports ~ expansion)
data_file = "~/.tasknest/store.json"

# SQLite database used by the sqlite backend
db_path = "~/.tasknest/tasknest.db"

# Unreadable task data: "fail" reports an error, "reset" starts from an empty list
on_corrupt = "fail"

# Logging
log_level = "info"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = false
log_caller = false

# Export store traces to an OTLP/HTTP collector (empty disables)
# otlp_endpoint = "http://localhost:4318"
`
}
