// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.tasknest/tasknest.toml or OS-specific config directory)
// 3. Project config file (tasknest.toml or .tasknest.toml in the working directory)
// 4. Environment variables (TASKNEST_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
// Relative data paths are resolved against the working directory.
//
// User-level config locations:
// - ~/.tasknest/tasknest.toml (preferred)
// - Windows: %APPDATA%\tasknest\tasknest.toml
// - macOS: ~/Library/Application Support/tasknest/tasknest.toml
// - Linux/BSD: $XDG_CONFIG_HOME/tasknest/tasknest.toml or ~/.config/tasknest/tasknest.toml
package config
