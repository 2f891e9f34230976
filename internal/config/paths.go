package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// expandPath expands home directory and environment variables in paths.
// It supports ~/ or ~\ prefixes and %VAR% expansion on Windows.
func expandPath(p string) string {
	if p == "" {
		return p
	}

	expanded := expandEnv(p)
	if expanded == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return home
	}
	if strings.HasPrefix(expanded, "~/") || (runtime.GOOS == "windows" && strings.HasPrefix(expanded, "~\\")) {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, expanded[2:])
	}
	return expanded
}

func expandEnv(p string) string {
	expanded := os.ExpandEnv(p)
	if runtime.GOOS != "windows" || !strings.Contains(expanded, "%") {
		return expanded
	}
	var b strings.Builder
	for i := 0; i < len(expanded); {
		if expanded[i] == '%' {
			if end := strings.IndexByte(expanded[i+1:], '%'); end > 0 {
				key := expanded[i+1 : i+1+end]
				if val, ok := os.LookupEnv(key); ok {
					b.WriteString(val)
					i += end + 2
					continue
				}
			}
		}
		b.WriteByte(expanded[i])
		i++
	}
	return b.String()
}

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	for _, name := range []string{"tasknest.toml", ".tasknest.toml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// findUserConfigFile looks for a user-level config file.
// Checks ~/.tasknest/tasknest.toml first, then falls back to the OS-specific
// config directory.
func findUserConfigFile() string {
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".tasknest", "tasknest.toml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if cfgDir := osUserConfigDir(); cfgDir != "" {
		p := filepath.Join(cfgDir, "tasknest", "tasknest.toml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		return os.Getenv("APPDATA")
	case "darwin":
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}
