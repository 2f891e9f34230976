// Package settings reads and writes user preference scalars.
//
// Each preference lives under its own key on the same kv.Backend as the task
// list, so clearing the store resets them to their defaults.
package settings

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nibzard/tasknest/internal/kv"
)

// Keys.
const (
	KeyTheme         = "theme"
	KeyNotifications = "notifications"
	KeyHaptic        = "haptic"
	KeyAnalytics     = "analytics"
	KeyReminderTime  = "reminderTime"
	KeyFontSize      = "fontSize"
)

// Theme is a color scheme name.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
	ThemeBlue  Theme = "blue"
	ThemeGreen Theme = "green"
)

// FontSizes lists the supported text sizes in pixels.
var FontSizes = []int{14, 16, 18}

// Settings is a snapshot of every preference.
type Settings struct {
	Theme         Theme  `json:"theme" yaml:"theme"`
	Notifications bool   `json:"notifications" yaml:"notifications"`
	Haptic        bool   `json:"haptic" yaml:"haptic"`
	Analytics     bool   `json:"analytics" yaml:"analytics"`
	ReminderTime  string `json:"reminderTime" yaml:"reminderTime"`
	FontSize      int    `json:"fontSize" yaml:"fontSize"`
}

// Defaults returns the preferences of a fresh install.
func Defaults() Settings {
	return Settings{
		Theme:         ThemeDark,
		Notifications: true,
		Haptic:        true,
		Analytics:     false,
		ReminderTime:  "09:00",
		FontSize:      16,
	}
}

// IsDark reports whether the theme renders on a dark background.
func (s Settings) IsDark() bool {
	return s.Theme != ThemeLight
}

// Keys returns every preference key in sorted order.
func Keys() []string {
	keys := []string{KeyTheme, KeyNotifications, KeyHaptic, KeyAnalytics, KeyReminderTime, KeyFontSize}
	sort.Strings(keys)
	return keys
}

// Store reads and writes preferences.
type Store struct {
	backend kv.Backend
}

// NewStore returns a settings store on backend.
func NewStore(backend kv.Backend) *Store {
	return &Store{backend: backend}
}

// Load returns the stored preferences. Missing or unreadable scalars fall back
// to their defaults; only backend failures are returned as errors.
func (s *Store) Load(ctx context.Context) (Settings, error) {
	out := Defaults()
	get := func(key string) (string, bool, error) {
		v, ok, err := s.backend.Get(ctx, key)
		if err != nil {
			return "", false, fmt.Errorf("load setting %s: %w", key, err)
		}
		return v, ok, nil
	}

	if v, ok, err := get(KeyTheme); err != nil {
		return Settings{}, err
	} else if ok {
		if theme, err := parseTheme(v); err == nil {
			out.Theme = theme
		}
	}
	if v, ok, err := get(KeyNotifications); err != nil {
		return Settings{}, err
	} else if ok {
		out.Notifications = v != "false"
	}
	if v, ok, err := get(KeyHaptic); err != nil {
		return Settings{}, err
	} else if ok {
		out.Haptic = v != "false"
	}
	if v, ok, err := get(KeyAnalytics); err != nil {
		return Settings{}, err
	} else if ok {
		out.Analytics = v == "true"
	}
	if v, ok, err := get(KeyReminderTime); err != nil {
		return Settings{}, err
	} else if ok && v != "" {
		if rt, err := parseReminderTime(v); err == nil {
			out.ReminderTime = rt
		}
	}
	if v, ok, err := get(KeyFontSize); err != nil {
		return Settings{}, err
	} else if ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			out.FontSize = n
		}
	}
	return out, nil
}

// Set validates and stores one preference. The value is normalized before it
// is written (e.g. "TRUE" becomes "true", "8:00" becomes "08:00").
func (s *Store) Set(ctx context.Context, key, value string) error {
	normalized, err := Normalize(key, value)
	if err != nil {
		return err
	}
	if err := s.backend.Set(ctx, key, normalized); err != nil {
		return fmt.Errorf("save setting %s: %w", key, err)
	}
	return nil
}

// Normalize checks value for key and returns its stored form.
func Normalize(key, value string) (string, error) {
	value = strings.TrimSpace(value)
	switch key {
	case KeyTheme:
		theme, err := parseTheme(value)
		if err != nil {
			return "", err
		}
		return string(theme), nil
	case KeyNotifications, KeyHaptic, KeyAnalytics:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return "", fmt.Errorf("%s: invalid boolean %q", key, value)
		}
		return strconv.FormatBool(b), nil
	case KeyReminderTime:
		return parseReminderTime(value)
	case KeyFontSize:
		n, err := strconv.Atoi(value)
		if err != nil {
			return "", fmt.Errorf("%s: invalid number %q", key, value)
		}
		for _, size := range FontSizes {
			if n == size {
				return strconv.Itoa(n), nil
			}
		}
		return "", fmt.Errorf("%s: unsupported size %d, must be one of %v", key, n, FontSizes)
	default:
		return "", fmt.Errorf("unknown setting %q, must be one of: %s", key, strings.Join(Keys(), ", "))
	}
}

func parseTheme(s string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case ThemeDark, ThemeLight, ThemeBlue, ThemeGreen:
		return t, nil
	default:
		return "", fmt.Errorf("theme: unknown theme %q, must be one of: dark, light, blue, green", s)
	}
}

func parseReminderTime(s string) (string, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%s: invalid time %q, want HH:MM", KeyReminderTime, s)
	}
	return t.Format("15:04"), nil
}
