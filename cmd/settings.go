package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/nibzard/tasknest/internal/settings"
)

// settingsCommand lists preferences, or changes one with "set <key> <value>".
func settingsCommand(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		s, err := a.settings.Load(ctx)
		if err != nil {
			return err
		}
		printSettings(a, s)
		return nil
	}

	switch args[0] {
	case "set":
		if len(args) != 3 {
			return errors.New("usage: tasknest settings set <key> <value>")
		}
		if err := a.settings.Set(ctx, args[1], args[2]); err != nil {
			return err
		}
		a.logger.Debug("setting changed", "key", args[1])
		s, err := a.settings.Load(ctx)
		if err != nil {
			return err
		}
		printSettings(a, s)
		return nil
	case "keys":
		for _, k := range settings.Keys() {
			fmt.Fprintln(a.out, k)
		}
		return nil
	default:
		return fmt.Errorf("unknown settings command %q (want set or keys)", args[0])
	}
}

func printSettings(a *app, s settings.Settings) {
	fmt.Fprintf(a.out, "%-14s %s\n", settings.KeyTheme, s.Theme)
	fmt.Fprintf(a.out, "%-14s %t\n", settings.KeyNotifications, s.Notifications)
	fmt.Fprintf(a.out, "%-14s %t\n", settings.KeyHaptic, s.Haptic)
	fmt.Fprintf(a.out, "%-14s %t\n", settings.KeyAnalytics, s.Analytics)
	fmt.Fprintf(a.out, "%-14s %s\n", settings.KeyReminderTime, s.ReminderTime)
	fmt.Fprintf(a.out, "%-14s %d\n", settings.KeyFontSize, s.FontSize)
}
