package cmd

import (
	"context"
	"fmt"

	"github.com/nibzard/tasknest/internal/kv"
	"github.com/nibzard/tasknest/internal/ui"
)

// tuiCommand opens the interactive home screen. With the file backend the
// screen reloads whenever another process rewrites the data file.
func tuiCommand(ctx context.Context, a *app, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}

	prefs, err := a.settings.Load(ctx)
	if err != nil {
		return err
	}
	opts := []ui.HomeOption{
		ui.WithLogger(a.logger),
		ui.WithSettings(prefs),
	}

	if kind, _ := kv.ParseKind(a.cfg.Backend); kind == kv.KindFile {
		w, err := kv.NewWatcher(a.cfg.DataFile, kv.OnWatchError(func(err error) {
			a.logger.Warn("watch data file", "err", err)
		}))
		if err != nil {
			a.logger.Warn("live reload disabled", "err", err)
		} else {
			defer w.Close()
			opts = append(opts, ui.WithChanges(w.Changes()))
		}
	}

	return ui.RunHome(ctx, a.tasks, opts...)
}
