package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/nibzard/tasknest/internal/config"
	"github.com/nibzard/tasknest/internal/todo"
)

// doctorCommand reports where each config value came from and checks that
// the stored data can be read.
func doctorCommand(ctx context.Context, cws *config.ConfigWithSources, args []string, s streams) error {
	fs := newFlagSet("doctor", s)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	cfg := cws.Config
	w := s.out

	fmt.Fprintln(w, "TaskNest Doctor")
	fmt.Fprintln(w, "===============")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Config files:")
	if len(cws.Files) == 0 {
		fmt.Fprintln(w, "  (none, using defaults)")
	}
	for _, f := range cws.Files {
		fmt.Fprintf(w, "  %s\n", f)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Config:")
	for _, field := range config.Fields() {
		fmt.Fprintf(w, "  %-15s %-28s (%s)\n", field, cfg.Value(field), cws.Sources[field])
	}
	fmt.Fprintln(w)

	allOK := true
	check := func(label string, err error) {
		if err != nil {
			fmt.Fprintf(w, "  ❌ %s: %s\n", label, ErrorMessage(err))
			allOK = false
			return
		}
		fmt.Fprintf(w, "  ✅ %s\n", label)
	}

	fmt.Fprintln(w, "Storage:")
	if path := cfg.StoragePath(); path != "" {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(w, "  ℹ️  %s does not exist yet; it is created on first write\n", path)
		}
	}

	a, err := openApp(ctx, cfg, s)
	check("Open "+cfg.Backend+" backend", err)
	if err != nil {
		return errors.New("doctor found problems")
	}
	defer a.close()

	tasks, err := a.tasks.LoadAll(ctx)
	check(fmt.Sprintf("Load tasks (%d found)", len(tasks)), err)
	if err == nil {
		check("Validate tasks", todo.ValidateTasks(tasks))
	}
	_, err = a.settings.Load(ctx)
	check("Load settings", err)
	fmt.Fprintln(w)

	if !allOK {
		return errors.New("doctor found problems")
	}
	fmt.Fprintln(w, "All checks passed.")
	return nil
}
