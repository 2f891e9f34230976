// Package cmd implements the CLI command structure for tasknest.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasknest/internal/config"
	"github.com/nibzard/tasknest/internal/kv"
	"github.com/nibzard/tasknest/internal/logging"
	"github.com/nibzard/tasknest/internal/settings"
	"github.com/nibzard/tasknest/internal/telemetry"
	"github.com/nibzard/tasknest/internal/todo"
)

// Version is set via ldflags at build time.
var Version = "dev"

// streams are the standard streams a command reads and writes.
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// Run executes the tasknest CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, streams{in: os.Stdin, out: os.Stdout, err: os.Stderr})
}

func run(ctx context.Context, args []string, s streams) error {
	fs := flag.NewFlagSet("tasknest", flag.ContinueOnError)
	fs.SetOutput(s.err)
	fs.Usage = func() {
		printUsage(fs, s.err)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, s.out)
		return nil
	}
	if *showVersion {
		return versionCommand(s)
	}

	subcommand := "ls"
	remaining := fs.Args()
	if len(remaining) > 0 {
		subcommand = remaining[0]
		remaining = remaining[1:]
	}

	switch subcommand {
	case "version":
		return versionCommand(s)
	case "help":
		printUsage(fs, s.out)
		return nil
	case "doctor":
		return doctorCommand(ctx, cws, remaining, s)
	}

	handler, ok := commands[subcommand]
	if !ok {
		fmt.Fprintf(s.err, "Unknown command: %s\n", subcommand)
		printUsage(fs, s.err)
		return fmt.Errorf("unknown command: %s", subcommand)
	}

	a, err := openApp(ctx, cws.Config, s)
	if err != nil {
		return err
	}
	defer a.close()
	return handler(ctx, a, remaining)
}

// commands maps subcommand names to handlers that need an open store.
var commands = map[string]func(context.Context, *app, []string) error{
	"add":      addCommand,
	"ls":       lsCommand,
	"list":     lsCommand,
	"done":     doneCommand,
	"toggle":   doneCommand,
	"edit":     editCommand,
	"progress": progressCommand,
	"clear":    clearCommand,
	"settings": settingsCommand,
	"export":   exportCommand,
	"import":   importCommand,
	"tui":      tuiCommand,
}

// app bundles what every store-backed command needs.
type app struct {
	cfg      *config.Config
	logger   *log.Logger
	backend  kv.Backend
	shutdown telemetry.ShutdownFunc
	tasks    *todo.Store
	settings *settings.Store
	streams
}

func openApp(ctx context.Context, cfg *config.Config, s streams) (*app, error) {
	logger, err := newLogger(cfg, s.err)
	if err != nil {
		return nil, err
	}
	policy, err := todo.ParseCorruptPolicy(cfg.OnCorrupt)
	if err != nil {
		return nil, err
	}
	shutdown, err := telemetry.Setup(ctx, telemetry.Options{
		Endpoint:       cfg.OTLPEndpoint,
		ServiceName:    "tasknest",
		ServiceVersion: Version,
	})
	if err != nil {
		return nil, err
	}
	backend, err := openBackend(cfg)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}
	logger.Debug("opened store", "backend", cfg.Backend, "path", cfg.StoragePath())

	return &app{
		cfg:      cfg,
		logger:   logger,
		backend:  backend,
		shutdown: shutdown,
		tasks: todo.NewStore(backend,
			todo.WithLogger(logger),
			todo.WithCorruptPolicy(policy),
		),
		settings: settings.NewStore(backend),
		streams:  s,
	}, nil
}

func (a *app) close() {
	if err := a.backend.Close(); err != nil {
		a.logger.Warn("close backend", "err", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.shutdown(ctx); err != nil {
		a.logger.Warn("flush traces", "err", err)
	}
}

func newLogger(cfg *config.Config, w io.Writer) (*log.Logger, error) {
	opts := logging.DefaultOptions()
	opts.Level = cfg.LogLevel
	opts.Format = cfg.LogFormat
	opts.Timestamps = cfg.LogTimestamps
	opts.Caller = cfg.LogCaller
	logger, err := logging.New(w, opts)
	if err != nil {
		return nil, fmt.Errorf("configuring logger: %w", err)
	}
	return logger, nil
}

func openBackend(cfg *config.Config) (kv.Backend, error) {
	kind, err := kv.ParseKind(cfg.Backend)
	if err != nil {
		return nil, err
	}
	backend, err := kv.Open(kv.Options{Kind: kind, Path: cfg.StoragePath()})
	if err != nil {
		return nil, fmt.Errorf("opening %s backend: %w", kind, err)
	}
	return backend, nil
}

// parseInterspersed parses flags that may appear before, between or after
// positional arguments and returns the positional ones in order.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		// A "--" terminator makes everything after it positional.
		if n := len(args) - len(rest); n > 0 && args[n-1] == "--" {
			return append(positional, rest...), nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func newFlagSet(name string, s streams) *flag.FlagSet {
	fs := flag.NewFlagSet("tasknest "+name, flag.ContinueOnError)
	fs.SetOutput(s.err)
	return fs
}

func versionCommand(s streams) error {
	fmt.Fprintf(s.out, "tasknest %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "TaskNest - Organize Today, Relax Tomorrow")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasknest [global options] [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add <title>               Create a task (-desc, -priority, -mood, -category)")
	fmt.Fprintln(w, "  ls                        List tasks (default command, -category, -json)")
	fmt.Fprintln(w, "  done <id>                 Toggle a task between open and completed")
	fmt.Fprintln(w, "  edit <id>                 Edit a task (-title, -desc, -due, -priority)")
	fmt.Fprintln(w, "  progress                  Show how many tasks are done")
	fmt.Fprintln(w, "  clear                     Delete all tasks and settings (-yes)")
	fmt.Fprintln(w, "  settings [set <k> <v>]    Show or change preferences")
	fmt.Fprintln(w, "  export                    Write all tasks as JSON or YAML (-format, -o)")
	fmt.Fprintln(w, "  import <file>             Replace all tasks with a JSON or YAML export")
	fmt.Fprintln(w, "  tui                       Open the interactive home screen")
	fmt.Fprintln(w, "  doctor                    Check config and stored data")
	fmt.Fprintln(w, "  version                   Show version information")
	fmt.Fprintln(w, "  help                      Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment: TASKNEST_BACKEND, TASKNEST_DATA_FILE, TASKNEST_DB, TASKNEST_ON_CORRUPT,")
	fmt.Fprintln(w, "  TASKNEST_LOG_LEVEL, TASKNEST_LOG_FORMAT, TASKNEST_LOG_TIMESTAMPS, TASKNEST_LOG_CALLER,")
	fmt.Fprintln(w, "  TASKNEST_OTLP_ENDPOINT")
}

// ErrorMessage formats err for the terminal, adding a hint for errors a user
// can act on.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, todo.ErrCorruptData):
		return err.Error() + "\nhint: run with -on-corrupt reset to start from an empty list, or fix the data file by hand"
	case errors.Is(err, todo.ErrValidation):
		return "invalid input: " + err.Error()
	}
	return err.Error()
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
