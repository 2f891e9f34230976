package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nibzard/tasknest/internal/todo"
)

// exportCommand writes every task as JSON or YAML.
func exportCommand(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("export", a.streams)
	format := fs.String("format", "", "Output format (json|yaml); defaults to the -o extension, then json")
	out := fs.String("o", "", "Write to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	f := strings.ToLower(*format)
	if f == "" {
		f = formatFromPath(*out)
	}

	tasks, err := a.tasks.LoadAll(ctx)
	if err != nil {
		return err
	}
	data, err := encodeExport(tasks, f)
	if err != nil {
		return err
	}

	if *out == "" {
		_, err := a.out.Write(data)
		return err
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Fprintf(a.err, "Exported %d tasks to %s\n", len(tasks), *out)
	return nil
}

// importCommand replaces the task list with the contents of an export file.
func importCommand(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("import", a.streams)
	format := fs.String("format", "", "Input format (json|yaml); defaults to the file extension")
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return errors.New("usage: tasknest import <file>")
	}
	path := positional[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read import: %w", err)
	}
	f := strings.ToLower(*format)
	if f == "" {
		f = formatFromPath(path)
	}
	tasks, err := decodeExport(data, f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if err := a.tasks.SaveAll(ctx, tasks); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Imported %d tasks\n", len(tasks))
	return nil
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

func encodeExport(tasks []todo.Task, format string) ([]byte, error) {
	if tasks == nil {
		tasks = []todo.Task{}
	}
	switch format {
	case "json":
		data, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "yaml", "yml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown format %q, must be json or yaml", format)
	}
}

func decodeExport(data []byte, format string) ([]todo.Task, error) {
	var tasks []todo.Task
	switch format {
	case "json":
		if err := json.Unmarshal(data, &tasks); err != nil {
			return nil, err
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &tasks); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown format %q, must be json or yaml", format)
	}
	return tasks, nil
}
