package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nibzard/tasknest/internal/todo"
)

// addCommand creates a task from the remaining words.
func addCommand(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("add", a.streams)
	desc := fs.String("desc", "", "Task description")
	priority := fs.String("priority", "", "Priority (Low|Medium|High, default Medium)")
	mood := fs.String("mood", "", "Mood emoji (default "+todo.DefaultMood+")")
	category := fs.String("category", "", "Category (Work|Personal|Health|Urgent|Finance|Ideas, default Work)")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}

	draft := todo.Draft{
		Title:       joinArgs(positional),
		Description: *desc,
		Mood:        *mood,
	}
	if *priority != "" {
		p, err := todo.ParsePriority(*priority)
		if err != nil {
			return err
		}
		draft.Priority = p
	}
	if *category != "" {
		c, err := todo.ParseCategory(*category)
		if err != nil {
			return err
		}
		draft.Category = c
	}

	task, err := a.tasks.Create(ctx, draft)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created %s: %s\n", task.ID, task.Title)
	return nil
}

// lsCommand prints the tasks of one category.
func lsCommand(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("ls", a.streams)
	category := fs.String("category", string(todo.CategoryAll), "Category to show (All|Work|Personal|Health|Urgent|Finance|Ideas)")
	asJSON := fs.Bool("json", false, "Print tasks as JSON")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(positional) > 1 {
		return fmt.Errorf("unexpected arguments: %v", positional[1:])
	}
	if len(positional) == 1 {
		*category = positional[0]
	}
	c, err := todo.ParseCategory(*category)
	if err != nil {
		return err
	}

	tasks, err := a.tasks.LoadAll(ctx)
	if err != nil {
		return err
	}
	visible := todo.FilterByCategory(tasks, c)

	if *asJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(visible)
	}

	if len(visible) == 0 {
		fmt.Fprintln(a.out, "No pending tasks found here.")
		return nil
	}
	fmt.Fprintln(a.out, renderTasks(visible))
	fmt.Fprintln(a.out, progressLine(tasks))
	return nil
}

// doneCommand toggles completion of one task.
func doneCommand(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: tasknest done <id>")
	}
	id := args[0]

	found, err := a.tasks.ToggleComplete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no task with id %q", id)
	}

	tasks, err := a.tasks.LoadAll(ctx)
	if err != nil {
		return err
	}
	if task := todo.Get(tasks, id); task != nil {
		state := "Reopened"
		if task.Completed {
			state = "Completed"
		}
		fmt.Fprintf(a.out, "%s %s: %s\n", state, task.ID, task.Title)
	}
	fmt.Fprintln(a.out, progressLine(tasks))
	return nil
}

// editCommand changes the fields given as flags and leaves the rest alone.
func editCommand(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("edit", a.streams)
	title := fs.String("title", "", "New title")
	desc := fs.String("desc", "", "New description")
	due := fs.String("due", "", "Due date (YYYY-MM-DD or RFC 3339)")
	priority := fs.String("priority", "", "New priority (Low|Medium|High)")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return errors.New("usage: tasknest edit <id> [-title T] [-desc D] [-due DATE] [-priority P]")
	}
	id := positional[0]

	var edit todo.Edit
	var visitErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			edit.Title = title
		case "desc":
			edit.Description = desc
		case "due":
			d, err := parseDue(*due)
			if err != nil {
				visitErr = err
				return
			}
			edit.DueDate = &d
		case "priority":
			p, err := todo.ParsePriority(*priority)
			if err != nil {
				visitErr = err
				return
			}
			edit.Priority = &p
		}
	})
	if visitErr != nil {
		return visitErr
	}
	if edit == (todo.Edit{}) {
		return errors.New("nothing to edit: pass at least one of -title, -desc, -due, -priority")
	}

	found, err := a.tasks.Edit(ctx, id, edit)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no task with id %q", id)
	}
	fmt.Fprintf(a.out, "Updated %s\n", id)
	return nil
}

// progressCommand prints the completed share of all tasks.
func progressCommand(ctx context.Context, a *app, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	tasks, err := a.tasks.LoadAll(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, progressLine(tasks))
	return nil
}

// clearCommand wipes the whole store after confirmation.
func clearCommand(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("clear", a.streams)
	yes := fs.Bool("yes", false, "Do not ask for confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*yes {
		fmt.Fprint(a.out, "This deletes every task and resets settings. Type 'yes' to continue: ")
		line, err := bufio.NewReader(a.in).ReadString('\n')
		if err != nil && line == "" {
			return errors.New("clear aborted")
		}
		if strings.ToLower(strings.TrimSpace(line)) != "yes" {
			fmt.Fprintln(a.out, "Aborted.")
			return nil
		}
	}

	if err := a.tasks.ClearAll(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "All data cleared.")
	return nil
}

func parseDue(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid due date %q, want YYYY-MM-DD or RFC 3339", s)
}

func progressLine(tasks []todo.Task) string {
	pct := int(math.Round(todo.ComputeProgress(tasks) * 100))
	return fmt.Sprintf("%d of %d tasks done (%d%%)", todo.CountCompleted(tasks), len(tasks), pct)
}

func renderTasks(tasks []todo.Task) string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		check := " "
		if t.Completed {
			check = "x"
		}
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.Local().Format(time.DateOnly)
		}
		rows = append(rows, []string{t.ID, check, string(t.Priority), string(t.Category), t.Mood, t.Title, due})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "DONE", "PRIORITY", "CATEGORY", "MOOD", "TITLE", "DUE").
		Rows(rows...).
		String()
}
