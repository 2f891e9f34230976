package todo

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed tasks.schema.json
var schemaJSON string

const schemaURL = "tasks.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add task schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

// SchemaJSON returns the JSON Schema the stored task list must satisfy.
func SchemaJSON() string {
	return schemaJSON
}

// validateTitle trims title and rejects blank values.
func validateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", &ValidationError{
			Path: "title",
			Err:  errors.New("title is required"),
		}
	}
	return trimmed, nil
}

// ValidateTasks checks the invariants every persisted list must hold:
// non-empty unique ids, non-blank titles, known priority and category.
func ValidateTasks(tasks []Task) error {
	seen := make(map[string]int, len(tasks))
	for i := range tasks {
		path := fmt.Sprintf("tasks[%d]", i)
		if err := validateTask(&tasks[i], path); err != nil {
			return err
		}
		if prev, dup := seen[tasks[i].ID]; dup {
			return &ValidationError{
				Path: path + ".id",
				Err:  fmt.Errorf("duplicate id %q (also at tasks[%d])", tasks[i].ID, prev),
			}
		}
		seen[tasks[i].ID] = i
	}
	return nil
}

func validateTask(task *Task, path string) *ValidationError {
	if task.ID == "" {
		return &ValidationError{
			Path: path + ".id",
			Err:  errors.New("missing required field"),
		}
	}

	if strings.TrimSpace(task.Title) == "" {
		return &ValidationError{
			Path: path + ".title",
			Err:  errors.New("title is required"),
		}
	}

	if !task.Priority.Valid() {
		return &ValidationError{
			Path: path + ".priority",
			Err:  fmt.Errorf("invalid priority %q, must be one of: Low, Medium, High", task.Priority),
		}
	}

	if !task.Category.Valid() {
		return &ValidationError{
			Path: path + ".category",
			Err:  fmt.Errorf("invalid category %q", task.Category),
		}
	}

	return nil
}

// decodeTasks parses a stored task list. An empty value or JSON null is an
// empty list. Records missing priority, category or mood get the creation
// defaults. Anything else that is not a valid list wraps ErrCorruptData.
func decodeTasks(raw string) ([]Task, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return []Task{}, nil
	}

	var doc interface{}
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}

	s, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := s.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCorruptData, describeSchemaError(err))
	}

	var tasks []Task
	if err := json.Unmarshal([]byte(trimmed), &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	fillDefaults(tasks)
	if err := ValidateTasks(tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	return tasks, nil
}

func fillDefaults(tasks []Task) {
	for i := range tasks {
		if tasks[i].Priority == "" {
			tasks[i].Priority = PriorityMedium
		}
		if tasks[i].Category == "" {
			tasks[i].Category = CategoryWork
		}
		if strings.TrimSpace(tasks[i].Mood) == "" {
			tasks[i].Mood = DefaultMood
		}
	}
}

// encodeTasks serializes a task list. A nil list encodes as [].
func encodeTasks(tasks []Task) (string, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("marshal tasks: %w", err)
	}
	return string(data), nil
}

func describeSchemaError(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	var msgs []string
	collectSchemaErrors(&msgs, ve)
	if len(msgs) == 0 {
		return ve.Message
	}
	return strings.Join(msgs, "; ")
}

func collectSchemaErrors(msgs *[]string, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		*msgs = append(*msgs, fmt.Sprintf("%s: %s", jsonPointerToPath(err.InstanceLocation), err.Message))
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(msgs, cause)
	}
}

// jsonPointerToPath turns "/2/title" into "tasks[2].title".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")

	path := "tasks"
	if ptr == "" {
		return path
	}
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		path += "." + part
	}
	return path
}
