package todo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nibzard/tasknest/internal/kv"
)

const tracerName = "github.com/nibzard/tasknest/internal/todo"

// maxIDAttempts bounds id regeneration when a generated id is already taken.
const maxIDAttempts = 8

// CorruptPolicy decides what LoadAll does with an undecodable stored value.
type CorruptPolicy string

const (
	// CorruptFail surfaces ErrCorruptData.
	CorruptFail CorruptPolicy = "fail"
	// CorruptReset treats the value as an empty list.
	CorruptReset CorruptPolicy = "reset"
)

// ParseCorruptPolicy normalizes a policy name. Empty means CorruptFail.
func ParseCorruptPolicy(s string) (CorruptPolicy, error) {
	switch CorruptPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case CorruptFail, "":
		return CorruptFail, nil
	case CorruptReset:
		return CorruptReset, nil
	default:
		return "", fmt.Errorf("invalid corrupt-data policy %q, must be fail or reset", s)
	}
}

// Store is the single source of truth for the task list.
type Store struct {
	backend kv.Backend
	logger  *log.Logger
	tracer  trace.Tracer
	now     func() time.Time
	newID   func() (string, error)
	policy  CorruptPolicy
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used for createdAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides task id generation.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithCorruptPolicy selects how LoadAll handles corrupt data.
func WithCorruptPolicy(p CorruptPolicy) Option {
	return func(s *Store) {
		if p != "" {
			s.policy = p
		}
	}
}

// WithTracerProvider sets the provider the store's spans are created from.
// The global provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Store) {
		if tp != nil {
			s.tracer = tp.Tracer(tracerName)
		}
	}
}

// NewStore returns a store persisting to backend.
func NewStore(backend kv.Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		logger:  log.New(io.Discard),
		tracer:  otel.Tracer(tracerName),
		now:     time.Now,
		newID:   newTimeOrderedID,
		policy:  CorruptFail,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newTimeOrderedID returns a UUIDv7: ids sort by creation time and stay
// unique within the same millisecond.
func newTimeOrderedID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// LoadAll returns the stored task list. An absent key is an empty list.
func (s *Store) LoadAll(ctx context.Context) ([]Task, error) {
	ctx, span := s.tracer.Start(ctx, "todo.LoadAll")
	defer span.End()

	tasks, err := s.loadAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("tasks.count", len(tasks)))
	return tasks, nil
}

func (s *Store) loadAll(ctx context.Context) ([]Task, error) {
	raw, ok, err := s.backend.Get(ctx, TasksKey)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Key: TasksKey, Err: err}
	}
	if !ok {
		s.logger.Debug("no stored tasks", "key", TasksKey)
		return []Task{}, nil
	}

	tasks, err := decodeTasks(raw)
	if err != nil {
		if errors.Is(err, ErrCorruptData) && s.policy == CorruptReset {
			s.logger.Warn("discarding corrupt task data", "key", TasksKey, "err", err)
			return []Task{}, nil
		}
		return nil, err
	}
	s.logger.Debug("loaded tasks", "count", len(tasks))
	return tasks, nil
}

// SaveAll replaces the stored list with tasks. The list is validated first;
// an invalid list is rejected with a *ValidationError and nothing is written.
func (s *Store) SaveAll(ctx context.Context, tasks []Task) error {
	ctx, span := s.tracer.Start(ctx, "todo.SaveAll")
	defer span.End()
	span.SetAttributes(attribute.Int("tasks.count", len(tasks)))

	if err := s.saveAll(ctx, tasks); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (s *Store) saveAll(ctx context.Context, tasks []Task) error {
	if err := ValidateTasks(tasks); err != nil {
		return err
	}
	raw, err := encodeTasks(tasks)
	if err != nil {
		return err
	}
	if err := s.backend.Set(ctx, TasksKey, raw); err != nil {
		return &PersistenceError{Op: "save", Key: TasksKey, Err: err}
	}
	s.logger.Debug("saved tasks", "count", len(tasks))
	return nil
}

// Create validates d, appends a new task built from it and persists the list.
// A blank title returns a *ValidationError and leaves storage untouched.
func (s *Store) Create(ctx context.Context, d Draft) (Task, error) {
	title, err := validateTitle(d.Title)
	if err != nil {
		return Task{}, err
	}
	priority := d.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.Valid() {
		return Task{}, &ValidationError{Path: "priority", Err: fmt.Errorf("invalid priority %q", d.Priority)}
	}
	category := d.Category
	if category == "" {
		category = CategoryWork
	}
	if !category.Valid() {
		return Task{}, &ValidationError{Path: "category", Err: fmt.Errorf("invalid category %q", d.Category)}
	}
	mood := strings.TrimSpace(d.Mood)
	if mood == "" {
		mood = DefaultMood
	}

	tasks, err := s.LoadAll(ctx)
	if err != nil {
		return Task{}, err
	}

	id, err := s.uniqueID(tasks)
	if err != nil {
		return Task{}, err
	}

	task := Task{
		ID:          id,
		Title:       title,
		Description: d.Description,
		Priority:    priority,
		Mood:        mood,
		Category:    category,
		Completed:   false,
		CreatedAt:   s.now().UTC().Truncate(time.Millisecond),
	}
	tasks = append(tasks, task)

	if err := s.SaveAll(ctx, tasks); err != nil {
		return Task{}, err
	}
	s.logger.Info("task created", "id", task.ID, "category", task.Category, "priority", task.Priority)
	return task, nil
}

func (s *Store) uniqueID(tasks []Task) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := s.newID()
		if err != nil {
			return "", fmt.Errorf("generate task id: %w", err)
		}
		if id != "" && Get(tasks, id) == nil {
			return id, nil
		}
	}
	return "", fmt.Errorf("generate task id: no unique id after %d attempts", maxIDAttempts)
}

// ToggleComplete flips the completed flag of the task with id. found is false
// (and nothing is written) when no task has that id.
func (s *Store) ToggleComplete(ctx context.Context, id string) (found bool, err error) {
	tasks, err := s.LoadAll(ctx)
	if err != nil {
		return false, err
	}
	task := Get(tasks, id)
	if task == nil {
		s.logger.Debug("toggle skipped, no such task", "id", id)
		return false, nil
	}
	task.Completed = !task.Completed

	if err := s.SaveAll(ctx, tasks); err != nil {
		return true, err
	}
	s.logger.Info("task toggled", "id", id, "completed", task.Completed)
	return true, nil
}

// Edit merges e into the task with id. found is false (and nothing is
// written) when no task has that id. Invalid fields return a
// *ValidationError before anything is loaded.
func (s *Store) Edit(ctx context.Context, id string, e Edit) (found bool, err error) {
	var title string
	if e.Title != nil {
		title, err = validateTitle(*e.Title)
		if err != nil {
			return false, err
		}
	}
	if e.Priority != nil && !e.Priority.Valid() {
		return false, &ValidationError{Path: "priority", Err: fmt.Errorf("invalid priority %q", *e.Priority)}
	}

	tasks, err := s.LoadAll(ctx)
	if err != nil {
		return false, err
	}
	task := Get(tasks, id)
	if task == nil {
		s.logger.Debug("edit skipped, no such task", "id", id)
		return false, nil
	}

	if e.Title != nil {
		task.Title = title
	}
	if e.Description != nil {
		task.Description = *e.Description
	}
	if e.DueDate != nil {
		due := e.DueDate.UTC()
		task.DueDate = &due
	}
	if e.Priority != nil {
		task.Priority = *e.Priority
	}

	if err := s.SaveAll(ctx, tasks); err != nil {
		return true, err
	}
	s.logger.Info("task edited", "id", id)
	return true, nil
}

// ClearAll erases the whole backend: every task and every setting.
func (s *Store) ClearAll(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "todo.ClearAll")
	defer span.End()

	if err := s.backend.Clear(ctx); err != nil {
		err = &PersistenceError{Op: "clear", Err: err}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	s.logger.Warn("store cleared")
	return nil
}
