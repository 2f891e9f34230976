package todo

import (
	"fmt"
	"strings"
	"time"
)

// TasksKey is the backend key holding the serialized task list.
const TasksKey = "TASKNEST_TASKS"

// DefaultMood is the glyph given to tasks created without one.
const DefaultMood = "😊"

// Priority ranks a task.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities lists every valid priority from lowest to highest.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority accepts any casing of a priority name.
func ParsePriority(s string) (Priority, error) {
	for _, p := range Priorities() {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid priority %q, must be one of: Low, Medium, High", s)
}

// Category groups tasks on the home screen.
type Category string

const (
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
	CategoryHealth   Category = "Health"
	CategoryUrgent   Category = "Urgent"
	CategoryFinance  Category = "Finance"
	CategoryIdeas    Category = "Ideas"

	// CategoryAll is the filter sentinel that matches every task. It is
	// never stored on a task.
	CategoryAll Category = "All"
)

// Categories lists every category a task can carry.
func Categories() []Category {
	return []Category{
		CategoryWork,
		CategoryPersonal,
		CategoryHealth,
		CategoryUrgent,
		CategoryFinance,
		CategoryIdeas,
	}
}

// Valid reports whether c can be stored on a task.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory accepts any casing of a category name, including "All".
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, string(CategoryAll)) {
		return CategoryAll, nil
	}
	for _, c := range Categories() {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid category %q, must be one of: All, Work, Personal, Health, Urgent, Finance, Ideas", s)
}

// Task is a single to-do record.
type Task struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Priority    Priority   `json:"priority" yaml:"priority"`
	Mood        string     `json:"mood" yaml:"mood"`
	Category    Category   `json:"category" yaml:"category"`
	Completed   bool       `json:"completed" yaml:"completed"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"createdAt"`
	DueDate     *time.Time `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
}

// Draft holds the user-supplied fields of a task about to be created.
// Empty fields take their defaults.
type Draft struct {
	Title       string
	Description string
	Priority    Priority
	Mood        string
	Category    Category
}

// Edit lists the fields to change on an existing task. Nil fields are left
// untouched.
type Edit struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *Priority
}
