package todo

import "slices"

// Get returns a pointer into tasks for the task with id, or nil if not found.
func Get(tasks []Task, id string) *Task {
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i]
		}
	}
	return nil
}

// FilterByCategory returns the tasks in category c, in their original order.
// CategoryAll returns every task. The input is never modified.
func FilterByCategory(tasks []Task, c Category) []Task {
	if c == CategoryAll {
		return slices.Clone(tasks)
	}
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Category == c {
			out = append(out, t)
		}
	}
	return out
}

// CountCompleted returns how many tasks are completed.
func CountCompleted(tasks []Task) int {
	n := 0
	for _, t := range tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

// ComputeProgress returns the completed fraction in [0, 1]. An empty list
// has progress 0.
func ComputeProgress(tasks []Task) float64 {
	if len(tasks) == 0 {
		return 0
	}
	return float64(CountCompleted(tasks)) / float64(len(tasks))
}
