package todo

import (
	"context"
	"fmt"
	"testing"

	"github.com/nibzard/tasknest/internal/kv"
)

func benchStore(b *testing.B, n int) *Store {
	b.Helper()
	s := NewStore(kv.NewMemory())
	tasks := make([]Task, 0, n)
	for i := 0; i < n; i++ {
		tasks = append(tasks, Task{
			ID:       fmt.Sprintf("T%04d", i),
			Title:    fmt.Sprintf("Task %d", i),
			Priority: Priorities()[i%3],
			Category: Categories()[i%len(Categories())],
			Mood:     DefaultMood,
		})
	}
	if err := s.SaveAll(context.Background(), tasks); err != nil {
		b.Fatalf("SaveAll failed: %v", err)
	}
	return s
}

// BenchmarkLoadAll benchmarks decoding and schema-checking 100 tasks.
func BenchmarkLoadAll(b *testing.B) {
	s := benchStore(b, 100)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.LoadAll(ctx); err != nil {
			b.Fatalf("LoadAll failed: %v", err)
		}
	}
}

// BenchmarkToggleComplete benchmarks a full read-modify-write cycle.
func BenchmarkToggleComplete(b *testing.B) {
	s := benchStore(b, 100)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.ToggleComplete(ctx, "T0050"); err != nil {
			b.Fatalf("ToggleComplete failed: %v", err)
		}
	}
}

// BenchmarkFilterByCategory benchmarks the linear category filter.
func BenchmarkFilterByCategory(b *testing.B) {
	tasks, err := benchStore(b, 1000).LoadAll(context.Background())
	if err != nil {
		b.Fatalf("LoadAll failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		FilterByCategory(tasks, CategoryHealth)
	}
}
