package store

import (
	"context"
	"sync"

	"github.com/snap-protocol/snap/pkg/task"
)

// MemoryTaskStore is an in-process, mutex-guarded TaskStore. Entries
// never expire on their own; callers delete them once a task reaches
// a terminal state, if they don't need the history retained.
type MemoryTaskStore struct {
	mu    sync.Mutex
	tasks map[string]task.Task
}

// NewMemoryTaskStore creates an empty in-memory task store.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{tasks: make(map[string]task.Task)}
}

func (s *MemoryTaskStore) Get(_ context.Context, taskID string) (task.Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[taskID]
	return t, ok, nil
}

func (s *MemoryTaskStore) Set(_ context.Context, taskID string, t task.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[taskID] = t
	return nil
}

func (s *MemoryTaskStore) Delete(_ context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, taskID)
	return nil
}
