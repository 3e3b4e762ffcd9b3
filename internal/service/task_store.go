package service

import (
	"sync"
	"time"

	"github.com/mike4330/stokapp-v2/internal/apperrors"
	"github.com/mike4330/stokapp-v2/internal/model"
)

// TaskStore tracks the lifecycle of background tasks. It is an interface so
// tests can substitute a fresh instance and a durable implementation can be
// swapped in later without touching callers.
type TaskStore interface {
	Create(id string) model.Task
	Complete(id string, result interface{}) error
	Fail(id string, message string) error
	Get(id string) (model.Task, error)
}

// InMemoryTaskStore is the default TaskStore: a mutex-guarded map scoped to
// the process lifetime. Task state does not survive a restart, which is
// acceptable for fire-and-forget optimizer runs.
type InMemoryTaskStore struct {
	mu    sync.RWMutex
	tasks map[string]model.Task
}

// NewInMemoryTaskStore creates an empty in-memory task store.
func NewInMemoryTaskStore() *InMemoryTaskStore {
	return &InMemoryTaskStore{tasks: make(map[string]model.Task)}
}

// Create registers a new running task under the given ID.
func (s *InMemoryTaskStore) Create(id string) model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	task := model.Task{
		ID:        id,
		Status:    model.TaskRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.tasks[id] = task
	return task
}

// Complete marks a task finished and attaches its result.
func (s *InMemoryTaskStore) Complete(id string, result interface{}) error {
	return s.update(id, func(t *model.Task) {
		t.Status = model.TaskCompleted
		t.Result = result
	})
}

// Fail marks a task failed with a human-readable message.
func (s *InMemoryTaskStore) Fail(id string, message string) error {
	return s.update(id, func(t *model.Task) {
		t.Status = model.TaskFailed
		t.Error = message
	})
}

// Get retrieves a task's current state.
func (s *InMemoryTaskStore) Get(id string) (model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return model.Task{}, apperrors.ErrTaskNotFound
	}
	return task, nil
}

func (s *InMemoryTaskStore) update(id string, apply func(*model.Task)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return apperrors.ErrTaskNotFound
	}
	apply(&task)
	task.UpdatedAt = time.Now().UTC()
	s.tasks[id] = task
	return nil
}
