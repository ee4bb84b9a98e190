package audit

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type memoryStore struct {
	mu       sync.RWMutex
	attempts []Attempt
	events   []Event
}

// NewMemoryStore builds an in-memory audit store for testing.
func NewMemoryStore() Store {
	return &memoryStore{}
}

func (s *memoryStore) InsertAttempt(_ context.Context, attempt Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	attempt.ID = uuid.NewString()
	s.attempts = append(s.attempts, attempt)
	return nil
}

func (s *memoryStore) InsertEvent(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	event.ID = uuid.NewString()
	s.events = append(s.events, event)
	return nil
}

func (s *memoryStore) RecentAttempts(_ context.Context, limit int) ([]Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lastN(s.attempts, limit), nil
}

func (s *memoryStore) RecentEvents(_ context.Context, limit int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lastN(s.events, limit), nil
}

// lastN returns up to limit newest entries, newest first.
func lastN[T any](items []T, limit int) []T {
	out := make([]T, 0, limit)
	for i := len(items) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, items[i])
	}
	return out
}
