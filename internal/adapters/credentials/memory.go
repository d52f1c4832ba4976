package credentials

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps the token in process memory. Used by tests and by
// short-lived CLI invocations that authenticate per run.
type MemoryStore struct {
	mu    sync.Mutex
	token string
	nowFn func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nowFn: time.Now}
}

func (s *MemoryStore) Token(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == "" {
		return "", nil
	}
	if expired(s.token, s.nowFn()) {
		s.token = ""
		return "", nil
	}
	return s.token, nil
}

func (s *MemoryStore) Set(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
