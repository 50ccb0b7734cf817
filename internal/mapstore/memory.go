package mapstore

import (
	"context"
	"sync"
)

// Memory is the process-lifetime backend. Mappings are lost on restart, so
// it suits tests and credential-less dev runs; production should use Redis.
type Memory struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewMemory() *Memory {
	return &Memory{m: make(map[string]string)}
}

func (s *Memory) Get(_ context.Context, docID string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.m[docID]
	return id, ok, nil
}

func (s *Memory) Put(_ context.Context, docID, eventID string) error {
	s.mu.Lock()
	s.m[docID] = eventID
	s.mu.Unlock()
	return nil
}

func (s *Memory) Remove(_ context.Context, docID string) error {
	s.mu.Lock()
	delete(s.m, docID)
	s.mu.Unlock()
	return nil
}
