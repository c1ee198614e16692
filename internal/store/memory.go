package store

import (
	"context"
	"errors"
	"sync"

	"github.com/AngelCh415/channel-roi/internal/models"
)

type MemoryStore struct {
	mu    sync.RWMutex
	runs  map[string]models.Report
	order []string // insertion order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]models.Report)}
}

func (s *MemoryStore) Save(_ context.Context, rep models.Report) error {
	if rep.ID == "" {
		return errors.New("report id required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[rep.ID]; !ok {
		s.order = append(s.order, rep.ID)
	}
	s.runs[rep.ID] = rep
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rep, ok := s.runs[id]
	if !ok {
		return models.Report{}, ErrNotFound
	}
	return rep, nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]RunInfo, error) {
	if limit <= 0 {
		return []RunInfo{}, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]RunInfo, 0, min(limit, len(s.order)))
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, infoOf(s.runs[s.order[i]]))
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
