package kvstore

import (
	"context"

	"github.com/puzpuzpuz/xsync/v4"
)

// Memory is a process-local Store.
type Memory struct {
	m *xsync.Map[string, string]
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{m: xsync.NewMap[string, string]()}
}

func (s *Memory) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := s.m.Load(key)
	return v, ok, nil
}

func (s *Memory) Set(_ context.Context, key, value string) error {
	s.m.Store(key, value)
	return nil
}

func (s *Memory) Close() error { return nil }

// Len is the number of stored keys.
func (s *Memory) Len() int { return s.m.Size() }
