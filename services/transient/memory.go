package transient

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	value    []byte
	expireAt time.Time
}

type Memory struct {
	mux   sync.Mutex
	items map[string]*memoryItem
	now   func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		items: map[string]*memoryItem{},
		now:   time.Now,
	}
}

func (s *Memory) Get(_ context.Context, key string) ([]byte, error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	it, ok := s.items[key]
	if !ok {
		return nil, nil
	}
	if !it.expireAt.IsZero() && !s.now().Before(it.expireAt) {
		delete(s.items, key)
		return nil, nil
	}
	v := make([]byte, len(it.value))
	copy(v, it.value)
	return v, nil
}

func (s *Memory) Set(_ context.Context, key string, value []byte, expire time.Duration) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	it := &memoryItem{
		value: make([]byte, len(value)),
	}
	copy(it.value, value)
	if expire > 0 {
		it.expireAt = s.now().Add(expire)
	}
	s.items[key] = it
	return nil
}

func (s *Memory) Delete(_ context.Context, key string) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	delete(s.items, key)
	return nil
}
