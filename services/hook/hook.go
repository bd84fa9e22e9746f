package hook

import (
	"context"
	"sort"
	"sync"
)

const DefaultPriority = 10

// FilterFunc receives current value and returns the value passed to the next filter.
type FilterFunc func(ctx context.Context, value any, args ...any) any

type ActionFunc func(ctx context.Context, args ...any)

type callback[T any] struct {
	priority int
	seq      int
	fn       T
}

type callbacks[T any] []*callback[T]

func (c callbacks[T]) sorted() callbacks[T] {
	res := make(callbacks[T], len(c))
	copy(res, c)
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].priority != res[j].priority {
			return res[i].priority < res[j].priority
		}
		return res[i].seq < res[j].seq
	})
	return res
}

// Hooks is a registry of named filters and actions.
// Callbacks run in ascending priority, equal priorities in registration order.
type Hooks struct {
	mux     sync.RWMutex
	seq     int
	filters map[string]callbacks[FilterFunc]
	actions map[string]callbacks[ActionFunc]
}

func New() *Hooks {
	return &Hooks{
		filters: map[string]callbacks[FilterFunc]{},
		actions: map[string]callbacks[ActionFunc]{},
	}
}

func (s *Hooks) AddFilter(name string, priority int, fn FilterFunc) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.seq++
	s.filters[name] = append(s.filters[name], &callback[FilterFunc]{
		priority: priority,
		seq:      s.seq,
		fn:       fn,
	}).sorted()
}

func (s *Hooks) HasFilter(name string) bool {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return len(s.filters[name]) > 0
}

func (s *Hooks) ApplyFilters(ctx context.Context, name string, value any, args ...any) any {
	s.mux.RLock()
	cbs := s.filters[name]
	s.mux.RUnlock()
	for _, cb := range cbs {
		value = cb.fn(ctx, value, args...)
	}
	return value
}

func (s *Hooks) AddAction(name string, priority int, fn ActionFunc) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.seq++
	s.actions[name] = append(s.actions[name], &callback[ActionFunc]{
		priority: priority,
		seq:      s.seq,
		fn:       fn,
	}).sorted()
}

func (s *Hooks) DoAction(ctx context.Context, name string, args ...any) {
	s.mux.RLock()
	cbs := s.actions[name]
	s.mux.RUnlock()
	for _, cb := range cbs {
		cb.fn(ctx, args...)
	}
}

// ApplyStringFilters is ApplyFilters for string values. A filter returning
// something other than string leaves the value untouched.
func (s *Hooks) ApplyStringFilters(ctx context.Context, name string, value string, args ...any) string {
	res, ok := s.ApplyFilters(ctx, name, value, args...).(string)
	if !ok {
		return value
	}
	return res
}
