package store

import (
	"slices"
	"sync"

	"github.com/samber/lo"
)

// Action turns one snapshot into the next. Actions must not mutate their
// input; slices and maps reachable from it are shared with older snapshots.
type Action[S any] struct {
	Type  string
	apply func(S) S
}

// NewAction wraps a pure reducer under a name used for logging and routing.
func NewAction[S any](typ string, reduce func(S) S) Action[S] {
	return Action[S]{Type: typ, apply: reduce}
}

// Apply runs the reducer against s. A zero Action leaves s unchanged.
func (a Action[S]) Apply(s S) S {
	if a.apply == nil {
		return s
	}
	return a.apply(s)
}

// Listener is notified after every dispatch with the previous and the new snapshot.
type Listener[S any] func(action string, prev, next S)

// Store holds the current snapshot of S and hands out new ones per dispatch.
type Store[S any] struct {
	mu        sync.RWMutex
	initial   func() S
	state     S
	listeners map[int]Listener[S]
	nextID    int
}

// New creates a store whose state starts at (and resets to) initial().
func New[S any](initial func() S) *Store[S] {
	return &Store[S]{
		initial:   initial,
		state:     initial(),
		listeners: make(map[int]Listener[S]),
	}
}

// Restore creates a store that starts from a previously saved snapshot but
// still resets to initial().
func Restore[S any](initial func() S, snapshot S) *Store[S] {
	s := New(initial)
	s.state = snapshot
	return s
}

// State returns the current snapshot.
func (s *Store[S]) State() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies the action and returns the resulting snapshot.
func (s *Store[S]) Dispatch(action Action[S]) S {
	s.mu.Lock()
	prev := s.state
	next := action.Apply(prev)
	s.state = next
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, l := range listeners {
		l(action.Type, prev, next)
	}
	return next
}

// Reset discards the current snapshot and goes back to the initial state.
func (s *Store[S]) Reset() {
	s.Dispatch(NewAction("reset", func(S) S { return s.initial() }))
}

// Subscribe registers l and returns a function removing it again.
func (s *Store[S]) Subscribe(l Listener[S]) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store[S]) snapshotListeners() []Listener[S] {
	if len(s.listeners) == 0 {
		return nil
	}
	ids := lo.Keys(s.listeners)
	slices.Sort(ids)
	out := make([]Listener[S], 0, len(ids))
	for _, id := range ids {
		out = append(out, s.listeners[id])
	}
	return out
}
