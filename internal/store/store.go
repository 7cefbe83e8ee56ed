package store

import (
	"sync"

	"github.com/tessro/mixtape/internal/core"
	"go.uber.org/zap"
)

// Listener observes a transition. It runs after the new state is committed.
type Listener func(prev, next core.State, action core.Action)

type subscription struct {
	id int
	fn Listener
}

// Store owns the process-wide playback state. All mutation goes through
// Dispatch; consumers read snapshots or subscribe to transitions.
type Store struct {
	mu        sync.Mutex
	state     core.State
	pending   []core.Action
	draining  bool
	listeners []subscription
	nextID    int
	log       *zap.Logger
}

// New creates a store holding initial.
func New(initial core.State, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		state: initial,
		log:   log.Named("store"),
	}
}

// State returns a snapshot of the current state.
func (s *Store) State() core.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies an action. Actions are reduced strictly in the order they
// were dispatched: a dispatch made while listeners are being notified (from
// any goroutine) is queued and applied by the goroutine already draining,
// after the current notification round completes.
func (s *Store) Dispatch(a core.Action) {
	s.mu.Lock()
	s.pending = append(s.pending, a)
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true

	for len(s.pending) > 0 {
		action := s.pending[0]
		s.pending[0] = core.Action{}
		s.pending = s.pending[1:]

		prev := s.state
		next := core.Reduce(prev, action)
		s.state = next

		listeners := make([]subscription, len(s.listeners))
		copy(listeners, s.listeners)
		s.mu.Unlock()

		s.log.Debug("dispatch",
			zap.Stringer("action", action.Type),
			zap.Stringer("origin", action.Origin),
			zap.Int("index", next.CurrentIndex),
			zap.Bool("playing", next.IsPlaying),
		)
		for _, l := range listeners {
			l.fn(prev, next, action)
		}

		s.mu.Lock()
	}

	s.pending = nil
	s.draining = false
	s.mu.Unlock()
}

// Subscribe registers a listener and returns a func that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}
