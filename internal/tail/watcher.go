// Package tail turns playback store transitions into printable events.
package tail

import (
	"context"
	"sync"
	"time"

	"github.com/tessro/mixtape/internal/core"
	"github.com/tessro/mixtape/internal/store"
)

// EventType represents the type of playback event.
type EventType int

const (
	EventTrackChange EventType = iota
	EventTrackComplete
	EventTrackSkip
	EventPause
	EventResume
	EventSeek
	EventShuffleChange
	EventQueueEnd
)

// Event represents a playback state change.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Origin    core.Origin
	Previous  core.State
	Current   core.State
}

// Subscriber is the part of the store the watcher needs.
type Subscriber interface {
	State() core.State
	Subscribe(store.Listener) (unsubscribe func())
}

// Watcher follows a store and emits events for its transitions.
type Watcher struct {
	store  Subscriber
	events chan Event
	done   chan struct{}
	stop   sync.Once
	now    func() time.Time

	mu     sync.Mutex
	closed bool
}

// NewWatcher creates a new state watcher.
func NewWatcher(s Subscriber) *Watcher {
	return &Watcher{
		store:  s,
		events: make(chan Event, 64),
		done:   make(chan struct{}),
		now:    time.Now,
	}
}

// Events returns the channel of playback events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start follows the store until ctx is done or Stop is called. The events
// channel is closed when Start returns; transitions still being delivered
// by an in-flight dispatch after that are dropped.
func (w *Watcher) Start(ctx context.Context) error {
	defer w.shutdown()

	unsubscribe := w.store.Subscribe(func(prev, next core.State, a core.Action) {
		for _, e := range diffStates(prev, next, a, w.now()) {
			w.emit(e)
		}
	})
	defer unsubscribe()

	// Report what is already loaded.
	if st := w.store.State(); st.HasTrack() {
		w.emit(Event{Type: EventTrackChange, Timestamp: w.now(), Current: st})
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-w.done:
		return nil
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.stop.Do(func() { close(w.done) })
}

func (w *Watcher) shutdown() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	close(w.events)
}

func (w *Watcher) emit(e Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	select {
	case w.events <- e:
	default:
		// Drop event if channel is full
	}
}

// diffStates compares two states and returns detected events.
func diffStates(prev, curr core.State, a core.Action, now time.Time) []Event {
	var events []Event
	add := func(t EventType) {
		events = append(events, Event{
			Type:      t,
			Timestamp: now,
			Origin:    a.Origin,
			Previous:  prev,
			Current:   curr,
		})
	}

	if trackChanged(&prev, &curr) {
		switch {
		case prev.HasTrack() && a.Type == core.ActionTrackEnded:
			add(EventTrackComplete)
		case prev.HasTrack():
			add(EventTrackSkip)
		}
		add(EventTrackChange)
	} else if a.Type == core.ActionTrackEnded && !curr.IsPlaying {
		add(EventQueueEnd)
	}

	if prev.IsPlaying && !curr.IsPlaying && a.Type != core.ActionTrackEnded {
		add(EventPause)
	} else if !prev.IsPlaying && curr.IsPlaying && !trackChanged(&prev, &curr) {
		add(EventResume)
	}

	if a.Type == core.ActionSeek && curr.PendingSeek != nil {
		add(EventSeek)
	}

	if prev.ShuffleEnabled != curr.ShuffleEnabled {
		add(EventShuffleChange)
	}

	return events
}

// trackChanged returns true if the track changed.
func trackChanged(prev, curr *core.State) bool {
	if !prev.HasTrack() && !curr.HasTrack() {
		return false
	}
	if !prev.HasTrack() || !curr.HasTrack() {
		return true
	}
	return prev.CurrentTrack.ID != curr.CurrentTrack.ID
}
