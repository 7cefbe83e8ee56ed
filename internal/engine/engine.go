// Package engine drives audio playback and waveform rendering for the
// current track and keeps it in step with the playback store.
package engine

import (
	"context"
	"sync"
	"time"
)

// EventKind identifies an engine lifecycle or playback event.
type EventKind int

const (
	EventLoading EventKind = iota
	EventReady
	EventPlay
	EventPause
	EventSeeking
	EventAudioProcess
	EventFinish
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventLoading:
		return "loading"
	case EventReady:
		return "ready"
	case EventPlay:
		return "play"
	case EventPause:
		return "pause"
	case EventSeeking:
		return "seeking"
	case EventAudioProcess:
		return "audioprocess"
	case EventFinish:
		return "finish"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is emitted by an Engine.
type Event struct {
	Kind     EventKind
	Time     float64 // playback position in seconds
	Progress int     // load progress in percent
	Err      error
}

// Handler receives engine events.
type Handler func(Event)

// Engine decodes a source, renders its waveform and plays it.
// Implementations emit events synchronously from whichever goroutine
// triggers them.
type Engine interface {
	// Load fetches and decodes source. It blocks until the engine is ready
	// or ctx is cancelled, in which case it returns ctx.Err().
	Load(ctx context.Context, source string) error
	Play() error
	Pause()
	// SeekTo jumps to a fraction (0..1) of the duration.
	SeekTo(fraction float64) error
	IsPlaying() bool
	Duration() time.Duration
	// Peaks returns normalized (0..1) amplitude buckets for rendering.
	Peaks() []float64
	// On registers a handler and returns a func that removes it.
	On(kind EventKind, h Handler) (off func())
	// Destroy releases every resource held by the engine.
	Destroy()
}

// Options sizes a new engine.
type Options struct {
	// Bars is the number of waveform buckets to compute.
	Bars int
	// TickInterval is how often audioprocess fires while playing.
	TickInterval time.Duration
}

// Factory creates a fresh engine.
type Factory func(Options) Engine

// emitter is the handler registry shared by engine implementations.
type emitter struct {
	mu       sync.Mutex
	nextID   int
	handlers map[EventKind]map[int]Handler
}

func (e *emitter) on(kind EventKind, h Handler) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.handlers == nil {
		e.handlers = make(map[EventKind]map[int]Handler)
	}
	if e.handlers[kind] == nil {
		e.handlers[kind] = make(map[int]Handler)
	}
	e.nextID++
	id := e.nextID
	e.handlers[kind][id] = h
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.handlers[kind], id)
	}
}

func (e *emitter) emit(ev Event) {
	e.mu.Lock()
	hs := make([]Handler, 0, len(e.handlers[ev.Kind]))
	for _, h := range e.handlers[ev.Kind] {
		hs = append(hs, h)
	}
	e.mu.Unlock()
	for _, h := range hs {
		h(ev)
	}
}

func (e *emitter) reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = nil
}
