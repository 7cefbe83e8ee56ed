package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tessro/mixtape/internal/core"
	"github.com/tessro/mixtape/internal/store"
)

// Store is the part of the playback store the adapter needs.
type Store interface {
	State() core.State
	Dispatch(core.Action)
	Subscribe(store.Listener) (unsubscribe func())
}

// Status describes the engine for display.
type Status struct {
	Source   string
	Loading  bool
	Progress int
	Ready    bool
	Duration time.Duration
	Peaks    []float64
	Err      error
}

// Adapter binds one Engine at a time to the current track of a Store.
// A new engine is built whenever the audio source changes; play state and
// pending seeks are pushed into the engine, and engine events are turned
// back into actions.
type Adapter struct {
	store   Store
	factory Factory
	opts    Options
	log     *zap.Logger

	mu       sync.Mutex
	engine   Engine
	offs     []func()
	cancel   context.CancelFunc
	status   Status
	gen      uint64
	closed   bool
	unsub    func()
	onStatus func(Status)

	inflight sync.WaitGroup
}

// NewAdapter creates an adapter. Call Start to attach it to the store.
func NewAdapter(s Store, factory Factory, opts Options, log *zap.Logger) *Adapter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Adapter{
		store:   s,
		factory: factory,
		opts:    opts,
		log:     log.Named("engine"),
	}
}

// OnStatus sets a callback invoked whenever Status changes. It must be set
// before Start.
func (a *Adapter) OnStatus(fn func(Status)) {
	a.mu.Lock()
	a.onStatus = fn
	a.mu.Unlock()
}

// Start subscribes to the store and mounts an engine for the current track.
func (a *Adapter) Start() {
	unsub := a.store.Subscribe(a.onState)
	a.mu.Lock()
	a.unsub = unsub
	a.mu.Unlock()

	st := a.store.State()
	a.mount(st.AudioURL())
}

// Status returns a snapshot of the engine status.
func (a *Adapter) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.status
	s.Peaks = append([]float64(nil), a.status.Peaks...)
	return s
}

// Close unsubscribes from the store and destroys the engine. No action is
// dispatched after Close returns; a dispatch already under way is waited
// for, so Close must not be called from a store listener.
func (a *Adapter) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	a.gen++
	unsub := a.unsub
	a.unsub = nil
	a.teardownLocked()
	a.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	a.inflight.Wait()
}

func (a *Adapter) onState(prev, next core.State, action core.Action) {
	a.mu.Lock()
	source := a.status.Source
	closed := a.closed
	a.mu.Unlock()
	if closed {
		return
	}

	if next.AudioURL() != source {
		a.mount(next.AudioURL())
		return
	}
	a.syncPlaying(next, action)
	a.syncSeek(next)
}

// mount tears down the current engine and, for a non-empty source, builds
// and starts loading a new one.
func (a *Adapter) mount(source string) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.teardownLocked()
	a.gen++
	gen := a.gen

	if source == "" {
		a.status = Status{}
		a.mu.Unlock()
		a.notify()
		return
	}

	eng := a.factory(a.opts)
	a.engine = eng
	a.offs = []func(){
		eng.On(EventLoading, func(e Event) { a.onLoading(gen, e.Progress) }),
		eng.On(EventReady, func(Event) { a.onReady(gen) }),
		eng.On(EventPlay, func(Event) { a.dispatch(gen, core.SetPlaying(true).From(core.OriginEngine)) }),
		eng.On(EventPause, func(Event) { a.dispatch(gen, core.SetPlaying(false).From(core.OriginEngine)) }),
		eng.On(EventSeeking, func(e Event) { a.dispatch(gen, core.UpdateTime(e.Time).From(core.OriginEngine)) }),
		eng.On(EventAudioProcess, func(e Event) { a.dispatch(gen, core.UpdateTime(e.Time).From(core.OriginEngine)) }),
		eng.On(EventFinish, func(Event) { a.dispatch(gen, core.TrackEnded().From(core.OriginEngine)) }),
		eng.On(EventError, func(e Event) { a.log.Warn("playback error", zap.String("source", source), zap.Error(e.Err)) }),
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.status = Status{Source: source, Loading: true}
	a.mu.Unlock()

	a.notify()
	a.log.Debug("mount", zap.String("source", source))
	go a.load(ctx, gen, eng, source)
}

func (a *Adapter) load(ctx context.Context, gen uint64, eng Engine, source string) {
	err := eng.Load(ctx, source)
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrDestroyed) {
		return
	}

	a.log.Error("load failed", zap.String("source", source), zap.Error(err))
	a.mu.Lock()
	if a.closed || gen != a.gen {
		a.mu.Unlock()
		return
	}
	a.status.Err = err
	a.mu.Unlock()
	a.notify()
}

// teardownLocked detaches every listener before destroying the engine, so
// nothing it emits while shutting down reaches the store.
func (a *Adapter) teardownLocked() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	for _, off := range a.offs {
		off()
	}
	a.offs = nil
	if a.engine != nil {
		a.engine.Destroy()
		a.engine = nil
	}
}

func (a *Adapter) onLoading(gen uint64, pct int) {
	a.mu.Lock()
	if a.closed || gen != a.gen {
		a.mu.Unlock()
		return
	}
	a.status.Progress = pct
	a.mu.Unlock()
	a.notify()
}

func (a *Adapter) onReady(gen uint64) {
	a.mu.Lock()
	if a.closed || gen != a.gen || a.engine == nil {
		a.mu.Unlock()
		return
	}
	eng := a.engine
	a.mu.Unlock()

	dur := eng.Duration()
	peaks := eng.Peaks()

	a.mu.Lock()
	if a.closed || gen != a.gen {
		a.mu.Unlock()
		return
	}
	a.status.Loading = false
	a.status.Ready = true
	a.status.Progress = 100
	a.status.Duration = dur
	a.status.Peaks = peaks
	a.mu.Unlock()
	a.notify()

	a.syncSeek(a.store.State())
	a.syncPlaying(a.store.State(), core.Action{})
}

// syncPlaying makes the engine follow the store's play flag. Transitions
// that the engine itself reported are not pushed back to it.
func (a *Adapter) syncPlaying(st core.State, action core.Action) {
	if action.Type == core.ActionSetPlaying && action.Origin == core.OriginEngine {
		return
	}
	eng, _, ok := a.readyEngine()
	if !ok {
		return
	}

	switch {
	case st.IsPlaying && !eng.IsPlaying():
		if err := eng.Play(); err != nil {
			a.log.Warn("play", zap.Error(err))
		}
	case !st.IsPlaying && eng.IsPlaying():
		eng.Pause()
	}
}

// syncSeek applies a pending seek once the engine knows its duration. While
// loading, the seek stays pending and is applied on ready.
func (a *Adapter) syncSeek(st core.State) {
	if st.PendingSeek == nil {
		return
	}
	eng, gen, ok := a.readyEngine()
	if !ok {
		return
	}
	dur := eng.Duration()
	if dur <= 0 {
		return
	}

	// Clear first so the seeking event it triggers does not re-apply it.
	target := *st.PendingSeek
	a.dispatch(gen, core.ClearSeek())
	if err := eng.SeekTo(target / dur.Seconds()); err != nil {
		a.log.Warn("seek", zap.Float64("seconds", target), zap.Error(err))
	}
}

func (a *Adapter) readyEngine() (Engine, uint64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || a.engine == nil || !a.status.Ready {
		return nil, 0, false
	}
	return a.engine, a.gen, true
}

// dispatch forwards action to the store unless the engine that produced it
// has since been replaced or the adapter closed.
func (a *Adapter) dispatch(gen uint64, action core.Action) {
	a.mu.Lock()
	if a.closed || gen != a.gen {
		a.mu.Unlock()
		return
	}
	a.inflight.Add(1)
	a.mu.Unlock()

	defer a.inflight.Done()
	a.store.Dispatch(action)
}

func (a *Adapter) notify() {
	a.mu.Lock()
	fn := a.onStatus
	a.mu.Unlock()
	if fn != nil {
		fn(a.Status())
	}
}
