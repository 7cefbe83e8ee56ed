package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
)

// ErrDestroyed is returned by calls on an engine after Destroy.
var ErrDestroyed = errors.New("engine destroyed")

const (
	outputRate          = beep.SampleRate(44100)
	defaultTickInterval = 250 * time.Millisecond
)

// BeepEngine decodes audio with beep and plays it on the shared output.
type BeepEngine struct {
	emitter

	opts   Options
	client *http.Client
	out    output

	mu        sync.Mutex
	streamer  beep.StreamSeekCloser
	format    beep.Format
	ctrl      *beep.Ctrl
	peaks     []float64
	playing   bool
	finished  bool
	destroyed bool
	stopTick  chan struct{}
}

// NewBeep returns a Factory that builds BeepEngines using client for
// remote sources. A nil client uses http.DefaultClient.
func NewBeep(client *http.Client) Factory {
	if client == nil {
		client = http.DefaultClient
	}
	return func(opts Options) Engine {
		if opts.Bars <= 0 {
			opts.Bars = defaultBars
		}
		if opts.TickInterval <= 0 {
			opts.TickInterval = defaultTickInterval
		}
		return &BeepEngine{opts: opts, client: client, out: newOutput()}
	}
}

// Load fetches, decodes and analyses source, then queues it paused on the
// output and emits ready.
func (e *BeepEngine) Load(ctx context.Context, source string) error {
	if e.isDestroyed() {
		return ErrDestroyed
	}

	data, contentType, err := fetch(ctx, e.client, source, func(pct int) {
		e.emit(Event{Kind: EventLoading, Progress: pct})
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}

	streamer, format, err := decode(data, codec(source, contentType))
	if err != nil {
		return fmt.Errorf("decode %s: %w", source, err)
	}

	peaks, err := computePeaks(ctx, streamer, e.opts.Bars)
	if err != nil {
		streamer.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("analyse %s: %w", source, err)
	}

	if err := e.out.init(outputRate); err != nil {
		streamer.Close()
		return fmt.Errorf("init output: %w", err)
	}

	e.mu.Lock()
	if e.destroyed || ctx.Err() != nil {
		e.mu.Unlock()
		streamer.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrDestroyed
	}
	e.streamer = streamer
	e.format = format
	e.peaks = peaks
	e.ctrl = &beep.Ctrl{Streamer: beep.Resample(4, format.SampleRate, outputRate, streamer), Paused: true}
	ctrl := e.ctrl
	e.mu.Unlock()

	e.out.play(beep.Seq(ctrl, beep.Callback(func() {
		// Runs on the output goroutine with its lock held.
		go e.finish(ctrl)
	})))

	e.emit(Event{Kind: EventReady})
	return nil
}

func (e *BeepEngine) finish(ctrl *beep.Ctrl) {
	e.mu.Lock()
	if e.destroyed || e.ctrl != ctrl {
		e.mu.Unlock()
		return
	}
	e.playing = false
	e.finished = true
	e.stopTickerLocked()
	e.mu.Unlock()
	e.emit(Event{Kind: EventFinish, Time: e.position().Seconds()})
}

// Play starts or resumes playback. A finished track restarts from the top.
func (e *BeepEngine) Play() error {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return ErrDestroyed
	}
	if e.ctrl == nil {
		e.mu.Unlock()
		return errors.New("engine not ready")
	}
	if e.playing {
		e.mu.Unlock()
		return nil
	}
	if e.finished {
		if err := e.requeueLocked(); err != nil {
			e.mu.Unlock()
			return err
		}
	}
	e.out.lock()
	e.ctrl.Paused = false
	e.out.unlock()
	e.playing = true
	e.startTickerLocked()
	e.mu.Unlock()

	e.emit(Event{Kind: EventPlay})
	return nil
}

// requeueLocked rewinds a finished stream and hands it back to the output.
func (e *BeepEngine) requeueLocked() error {
	e.out.lock()
	err := e.streamer.Seek(0)
	e.out.unlock()
	if err != nil {
		return err
	}
	ctrl := &beep.Ctrl{Streamer: beep.Resample(4, e.format.SampleRate, outputRate, e.streamer), Paused: true}
	e.ctrl = ctrl
	e.finished = false
	e.out.play(beep.Seq(ctrl, beep.Callback(func() {
		go e.finish(ctrl)
	})))
	return nil
}

// Pause pauses playback.
func (e *BeepEngine) Pause() {
	e.mu.Lock()
	if e.destroyed || e.ctrl == nil || !e.playing {
		e.mu.Unlock()
		return
	}
	e.out.lock()
	e.ctrl.Paused = true
	e.out.unlock()
	e.playing = false
	e.stopTickerLocked()
	e.mu.Unlock()

	e.emit(Event{Kind: EventPause})
}

// SeekTo jumps to fraction of the duration.
func (e *BeepEngine) SeekTo(fraction float64) error {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return ErrDestroyed
	}
	if e.streamer == nil {
		e.mu.Unlock()
		return errors.New("engine not ready")
	}
	target := int(float64(e.streamer.Len()) * fraction)
	if target >= e.streamer.Len() && target > 0 {
		target = e.streamer.Len() - 1
	}
	e.out.lock()
	err := e.streamer.Seek(target)
	e.out.unlock()
	secs := e.format.SampleRate.D(target).Seconds()
	e.mu.Unlock()

	if err != nil {
		return err
	}
	e.emit(Event{Kind: EventSeeking, Time: secs})
	return nil
}

// IsPlaying reports whether audio is currently advancing.
func (e *BeepEngine) IsPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

// Duration returns the decoded length, or 0 before ready.
func (e *BeepEngine) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.streamer == nil {
		return 0
	}
	return e.format.SampleRate.D(e.streamer.Len())
}

// Peaks returns the waveform computed during Load.
func (e *BeepEngine) Peaks() []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]float64(nil), e.peaks...)
}

// On registers h for events of kind.
func (e *BeepEngine) On(kind EventKind, h Handler) func() {
	return e.on(kind, h)
}

// Destroy stops playback, drops the stream from the output and closes it.
// It is safe to call while Load is still running and more than once.
func (e *BeepEngine) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	e.destroyed = true
	e.playing = false
	e.stopTickerLocked()
	if e.ctrl != nil {
		e.out.lock()
		e.ctrl.Paused = true
		e.ctrl.Streamer = nil
		e.out.unlock()
		e.ctrl = nil
	}
	if e.streamer != nil {
		e.streamer.Close()
		e.streamer = nil
	}
	e.emitter.reset()
}

func (e *BeepEngine) isDestroyed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.destroyed
}

func (e *BeepEngine) position() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.streamer == nil {
		return 0
	}
	e.out.lock()
	pos := e.streamer.Position()
	e.out.unlock()
	return e.format.SampleRate.D(pos)
}

// startTickerLocked emits audioprocess at the configured interval while
// playing.
func (e *BeepEngine) startTickerLocked() {
	if e.stopTick != nil {
		return
	}
	stop := make(chan struct{})
	e.stopTick = stop
	go func() {
		t := time.NewTicker(e.opts.TickInterval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				e.emit(Event{Kind: EventAudioProcess, Time: e.position().Seconds()})
			}
		}
	}()
}

func (e *BeepEngine) stopTickerLocked() {
	if e.stopTick != nil {
		close(e.stopTick)
		e.stopTick = nil
	}
}
