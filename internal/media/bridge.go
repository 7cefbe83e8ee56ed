package media

import (
	"math"

	"go.uber.org/zap"

	"github.com/tessro/mixtape/internal/core"
	"github.com/tessro/mixtape/internal/store"
)

// Store is the part of the playback store the bridge needs.
type Store interface {
	State() core.State
	Dispatch(core.Action)
	Subscribe(store.Listener) (unsubscribe func())
}

// Bridge mirrors the playback store onto a Surface and turns the surface's
// commands into actions. A Bridge with a nil Surface does nothing.
type Bridge struct {
	store   Store
	surface Surface
	log     *zap.Logger
	unsub   func()
	closed  bool
}

// NewBridge creates a bridge. surface may be nil when the host has no
// media session.
func NewBridge(s Store, surface Surface, log *zap.Logger) *Bridge {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bridge{store: s, surface: surface, log: log.Named("media")}
}

// Enabled reports whether the bridge has a surface to drive.
func (b *Bridge) Enabled() bool {
	return b.surface != nil
}

// Start publishes the current state and begins following the store.
func (b *Bridge) Start() {
	if b.surface == nil {
		return
	}
	b.surface.SetControls(b)

	st := b.store.State()
	b.publishTrack(&st)
	b.publishStatus(&st)
	b.publishNavigation(navigationFor(&st))
	b.unsub = b.store.Subscribe(b.onState)
}

// Close stops following the store and releases the surface.
func (b *Bridge) Close() error {
	if b.surface == nil || b.closed {
		return nil
	}
	b.closed = true
	if b.unsub != nil {
		b.unsub()
		b.unsub = nil
	}
	return b.surface.Close()
}

func (b *Bridge) onState(prev, next core.State, _ core.Action) {
	if trackChanged(&prev, &next) {
		b.publishTrack(&next)
	}
	if prev.IsPlaying != next.IsPlaying || prev.HasTrack() != next.HasTrack() {
		b.publishStatus(&next)
	}
	if nav := navigationFor(&next); nav != navigationFor(&prev) {
		b.publishNavigation(nav)
	}
	if prev.CurrentTime != next.CurrentTime {
		b.surface.SetPosition(next.CurrentTime)
	}
}

func (b *Bridge) publishTrack(st *core.State) {
	md := Metadata{}
	if st.HasTrack() {
		md = metadataFor(st.CurrentTrack)
	}
	if err := b.surface.SetMetadata(md); err != nil {
		b.log.Warn("publish metadata", zap.Error(err))
	}
}

func (b *Bridge) publishStatus(st *core.State) {
	if err := b.surface.SetPlaybackStatus(statusFor(st)); err != nil {
		b.log.Warn("publish status", zap.Error(err))
	}
}

func (b *Bridge) publishNavigation(nav Navigation) {
	if err := b.surface.SetNavigation(nav); err != nil {
		b.log.Warn("publish navigation", zap.Error(err))
	}
}

func trackChanged(prev, next *core.State) bool {
	if prev.HasTrack() != next.HasTrack() {
		return true
	}
	if !next.HasTrack() {
		return false
	}
	return prev.CurrentTrack.ID != next.CurrentTrack.ID ||
		prev.CurrentTrack.AudioURL != next.CurrentTrack.AudioURL
}

func metadataFor(t *core.Track) Metadata {
	return Metadata{
		TrackID: t.ID,
		Title:   t.Title,
		Artist:  t.Artist,
		Album:   t.Genre,
		ArtURL:  t.CoverURL,
		Length:  t.Duration,
	}
}

func statusFor(st *core.State) PlaybackStatus {
	switch {
	case !st.HasTrack():
		return StatusStopped
	case st.IsPlaying:
		return StatusPlaying
	default:
		return StatusPaused
	}
}

// navigationFor follows the same enablement rule as the player bar.
func navigationFor(st *core.State) Navigation {
	return Navigation{
		CanNext:     core.CanNext(st),
		CanPrevious: core.CanPrevious(st),
		Shuffle:     st.ShuffleEnabled,
	}
}

func (b *Bridge) dispatch(a core.Action) {
	b.log.Debug("command", zap.Stringer("action", a.Type))
	b.store.Dispatch(a.From(core.OriginMedia))
}

func (b *Bridge) Play()      { b.dispatch(core.SetPlaying(true)) }
func (b *Bridge) Pause()     { b.dispatch(core.SetPlaying(false)) }
func (b *Bridge) PlayPause() { b.dispatch(core.TogglePlay()) }
func (b *Bridge) Stop()      { b.dispatch(core.Stop()) }
func (b *Bridge) Next()      { b.dispatch(core.NextTrack()) }
func (b *Bridge) Previous()  { b.dispatch(core.PreviousTrack()) }

func (b *Bridge) SeekTo(seconds float64) {
	b.dispatch(core.Seek(b.clamp(seconds)))
}

func (b *Bridge) SeekForward(offset float64) {
	b.dispatch(core.Seek(b.clamp(b.store.State().CurrentTime + seekOffset(offset))))
}

func (b *Bridge) SeekBackward(offset float64) {
	b.dispatch(core.Seek(b.clamp(b.store.State().CurrentTime - seekOffset(offset))))
}

func seekOffset(offset float64) float64 {
	if offset <= 0 || math.IsNaN(offset) {
		return DefaultSeekOffset
	}
	return offset
}

// clamp bounds a seek target to the track, when its length is known.
func (b *Bridge) clamp(seconds float64) float64 {
	if seconds < 0 || math.IsNaN(seconds) {
		return 0
	}
	st := b.store.State()
	if st.HasTrack() && st.CurrentTrack.Duration > 0 {
		if max := st.CurrentTrack.Duration.Seconds(); seconds > max {
			return max
		}
	}
	return seconds
}
