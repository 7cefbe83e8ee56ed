package media

import (
	"sync"

	"github.com/gen2brain/beeep"
	"go.uber.org/zap"

	"github.com/tessro/mixtape/internal/core"
)

// Notifier pops a desktop notification each time a new mix starts playing.
type Notifier struct {
	store  Store
	log    *zap.Logger
	notify func(title, body string) error

	mu     sync.Mutex
	unsub  func()
	closed bool
	wg     sync.WaitGroup
}

// NewNotifier creates a notifier backed by the desktop notification service.
func NewNotifier(s Store, log *zap.Logger) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{
		store: s,
		log:   log.Named("notify"),
		notify: func(title, body string) error {
			return beeep.Notify(title, body, "")
		},
	}
}

// Start begins following the store.
func (n *Notifier) Start() {
	unsub := n.store.Subscribe(n.onState)
	n.mu.Lock()
	n.unsub = unsub
	n.mu.Unlock()
}

// Close stops following the store and waits for pending notifications.
// Transitions still being delivered by an in-flight dispatch are ignored.
func (n *Notifier) Close() {
	n.mu.Lock()
	n.closed = true
	unsub := n.unsub
	n.unsub = nil
	n.mu.Unlock()
	if unsub != nil {
		unsub()
	}
	n.wg.Wait()
}

func (n *Notifier) onState(prev, next core.State, _ core.Action) {
	if !next.HasTrack() || !next.IsPlaying || !trackChanged(&prev, &next) {
		return
	}
	title, body := notification(next.CurrentTrack)

	// Delivery can block on the session bus; keep it off the dispatch path.
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.notify(title, body); err != nil {
			n.log.Debug("notification failed", zap.Error(err))
		}
	}()
}

func notification(t *core.Track) (title, body string) {
	body = t.DisplayArtist()
	if t.Genre != "" {
		body += " · " + t.Genre
	}
	return t.Title, body
}
