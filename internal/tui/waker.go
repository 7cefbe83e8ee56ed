package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// waker coalesces change notifications into syncMsg deliveries. Listeners
// run inside store dispatch, which may itself run inside Update, so they
// must never block on the program.
type waker struct {
	ch chan struct{}
}

func newWaker() *waker {
	return &waker{ch: make(chan struct{}, 1)}
}

func (w *waker) kick() {
	select {
	case w.ch <- struct{}{}:
	default:
	}
}

// pump delivers at most one syncMsg per interval until done is closed.
func (w *waker) pump(done <-chan struct{}, send func(tea.Msg), interval time.Duration) {
	for {
		select {
		case <-done:
			return
		case <-w.ch:
			send(syncMsg{})
		}
		if interval <= 0 {
			continue
		}
		select {
		case <-done:
			return
		case <-time.After(interval):
		}
	}
}
