package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/tessro/mixtape/internal/engine"
	"github.com/tessro/mixtape/internal/tail"
)

var (
	tailNoEmoji   bool
	tailTimestamp bool
	tailFormat    string
)

// eventJSON is one line of 'play --json' output.
type eventJSON struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Origin    string    `json:"origin"`
	Playing   bool      `json:"playing"`
	Position  float64   `json:"position"`
	Shuffle   bool      `json:"shuffle"`
	Mix       *mixJSON  `json:"mix,omitempty"`
}

func toEventJSON(e tail.Event) eventJSON {
	out := eventJSON{
		Type:      e.Type.String(),
		Timestamp: e.Timestamp,
		Origin:    e.Origin.String(),
		Playing:   e.Current.IsPlaying,
		Position:  e.Current.CurrentTime,
		Shuffle:   e.Current.ShuffleEnabled,
	}
	if t := e.Current.CurrentTrack; t != nil {
		out.Mix = &mixJSON{Track: *t, Link: mixLink(*t)}
	}
	return out
}

func newFormatter() *tail.Formatter {
	return tail.NewFormatter(
		tail.WithEmoji(!tailNoEmoji),
		tail.WithTimestamp(tailTimestamp),
		tail.WithTemplate(tailFormat),
	)
}

// followEvents prints watcher events until the queue runs out, ctx ends or
// the engine reports a load failure on loadErr.
func followEvents(ctx context.Context, out io.Writer, w *tail.Watcher, loadErr <-chan error, f *tail.Formatter) error {
	for {
		select {
		case event, ok := <-w.Events():
			if !ok {
				return nil
			}
			if JSONOutput() {
				if err := writeJSONLine(out, toEventJSON(event)); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(out, f.Format(event))
			}
			if event.Type == tail.EventQueueEnd {
				return nil
			}

		case err := <-loadErr:
			return fmt.Errorf("could not load mix: %w", err)

		case <-ctx.Done():
			return nil
		}
	}
}

// loadErrors forwards engine load failures for the current source.
func loadErrors() (func(engine.Status), <-chan error) {
	ch := make(chan error, 1)
	return func(st engine.Status) {
		if st.Err == nil {
			return
		}
		select {
		case ch <- st.Err:
		default:
		}
	}, ch
}
