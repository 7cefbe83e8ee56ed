package tail

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tessro/mixtape/internal/core"
)

// Formatter formats events for output.
type Formatter struct {
	showEmoji     bool
	showTimestamp bool
	template      *template.Template
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji enables emoji output.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showEmoji = enabled
	}
}

// WithTimestamp enables timestamp output.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showTimestamp = enabled
	}
}

// WithTemplate sets a custom format template. An invalid template is
// ignored.
func WithTemplate(tmpl string) FormatterOption {
	return func(f *Formatter) {
		if tmpl != "" {
			t, err := template.New("format").Parse(tmpl)
			if err == nil {
				f.template = t
			}
		}
	}
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		showEmoji: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format formats an event as a string.
func (f *Formatter) Format(e Event) string {
	if f.template != nil {
		return f.formatTemplate(e)
	}
	return f.formatLine(e)
}

func (f *Formatter) formatLine(e Event) string {
	var parts []string

	if f.showTimestamp {
		parts = append(parts, e.Timestamp.Format("15:04:05"))
	}
	if f.showEmoji {
		parts = append(parts, eventEmoji(e.Type))
	}
	parts = append(parts, f.eventDescription(e))
	if e.Origin == core.OriginMedia {
		parts = append(parts, "(media key)")
	}

	return strings.Join(parts, " ")
}

func (f *Formatter) formatTemplate(e Event) string {
	data := templateData{
		Type:      eventTypeName(e.Type),
		Emoji:     eventEmoji(e.Type),
		Origin:    e.Origin.String(),
		Timestamp: e.Timestamp,
		Time:      e.Timestamp.Format("15:04:05"),
		Position:  FormatSeconds(e.Current.CurrentTime),
		Shuffle:   e.Current.ShuffleEnabled,
	}

	if t := e.Current.CurrentTrack; t != nil {
		data.Title = t.Title
		data.Artist = t.DisplayArtist()
		data.Genre = t.Genre
		data.Plays = humanize.Comma(t.PlayCount)
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		return f.formatLine(e)
	}
	return buf.String()
}

type templateData struct {
	Type      string
	Emoji     string
	Origin    string
	Timestamp time.Time
	Time      string
	Title     string
	Artist    string
	Genre     string
	Plays     string
	Position  string
	Shuffle   bool
}

func describe(t *core.Track) string {
	return fmt.Sprintf("%s - %s", t.DisplayArtist(), t.Title)
}

// eventDescription returns a human-readable description of the event.
func (f *Formatter) eventDescription(e Event) string {
	switch e.Type {
	case EventTrackChange:
		if t := e.Current.CurrentTrack; t != nil {
			return "Now playing: " + describe(t)
		}
		return "Track changed"

	case EventTrackComplete:
		if t := e.Previous.CurrentTrack; t != nil {
			return "Finished: " + describe(t)
		}
		return "Track completed"

	case EventTrackSkip:
		if t := e.Previous.CurrentTrack; t != nil {
			return fmt.Sprintf("Skipped: %s at %s", describe(t), FormatSeconds(e.Previous.CurrentTime))
		}
		return "Track skipped"

	case EventPause:
		return "Paused at " + FormatSeconds(e.Current.CurrentTime)

	case EventResume:
		return "Resumed"

	case EventSeek:
		if e.Current.PendingSeek != nil {
			return "Seek to " + FormatSeconds(*e.Current.PendingSeek)
		}
		return "Seek"

	case EventShuffleChange:
		if e.Current.ShuffleEnabled {
			return "Shuffle on"
		}
		return "Shuffle off"

	case EventQueueEnd:
		return "End of queue"

	default:
		return "Unknown event"
	}
}

// FormatSeconds renders a position as m:ss, or h:mm:ss past an hour.
func FormatSeconds(s float64) string {
	if s < 0 {
		s = 0
	}
	total := int(s)
	h, m, sec := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}

// eventEmoji returns an emoji for the event type.
func eventEmoji(t EventType) string {
	switch t {
	case EventTrackChange:
		return "🎵"
	case EventTrackComplete:
		return "✅"
	case EventTrackSkip:
		return "⏭️"
	case EventPause:
		return "⏸️"
	case EventResume:
		return "▶️"
	case EventSeek:
		return "⏩"
	case EventShuffleChange:
		return "🔀"
	case EventQueueEnd:
		return "⏹️"
	default:
		return "❓"
	}
}

// eventTypeName returns the name of the event type.
func eventTypeName(t EventType) string {
	switch t {
	case EventTrackChange:
		return "track_change"
	case EventTrackComplete:
		return "track_complete"
	case EventTrackSkip:
		return "track_skip"
	case EventPause:
		return "pause"
	case EventResume:
		return "resume"
	case EventSeek:
		return "seek"
	case EventShuffleChange:
		return "shuffle_change"
	case EventQueueEnd:
		return "queue_end"
	default:
		return "unknown"
	}
}

func (t EventType) String() string {
	return eventTypeName(t)
}
