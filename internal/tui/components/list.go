package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/samber/lo"

	"github.com/tessro/mixtape/internal/core"
	"github.com/tessro/mixtape/internal/tui/styles"
)

// MixList is a scrollable, filterable list of mixes. Indexes it reports
// always refer to the unfiltered track slice.
type MixList struct {
	tracks  []core.Track
	visible []int
	filter  string
	cursor  int
	offset  int
}

// NewMixList creates an empty list.
func NewMixList() *MixList {
	return &MixList{}
}

// SetTracks replaces the list contents, keeping the filter.
func (l *MixList) SetTracks(tracks []core.Track) {
	l.tracks = tracks
	l.apply()
}

// Tracks returns the unfiltered contents.
func (l *MixList) Tracks() []core.Track {
	return l.tracks
}

// SetFilter narrows the visible rows to mixes whose title, artist or genre
// contains q, ignoring case.
func (l *MixList) SetFilter(q string) {
	l.filter = q
	l.apply()
}

// Filter returns the active filter.
func (l *MixList) Filter() string {
	return l.filter
}

func (l *MixList) apply() {
	q := strings.ToLower(strings.TrimSpace(l.filter))
	idx := lo.Range(len(l.tracks))
	if q != "" {
		idx = lo.Filter(idx, func(i int, _ int) bool {
			t := l.tracks[i]
			return strings.Contains(strings.ToLower(t.Title), q) ||
				strings.Contains(strings.ToLower(t.Artist), q) ||
				strings.Contains(strings.ToLower(t.Genre), q)
		})
	}
	l.visible = idx
	if l.cursor >= len(l.visible) {
		l.cursor = len(l.visible) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

// Len returns the number of visible rows.
func (l *MixList) Len() int {
	return len(l.visible)
}

// Down moves the cursor down one row.
func (l *MixList) Down() {
	if l.cursor < len(l.visible)-1 {
		l.cursor++
	}
}

// Up moves the cursor up one row.
func (l *MixList) Up() {
	if l.cursor > 0 {
		l.cursor--
	}
}

// Selected returns the playlist index under the cursor, or -1.
func (l *MixList) Selected() int {
	if len(l.visible) == 0 {
		return -1
	}
	return l.visible[l.cursor]
}

// SelectedTrack returns the mix under the cursor.
func (l *MixList) SelectedTrack() (core.Track, bool) {
	i := l.Selected()
	if i < 0 {
		return core.Track{}, false
	}
	return l.tracks[i], true
}

// Render renders the list in a panel. currentID marks the loaded mix.
func (l *MixList) Render(title, empty string, width, height int, focused bool, currentID string) string {
	heading := styles.PanelTitle(title, focused)
	if l.filter != "" {
		heading += styles.Dim.Render(fmt.Sprintf(" filter: %q (%d)", l.filter, len(l.visible)))
	}

	var content string
	if len(l.visible) == 0 {
		content = styles.Muted.Render(empty)
	} else {
		content = l.renderRows(width-4, height-4, focused, currentID)
	}

	return styles.Panel(focused).
		Width(width).
		Height(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, heading, "", content))
}

func (l *MixList) renderRows(width, maxLines int, focused bool, currentID string) string {
	visibleCount := maxLines - 1 // Leave room for "more" indicator
	if visibleCount < 1 {
		visibleCount = 1
	}

	// Keep the cursor on screen.
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+visibleCount {
		l.offset = l.cursor - visibleCount + 1
	}

	start := l.offset
	end := start + visibleCount
	if end > len(l.visible) {
		end = len(l.visible)
	}

	lines := make([]string, 0, end-start+1)

	// "XX. " (4) + "▶ " (2) + " — " (3) + stats column
	const overhead = 9
	for row := start; row < end; row++ {
		i := l.visible[row]
		t := l.tracks[i]

		num := fmt.Sprintf("%2d.", i+1)
		stats := fmt.Sprintf("%s ▶  %s ♥", humanize.Comma(t.PlayCount), humanize.Comma(t.LikeCount))

		available := width - overhead - lipgloss.Width(stats) - 1
		artistSpace := available / 3
		if artistSpace < 8 {
			artistSpace = 8
		}
		name := Truncate(t.Title, available-artistSpace)
		artist := Truncate(t.DisplayArtist(), available-lipgloss.Width(name))

		marker := " "
		if t.ID == currentID {
			marker = "▶"
		}
		info := fmt.Sprintf("%s %s %s — %s", num, marker, name, artist)
		pad := width - lipgloss.Width(info) - lipgloss.Width(stats)
		if pad < 1 {
			pad = 1
		}

		var line string
		switch {
		case focused && row == l.cursor:
			line = styles.Highlight.Render(info)
		case t.ID == currentID:
			line = styles.Playing.Render(info)
		default:
			line = info
		}
		lines = append(lines, line+strings.Repeat(" ", pad)+styles.Dim.Render(stats))
	}

	if end < len(l.visible) {
		lines = append(lines, styles.Dim.Render(fmt.Sprintf("    ... and %d more", len(l.visible)-end)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
