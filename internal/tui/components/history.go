package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/tessro/mixtape/internal/core"
	"github.com/tessro/mixtape/internal/tui/styles"
)

// MaxHistory bounds the session history.
const MaxHistory = 50

// HistoryEntry represents a mix played this session.
type HistoryEntry struct {
	Track    core.Track
	PlayedAt time.Time
	Skipped  bool
}

// History displays mixes played this session, newest first.
type History struct {
	entries []HistoryEntry
}

// NewHistory creates a new History component
func NewHistory() *History {
	return &History{}
}

// Add records t as started at now.
func (h *History) Add(t core.Track, now time.Time) {
	h.entries = append([]HistoryEntry{{Track: t, PlayedAt: now}}, h.entries...)
	if len(h.entries) > MaxHistory {
		h.entries = h.entries[:MaxHistory]
	}
}

// MarkSkipped flags the newest entry as left before it finished.
func (h *History) MarkSkipped() {
	if len(h.entries) > 0 {
		h.entries[0].Skipped = true
	}
}

// Entries returns the recorded entries.
func (h *History) Entries() []HistoryEntry {
	return h.entries
}

// Render renders the history panel
func (h *History) Render(width, height int, focused bool) string {
	title := styles.PanelTitle("History", focused)

	var content string
	if len(h.entries) == 0 {
		content = styles.Muted.Render("No history yet")
	} else {
		content = h.renderHistory(width-4, height-4)
	}

	return styles.Panel(focused).
		Width(width).
		Height(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", content))
}

func (h *History) renderHistory(width, maxLines int) string {
	lines := make([]string, 0, maxLines)

	for i, entry := range h.entries {
		if i >= maxLines {
			break
		}

		ago := humanize.Time(entry.PlayedAt)
		icon := "✓"
		if entry.Skipped {
			icon = "⏭"
		}
		if i == 0 && !entry.Skipped {
			icon = "♪"
		}

		available := width - 2 - lipgloss.Width(ago) - 1
		info := Truncate(fmt.Sprintf("%s — %s", entry.Track.Title, entry.Track.DisplayArtist()), available)

		pad := width - 2 - lipgloss.Width(info) - lipgloss.Width(ago)
		if pad < 1 {
			pad = 1
		}
		lines = append(lines, fmt.Sprintf("%s %s%s%s",
			styles.Dim.Render(icon), info, strings.Repeat(" ", pad), styles.Dim.Render(ago)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
