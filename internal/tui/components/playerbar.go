package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/mixtape/internal/core"
	"github.com/tessro/mixtape/internal/engine"
	"github.com/tessro/mixtape/internal/tui/styles"
)

// PlayerBar is the persistent transport strip shown under every view.
type PlayerBar struct {
	Spinner spinner.Model
}

// NewPlayerBar creates a new PlayerBar component
func NewPlayerBar() *PlayerBar {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = styles.Highlight
	return &PlayerBar{Spinner: sp}
}

// Render draws the bar for st. It returns "" when nothing is loaded.
func (p *PlayerBar) Render(st *core.State, status engine.Status, width int) string {
	if !st.HasTrack() {
		return ""
	}
	inner := width - 4
	if inner < 20 {
		inner = 20
	}

	return styles.Panel(false).Width(width - 2).Render(lipgloss.JoinVertical(lipgloss.Left,
		p.renderInfo(st, inner),
		p.renderTransport(st, status, inner),
	))
}

func (p *PlayerBar) renderInfo(st *core.State, width int) string {
	t := st.CurrentTrack

	var flags []string
	if st.ShuffleEnabled {
		flags = append(flags, styles.Highlight.Render("🔀 shuffle"))
	}
	if n := len(st.Playlist); n > 1 {
		flags = append(flags, styles.Dim.Render(fmt.Sprintf("%d/%d", st.CurrentIndex+1, n)))
	}
	right := strings.Join(flags, "  ")

	meta := t.DisplayArtist()
	if t.Genre != "" {
		meta += " · " + t.Genre
	}

	avail := width - lipgloss.Width(right) - 4
	title := Truncate(t.Title, avail*2/3)
	meta = Truncate(meta, avail-lipgloss.Width(title))

	left := fmt.Sprintf("%s %s  %s", styles.StatusIcon(st.IsPlaying), styles.Title.Render(title), styles.Subtitle.Render(meta))
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (p *PlayerBar) renderTransport(st *core.State, status engine.Status, width int) string {
	controls := strings.Join([]string{
		styles.Control("⏮", core.CanPrevious(st)),
		styles.Control(playGlyph(st.IsPlaying), true),
		styles.Control("⏭", core.CanNext(st)),
	}, " ")

	duration := status.Duration
	if duration <= 0 {
		duration = st.CurrentTrack.Duration
	}
	elapsed := FormatDuration(seconds(st.CurrentTime))
	total := FormatDuration(duration)

	barWidth := width - lipgloss.Width(controls) - len(elapsed) - len(total) - 4
	if barWidth < 10 {
		barWidth = 10
	}

	var bar string
	switch {
	case status.Err != nil:
		bar = styles.ErrorText.Render(Truncate("Could not load mix: "+status.Err.Error(), barWidth))
	case status.Loading:
		bar = fmt.Sprintf("%s %s", p.Spinner.View(), styles.Muted.Render(fmt.Sprintf("Loading %d%%", status.Progress)))
		bar = lipgloss.NewStyle().Width(barWidth).Render(bar)
	case len(status.Peaks) > 0:
		bar = styles.Waveform(engine.Resample(status.Peaks, barWidth), percent(st.CurrentTime, duration.Seconds()))
	default:
		bar = styles.ProgressBar(percent(st.CurrentTime, duration.Seconds()), barWidth)
	}

	return fmt.Sprintf("%s  %s %s %s", controls, styles.Dim.Render(elapsed), bar, styles.Dim.Render(total))
}

func playGlyph(playing bool) string {
	if playing {
		return "⏸"
	}
	return "▶"
}

func percent(pos, total float64) float64 {
	if total <= 0 {
		return 0
	}
	p := pos / total * 100
	if p > 100 {
		return 100
	}
	return p
}
