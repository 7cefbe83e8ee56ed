package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	Primary   lipgloss.TerminalColor = lipgloss.AdaptiveColor{Light: "#6D28D9", Dark: "#A78BFA"}
	Secondary lipgloss.TerminalColor = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}
	Warning   lipgloss.TerminalColor = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#F59E0B"}
	Error     lipgloss.TerminalColor = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#EF4444"}

	Border    lipgloss.TerminalColor = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#4B5563"}
	Text      lipgloss.TerminalColor = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#F9FAFB"}
	TextMuted lipgloss.TerminalColor = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#9CA3AF"}
	TextDim   lipgloss.TerminalColor = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"}
)

// Text styles
var (
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Label     lipgloss.Style
	Highlight lipgloss.Style
	Muted     lipgloss.Style
	Dim       lipgloss.Style
	Playing   lipgloss.Style
	Paused    lipgloss.Style
	ErrorText lipgloss.Style
)

// Border styles
var (
	BorderStyle   lipgloss.Style
	FocusedBorder lipgloss.Style
)

func init() {
	build()
}

// SetTheme pins colors to the light or dark palette. "auto" keeps the
// adaptive colors, which follow the terminal background.
func SetTheme(theme string) {
	pick := func(c lipgloss.TerminalColor) lipgloss.TerminalColor {
		ac, ok := c.(lipgloss.AdaptiveColor)
		if !ok {
			return c
		}
		switch theme {
		case "light":
			return lipgloss.Color(ac.Light)
		case "dark":
			return lipgloss.Color(ac.Dark)
		}
		return ac
	}
	Primary, Secondary = pick(Primary), pick(Secondary)
	Warning, Error = pick(Warning), pick(Error)
	Border, Text = pick(Border), pick(Text)
	TextMuted, TextDim = pick(TextMuted), pick(TextDim)
	build()
}

func build() {
	Title = lipgloss.NewStyle().Bold(true).Foreground(Text)
	Subtitle = lipgloss.NewStyle().Foreground(TextMuted)
	Label = lipgloss.NewStyle().Foreground(TextDim)
	Highlight = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	Muted = lipgloss.NewStyle().Foreground(TextMuted)
	Dim = lipgloss.NewStyle().Foreground(TextDim)
	Playing = lipgloss.NewStyle().Foreground(Secondary)
	Paused = lipgloss.NewStyle().Foreground(Warning)
	ErrorText = lipgloss.NewStyle().Foreground(Error)

	BorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border)
	FocusedBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary)
}

// Panel creates a styled panel with optional focus
func Panel(focused bool) lipgloss.Style {
	if focused {
		return FocusedBorder.Padding(0, 1)
	}
	return BorderStyle.Padding(0, 1)
}

// PanelTitle creates a styled panel title
func PanelTitle(title string, focused bool) string {
	style := Label
	if focused {
		style = Highlight
	}
	return style.Render(" " + title + " ")
}

// ProgressBar creates a progress bar string
func ProgressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	filledStyle := lipgloss.NewStyle().Foreground(Primary)
	emptyStyle := lipgloss.NewStyle().Foreground(Border)

	return filledStyle.Render(strings.Repeat("━", filled)) +
		emptyStyle.Render(strings.Repeat("─", width-filled))
}

var blocks = []rune(" ▁▂▃▄▅▆▇█")

// Waveform draws one block glyph per peak. Bars left of the playhead use the
// primary color.
func Waveform(peaks []float64, percent float64) string {
	if len(peaks) == 0 {
		return ""
	}
	played := int(percent / 100 * float64(len(peaks)))

	var done, rest strings.Builder
	for i, p := range peaks {
		level := int(p * float64(len(blocks)-1))
		if level < 1 {
			level = 1
		}
		if level >= len(blocks) {
			level = len(blocks) - 1
		}
		if i < played {
			done.WriteRune(blocks[level])
		} else {
			rest.WriteRune(blocks[level])
		}
	}
	return lipgloss.NewStyle().Foreground(Primary).Render(done.String()) +
		lipgloss.NewStyle().Foreground(Border).Render(rest.String())
}

// StatusIcon returns an icon for playback status
func StatusIcon(playing bool) string {
	if playing {
		return Playing.Render("▶")
	}
	return Paused.Render("⏸")
}

// Control renders a transport glyph, dimmed when it cannot be used.
func Control(glyph string, enabled bool) string {
	if enabled {
		return Title.Render(glyph)
	}
	return Dim.Render(glyph)
}
