// Package wizard holds the interactive prompts used when a command is run
// without the arguments it needs.
package wizard

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/tessro/mixtape/internal/core"
)

// ErrCancelled is returned when the user aborts a prompt.
var ErrCancelled = errors.New("selection cancelled")

// Interactive provides interactive fallback functionality.
type Interactive struct {
	enabled bool
}

// NewInteractive creates a new interactive handler.
func NewInteractive() *Interactive {
	return &Interactive{
		enabled: true,
	}
}

// SetEnabled enables or disables interactive mode.
func (i *Interactive) SetEnabled(enabled bool) {
	i.enabled = enabled
}

// IsTerminal returns true if stdin and stdout are both terminals.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// CanInteract returns true if interactive mode is available.
func (i *Interactive) CanInteract() bool {
	return i.enabled && IsTerminal()
}

// PromptMix shows a filterable picker over tracks and returns the chosen
// index. It returns -1 without prompting when interaction is unavailable.
func (i *Interactive) PromptMix(title string, tracks []core.Track) (int, error) {
	if !i.CanInteract() || len(tracks) == 0 {
		return -1, nil
	}

	selected := -1
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title(title).
				Description("Type / to filter, enter to play").
				Options(MixOptions(tracks)...).
				Height(15).
				Value(&selected),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return -1, ErrCancelled
		}
		return -1, fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	return selected, nil
}

// Confirm asks a yes/no question. It returns def when not interactive.
func (i *Interactive) Confirm(title string, def bool) (bool, error) {
	if !i.CanInteract() {
		return def, nil
	}
	answer := def
	err := huh.NewConfirm().Title(title).Value(&answer).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return def, ErrCancelled
	}
	return answer, err
}

// MixOptions builds picker options whose values are playlist indexes.
func MixOptions(tracks []core.Track) []huh.Option[int] {
	options := make([]huh.Option[int], 0, len(tracks))
	for i := range tracks {
		options = append(options, huh.NewOption(MixLabel(&tracks[i]), i))
	}
	return options
}

// MixLabel renders one picker row.
func MixLabel(t *core.Track) string {
	label := fmt.Sprintf("%s — %s", t.Title, t.DisplayArtist())
	if t.Genre != "" {
		label += fmt.Sprintf(" [%s]", t.Genre)
	}
	if t.PlayCount > 0 {
		label += fmt.Sprintf(" (%s plays)", humanize.Comma(t.PlayCount))
	}
	return label
}

// NeedsMix returns true if a mix argument is required but missing.
func NeedsMix(args []string) bool {
	return len(args) == 0
}
