package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/tessro/mixtape/internal/core"
	"github.com/tessro/mixtape/internal/tui"
	"github.com/tessro/mixtape/internal/tui/components"
)

// NewTable returns a table writer with the house style, sized to the
// terminal when out is one.
func NewTable(out io.Writer, headers ...interface{}) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	if f, ok := out.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			t.SetAllowedRowLength(w)
		}
	}
	if len(headers) > 0 {
		t.AppendHeader(table.Row(headers))
	}
	return t
}

// PrintJSON writes v as indented JSON.
func PrintJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeJSONLine writes v as one line of JSON.
func writeJSONLine(out io.Writer, v interface{}) error {
	return json.NewEncoder(out).Encode(v)
}

// TruncateString shortens s to maxLen display columns, adding "..." if
// truncated.
func TruncateString(s string, maxLen int) string {
	if runewidth.StringWidth(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return runewidth.Truncate(s, maxLen, "")
	}
	return runewidth.Truncate(s, maxLen, "...")
}

// renderMixes prints tracks as a numbered table.
func renderMixes(out io.Writer, tracks []core.Track) {
	t := NewTable(out, "#", "ID", "Title", "Artist", "Genre", "Length", "Plays", "Likes")
	for i := range tracks {
		tr := &tracks[i]
		length := "-"
		if tr.Duration > 0 {
			length = components.FormatDuration(tr.Duration)
		}
		t.AppendRow(table.Row{
			i + 1,
			tr.ID,
			TruncateString(tr.Title, 40),
			TruncateString(tr.Artist, 24),
			tr.Genre,
			length,
			humanize.Comma(tr.PlayCount),
			humanize.Comma(tr.LikeCount),
		})
	}
	t.Render()
}

// mixJSON is a mix as printed by --json, with its page link.
type mixJSON struct {
	core.Track
	Link string `json:"link,omitempty"`
}

func mixesJSON(tracks []core.Track) []mixJSON {
	out := make([]mixJSON, len(tracks))
	for i, t := range tracks {
		out[i] = mixJSON{Track: t, Link: mixLink(t)}
	}
	return out
}

// mixLink is the page link for t under tui.site_url.
func mixLink(t core.Track) string {
	var site string
	if cfg != nil {
		site = cfg.TUI.SiteURL
	}
	return tui.MixLink(site, t)
}
