package cli

import (
	"fmt"
	"io"

	"github.com/atotto/clipboard"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tessro/mixtape/internal/browser"
	"github.com/tessro/mixtape/internal/core"
	"github.com/tessro/mixtape/internal/tui/components"
)

var (
	mixOpen bool
	mixCopy bool
)

var mixCmd = &cobra.Command{
	Use:   "mix <mix-id>",
	Short: "Show details of one mix",
	Long: `Show the details of a single mix.

Examples:
  mixtape mix 8f2c1
  mixtape mix 8f2c1 --copy    # Copy the mix link to the clipboard
  mixtape mix 8f2c1 --open    # Open the mix page in a browser`,
	Args: cobra.ExactArgs(1),
	RunE: runMix,
}

func init() {
	mixCmd.Flags().BoolVar(&mixOpen, "open", false, "open the mix page in a browser")
	mixCmd.Flags().BoolVar(&mixCopy, "copy", false, "copy the mix link to the clipboard")
	rootCmd.AddCommand(mixCmd)
}

func runMix(cmd *cobra.Command, args []string) error {
	src, closeCatalog, err := openCatalog(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = closeCatalog() }()

	t, err := src.Mix(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	link := mixLink(*t)

	if mixCopy {
		if err := clipboard.WriteAll(link); err != nil {
			return fmt.Errorf("copy link: %w", err)
		}
	}
	if mixOpen {
		if err := browser.Open(link); err != nil {
			return fmt.Errorf("open link: %w", err)
		}
	}

	if JSONOutput() {
		return PrintJSON(cmd.OutOrStdout(), mixJSON{Track: *t, Link: link})
	}
	printMix(cmd.OutOrStdout(), t, link)
	if mixCopy {
		fmt.Fprintln(cmd.OutOrStdout(), "\nLink copied to clipboard")
	}
	return nil
}

func printMix(w io.Writer, t *core.Track, link string) {
	fmt.Fprintf(w, "%s\n", t.Title)
	fmt.Fprintf(w, "  Artist:   %s\n", t.DisplayArtist())
	if t.Genre != "" {
		fmt.Fprintf(w, "  Genre:    %s\n", t.Genre)
	}
	if t.Duration > 0 {
		fmt.Fprintf(w, "  Length:   %s\n", components.FormatDuration(t.Duration))
	}
	fmt.Fprintf(w, "  Plays:    %s\n", humanize.Comma(t.PlayCount))
	fmt.Fprintf(w, "  Likes:    %s\n", humanize.Comma(t.LikeCount))
	if t.UploadedBy != "" {
		fmt.Fprintf(w, "  Uploader: %s\n", t.UploadedBy)
	}
	if !t.CreatedAt.IsZero() {
		fmt.Fprintf(w, "  Uploaded: %s\n", humanize.Time(t.CreatedAt))
	}
	fmt.Fprintf(w, "  Link:     %s\n", link)
	if Verbose() {
		fmt.Fprintf(w, "  ID:       %s\n", t.ID)
		fmt.Fprintf(w, "  Audio:    %s\n", t.AudioURL)
	}
}
