package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	mixerrors "github.com/tessro/mixtape/internal/errors"
)

var feedLimit int

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "List the newest mixes",
	Long: `List the newest public mixes, newest first.

Examples:
  mixtape feed
  mixtape feed --limit 10
  mixtape feed --json | jq '.[].title'`,
	Args: cobra.NoArgs,
	RunE: runFeed,
}

func init() {
	feedCmd.Flags().IntVarP(&feedLimit, "limit", "n", 0, "number of mixes (default: player.feed_limit)")
	rootCmd.AddCommand(feedCmd)
}

func runFeed(cmd *cobra.Command, args []string) error {
	limit := feedLimit
	if limit <= 0 {
		limit = cfg.Player.FeedLimit
	}

	src, closeCatalog, err := openCatalog(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = closeCatalog() }()

	tracks, err := src.Feed(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("load feed: %w", err)
	}

	if JSONOutput() {
		return PrintJSON(cmd.OutOrStdout(), mixesJSON(tracks))
	}
	if len(tracks) == 0 {
		return mixerrors.ErrEmptyFeed
	}
	renderMixes(cmd.OutOrStdout(), tracks)
	return nil
}
