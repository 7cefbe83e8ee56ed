package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tessro/mixtape/internal/catalog"
	"github.com/tessro/mixtape/internal/core"
	mixerrors "github.com/tessro/mixtape/internal/errors"
	"github.com/tessro/mixtape/internal/tail"
	"github.com/tessro/mixtape/internal/wizard"
)

var (
	playShuffle  bool
	playLiked    bool
	playUploaded bool
	playLimit    int
)

var playCmd = &cobra.Command{
	Use:   "play [mix-id]",
	Short: "Play mixes and follow playback",
	Long: `Play a list of mixes in the terminal and print what happens as it
plays. The list is the public feed unless --uploaded or --liked picks a
profile's mixes.

Without a mix ID you pick the starting mix from the list; when not attached
to a terminal playback starts at the top. A mix ID that is not in the list
is played on its own.

Media keys and the OS now-playing widget control playback while it runs.

Examples:
  mixtape play                     # Pick a mix from the feed
  mixtape play 8f2c1                # Start at a specific mix
  mixtape play --liked --shuffle    # Shuffle your liked mixes
  mixtape play --format '{{.Artist}}: {{.Title}}'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVarP(&playShuffle, "shuffle", "s", false, "enable shuffle")
	playCmd.Flags().BoolVar(&playLiked, "liked", false, "play the profile's liked mixes")
	playCmd.Flags().BoolVar(&playUploaded, "uploaded", false, "play the profile's uploaded mixes")
	playCmd.Flags().IntVarP(&playLimit, "limit", "n", 0, "number of feed mixes to queue (default: player.feed_limit)")
	playCmd.Flags().BoolVar(&tailNoEmoji, "no-emoji", false, "disable emoji output")
	playCmd.Flags().BoolVarP(&tailTimestamp, "timestamp", "t", false, "show timestamps")
	playCmd.Flags().StringVarP(&tailFormat, "format", "f", "", "custom format template")
	playCmd.MarkFlagsMutuallyExclusive("liked", "uploaded")

	rootCmd.AddCommand(playCmd)
}

// listKind selects which catalog list play queues.
type listKind int

const (
	listFeed listKind = iota
	listUploaded
	listLiked
)

func loadList(ctx context.Context, src catalog.Source, kind listKind, user string, limit int) ([]core.Track, error) {
	switch kind {
	case listUploaded, listLiked:
		if user == "" {
			return nil, mixerrors.ErrNoUser
		}
		if kind == listLiked {
			return src.Liked(ctx, user)
		}
		return src.Uploaded(ctx, user)
	default:
		return src.Feed(ctx, limit)
	}
}

// pickFunc asks for a starting index; -1 means no choice was made.
type pickFunc func(title string, tracks []core.Track) (int, error)

// resolveStart returns the playlist and the index to start at. An id that
// is not in list is looked up on its own and played as a one-mix playlist.
func resolveStart(ctx context.Context, src catalog.Source, list []core.Track, id string, pick pickFunc) ([]core.Track, int, error) {
	if id != "" {
		for i := range list {
			if list[i].ID == id {
				return list, i, nil
			}
		}
		t, err := src.Mix(ctx, id)
		if err != nil {
			return nil, -1, err
		}
		if t == nil {
			return nil, -1, fmt.Errorf("%w: %s", mixerrors.ErrTrackNotFound, id)
		}
		return []core.Track{*t}, 0, nil
	}

	if len(list) == 0 {
		return nil, -1, mixerrors.ErrEmptyFeed
	}
	i, err := pick("Start with which mix?", list)
	if err != nil {
		return nil, -1, err
	}
	if i < 0 || i >= len(list) {
		i = 0
	}
	return list, i, nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	kind := listFeed
	switch {
	case playLiked:
		kind = listLiked
	case playUploaded:
		kind = listUploaded
	}
	limit := playLimit
	if limit <= 0 {
		limit = cfg.Player.FeedLimit
	}
	var id string
	if !wizard.NeedsMix(args) {
		id = args[0]
	}

	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	list, err := loadList(ctx, sess.catalog, kind, cfg.Catalog.User, limit)
	if err != nil && (id == "" || errors.Is(err, mixerrors.ErrNoUser)) {
		return err
	}

	interactive := wizard.NewInteractive()
	interactive.SetEnabled(!JSONOutput())
	list, index, err := resolveStart(ctx, sess.catalog, list, id, interactive.PromptMix)
	if err != nil {
		return err
	}

	onStatus, loadErr := loadErrors()
	sess.start(onStatus)

	sess.store.Dispatch(core.SetPlaylist(list, index))
	if playShuffle && !sess.store.State().ShuffleEnabled {
		sess.store.Dispatch(core.ToggleShuffle())
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	watcher := tail.NewWatcher(sess.store)
	go func() { _ = watcher.Start(ctx) }()

	return followEvents(ctx, cmd.OutOrStdout(), watcher, loadErr, newFormatter())
}
