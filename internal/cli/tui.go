package cli

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tessro/mixtape/internal/browser"
	"github.com/tessro/mixtape/internal/engine"
	"github.com/tessro/mixtape/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"tui"},
	Short:   "Open the player dashboard",
	Long: `Open the full-screen player. Browse the feed and your profile, build a
queue by starting a mix from any list, and control playback from the
keyboard or your media keys.

Press ? inside the dashboard for the key bindings.`,
	Args: cobra.NoArgs,
	RunE: runUI,
}

func init() {
	rootCmd.AddCommand(uiCmd)
}

func runUI(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	app := tui.NewApp(sess.store, sess.catalog, sess.adapter, tui.Options{
		User:      cfg.Catalog.User,
		FeedLimit: cfg.Player.FeedLimit,
		SeekStep:  float64(cfg.Player.SeekStep),
		SiteURL:   cfg.TUI.SiteURL,
		Theme:     cfg.TUI.Theme,

		FrameInterval: time.Duration(cfg.TUI.RefreshInterval) * time.Millisecond,
	}, log)
	app.OpenURL = browser.Open
	app.CopyText = clipboard.WriteAll

	sess.start(func(engine.Status) { app.Refresh() })

	log.Info("dashboard started", zap.Bool("audio", engine.AudioAvailable), zap.Bool("media_keys", sess.bridge.Enabled()))
	start := time.Now()
	err = tui.Run(cmd.Context(), app)
	log.Info("dashboard closed", zap.Duration("uptime", time.Since(start)))
	return err
}
