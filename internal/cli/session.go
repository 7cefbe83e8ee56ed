package cli

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/tessro/mixtape/internal/catalog"
	"github.com/tessro/mixtape/internal/core"
	"github.com/tessro/mixtape/internal/engine"
	mixerrors "github.com/tessro/mixtape/internal/errors"
	"github.com/tessro/mixtape/internal/media"
	"github.com/tessro/mixtape/internal/store"
)

// session is one running player: the store and everything bound to it.
type session struct {
	store    *store.Store
	catalog  catalog.Source
	adapter  *engine.Adapter
	bridge   *media.Bridge
	notifier *media.Notifier

	closeCatalog func() error
}

// openSession connects the catalog and builds the player around a fresh
// store. Nothing is attached to the store until start.
func openSession(ctx context.Context) (*session, error) {
	src, closeCatalog, err := openCatalog(ctx)
	if err != nil {
		return nil, err
	}

	st := store.New(core.NewState(time.Now().UnixNano()), log)
	if cfg.Player.Shuffle {
		st.Dispatch(core.ToggleShuffle())
	}

	s := &session{
		store:        st,
		catalog:      src,
		closeCatalog: closeCatalog,
		adapter: engine.NewAdapter(st, engine.NewBeep(nil), engine.Options{
			Bars:         cfg.Player.WaveformBars,
			TickInterval: time.Duration(cfg.Player.TickInterval) * time.Millisecond,
		}, log),
	}
	if !engine.AudioAvailable {
		log.Warn("playing silently", zap.Error(mixerrors.ErrAudioUnavailable))
	}

	var surface media.Surface
	if cfg.Media.Enabled {
		surface, err = media.Open(log)
		if err != nil {
			log.Info("media keys unavailable", zap.Error(err))
			surface = nil
		}
	}
	s.bridge = media.NewBridge(st, surface, log)
	if cfg.Media.Notify {
		s.notifier = media.NewNotifier(st, log)
	}
	return s, nil
}

func openCatalog(ctx context.Context) (catalog.Source, func() error, error) {
	src, closeFn, err := catalog.Open(ctx, cfg, log)
	if err != nil {
		return nil, nil, mixerrors.WithSuggestion(
			errors.Join(mixerrors.ErrCatalogUnavailable, err),
			"Check catalog.driver and its url or dsn in your config")
	}
	return src, closeFn, nil
}

// start attaches the engine, the media bridge and the notifier to the
// store. onStatus, if set, observes engine status changes.
func (s *session) start(onStatus func(engine.Status)) {
	if onStatus != nil {
		s.adapter.OnStatus(onStatus)
	}
	s.adapter.Start()
	s.bridge.Start()
	if s.notifier != nil {
		s.notifier.Start()
	}
}

// Close detaches everything from the store and releases connections.
func (s *session) Close() error {
	s.adapter.Close()
	if s.notifier != nil {
		s.notifier.Close()
	}
	return errors.Join(s.bridge.Close(), s.closeCatalog())
}
