//go:build linux

package media

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
	"go.uber.org/zap"
)

const (
	busName     = "org.mpris.MediaPlayer2.mixtape"
	objectPath  = dbus.ObjectPath("/org/mpris/MediaPlayer2")
	rootIface   = "org.mpris.MediaPlayer2"
	playerIface = "org.mpris.MediaPlayer2.Player"
)

// MPRIS exposes the player on the session bus as an MPRIS2 media player.
type MPRIS struct {
	conn  *dbus.Conn
	props *prop.Properties
	log   *zap.Logger

	mu       sync.Mutex
	controls Controls
	trackID  string
}

// Open registers the player on the D-Bus session bus. It returns an error
// wrapping ErrUnsupported when there is no session bus or the name is taken.
func Open(log *zap.Logger) (Surface, error) {
	if log == nil {
		log = zap.NewNop()
	}
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}

	reply, err := conn.RequestName(busName, dbus.NameFlagDoNotQueue)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		conn.Close()
		return nil, fmt.Errorf("%w: %s already owned", ErrUnsupported, busName)
	}

	m := &MPRIS{conn: conn, log: log.Named("mpris")}
	if err := m.export(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	return m, nil
}

func (m *MPRIS) export() error {
	root := mprisRoot{}
	player := mprisPlayer{m: m}

	if err := m.conn.Export(root, objectPath, rootIface); err != nil {
		return err
	}
	if err := m.conn.Export(player, objectPath, playerIface); err != nil {
		return err
	}

	props, err := prop.Export(m.conn, objectPath, prop.Map{
		rootIface: {
			"CanQuit":             {Value: false, Emit: prop.EmitConst},
			"CanRaise":            {Value: false, Emit: prop.EmitConst},
			"HasTrackList":        {Value: false, Emit: prop.EmitConst},
			"Identity":            {Value: "mixtape", Emit: prop.EmitConst},
			"SupportedUriSchemes": {Value: []string{}, Emit: prop.EmitConst},
			"SupportedMimeTypes":  {Value: []string{}, Emit: prop.EmitConst},
		},
		playerIface: {
			"PlaybackStatus": {Value: StatusStopped.String(), Emit: prop.EmitTrue},
			"LoopStatus":     {Value: "None", Emit: prop.EmitConst},
			"Rate":           {Value: 1.0, Emit: prop.EmitConst},
			"Shuffle":        {Value: false, Emit: prop.EmitTrue},
			"Metadata":       {Value: metadataMap(Metadata{}), Emit: prop.EmitTrue},
			"Volume":         {Value: 1.0, Emit: prop.EmitConst},
			"Position":       {Value: int64(0), Emit: prop.EmitFalse},
			"MinimumRate":    {Value: 1.0, Emit: prop.EmitConst},
			"MaximumRate":    {Value: 1.0, Emit: prop.EmitConst},
			"CanGoNext":      {Value: false, Emit: prop.EmitTrue},
			"CanGoPrevious":  {Value: false, Emit: prop.EmitTrue},
			"CanPlay":        {Value: true, Emit: prop.EmitConst},
			"CanPause":       {Value: true, Emit: prop.EmitConst},
			"CanSeek":        {Value: true, Emit: prop.EmitConst},
			"CanControl":     {Value: true, Emit: prop.EmitConst},
		},
	})
	if err != nil {
		return err
	}
	m.props = props

	node := &introspect.Node{
		Name: string(objectPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{Name: rootIface, Methods: introspect.Methods(root), Properties: props.Introspection(rootIface)},
			{Name: playerIface, Methods: introspect.Methods(player), Properties: props.Introspection(playerIface)},
		},
	}
	return m.conn.Export(introspect.NewIntrospectable(node), objectPath, "org.freedesktop.DBus.Introspectable")
}

func (m *MPRIS) SetMetadata(md Metadata) error {
	m.mu.Lock()
	m.trackID = md.TrackID
	m.mu.Unlock()
	return m.set("Metadata", metadataMap(md))
}

func (m *MPRIS) SetPlaybackStatus(s PlaybackStatus) error {
	return m.set("PlaybackStatus", s.String())
}

func (m *MPRIS) SetNavigation(nav Navigation) error {
	if err := m.set("CanGoNext", nav.CanNext); err != nil {
		return err
	}
	if err := m.set("CanGoPrevious", nav.CanPrevious); err != nil {
		return err
	}
	return m.set("Shuffle", nav.Shuffle)
}

// set updates a read-only player property and emits the change. The bus
// side Set rejects read-only properties, so this goes through SetMust, which
// panics when the change signal cannot be sent.
func (m *MPRIS) set(name string, v any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mpris: set %s: %v", name, r)
		}
	}()
	m.props.SetMust(playerIface, name, v)
	return nil
}

func (m *MPRIS) SetPosition(seconds float64) {
	m.props.SetMust(playerIface, "Position", micros(seconds))
}

func (m *MPRIS) SetControls(c Controls) {
	m.mu.Lock()
	m.controls = c
	m.mu.Unlock()
}

func (m *MPRIS) Close() error {
	_, _ = m.conn.ReleaseName(busName)
	return m.conn.Close()
}

func (m *MPRIS) with(fn func(Controls)) *dbus.Error {
	m.mu.Lock()
	c := m.controls
	m.mu.Unlock()
	if c != nil {
		fn(c)
	}
	return nil
}

// mprisRoot implements org.mpris.MediaPlayer2.
type mprisRoot struct{}

func (mprisRoot) Raise() *dbus.Error { return nil }
func (mprisRoot) Quit() *dbus.Error  { return nil }

// mprisPlayer implements org.mpris.MediaPlayer2.Player. Offsets and
// positions arrive in microseconds.
type mprisPlayer struct {
	m *MPRIS
}

func (p mprisPlayer) Next() *dbus.Error      { return p.m.with(Controls.Next) }
func (p mprisPlayer) Previous() *dbus.Error  { return p.m.with(Controls.Previous) }
func (p mprisPlayer) Pause() *dbus.Error     { return p.m.with(Controls.Pause) }
func (p mprisPlayer) PlayPause() *dbus.Error { return p.m.with(Controls.PlayPause) }
func (p mprisPlayer) Stop() *dbus.Error      { return p.m.with(Controls.Stop) }
func (p mprisPlayer) Play() *dbus.Error      { return p.m.with(Controls.Play) }

func (p mprisPlayer) Seek(offset int64) *dbus.Error {
	return p.m.with(func(c Controls) {
		seekRelative(c, float64(offset)/1e6)
	})
}

func (p mprisPlayer) SetPosition(track dbus.ObjectPath, position int64) *dbus.Error {
	p.m.mu.Lock()
	current := trackPath(p.m.trackID)
	p.m.mu.Unlock()
	// Stale requests for a previous track are ignored.
	if track != current || position < 0 {
		return nil
	}
	return p.m.with(func(c Controls) {
		c.SeekTo(float64(position) / 1e6)
	})
}

func (p mprisPlayer) OpenUri(string) *dbus.Error {
	return dbus.MakeFailedError(fmt.Errorf("OpenUri not supported"))
}
