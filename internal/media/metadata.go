package media

import (
	"strings"

	"github.com/godbus/dbus/v5"
)

const trackPathPrefix = "/org/mixtape/track/"

// trackPath maps a track ID onto a D-Bus object path. Object path elements
// may only hold [A-Za-z0-9_].
func trackPath(id string) dbus.ObjectPath {
	if id == "" {
		return dbus.ObjectPath("/org/mpris/MediaPlayer2/TrackList/NoTrack")
	}
	var b strings.Builder
	b.WriteString(trackPathPrefix)
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return dbus.ObjectPath(b.String())
}

// metadataMap converts Metadata into the xesam/mpris metadata dictionary.
func metadataMap(md Metadata) map[string]dbus.Variant {
	m := map[string]dbus.Variant{
		"mpris:trackid": dbus.MakeVariant(trackPath(md.TrackID)),
	}
	if md.TrackID == "" {
		return m
	}
	m["xesam:title"] = dbus.MakeVariant(md.Title)
	if md.Artist != "" {
		m["xesam:artist"] = dbus.MakeVariant([]string{md.Artist})
	}
	if md.Album != "" {
		m["xesam:album"] = dbus.MakeVariant(md.Album)
	}
	if md.ArtURL != "" {
		m["mpris:artUrl"] = dbus.MakeVariant(md.ArtURL)
	}
	if md.Length > 0 {
		m["mpris:length"] = dbus.MakeVariant(md.Length.Microseconds())
	}
	return m
}

func micros(seconds float64) int64 {
	return int64(seconds * 1e6)
}

// seekRelative routes a signed offset to SeekForward or SeekBackward. A zero
// offset is treated as a forward seek by the default step.
func seekRelative(c Controls, offset float64) {
	if offset < 0 {
		c.SeekBackward(-offset)
		return
	}
	c.SeekForward(offset)
}
