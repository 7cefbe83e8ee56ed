package core

// ActionType identifies a playback state transition.
type ActionType int

const (
	ActionPlayTrack ActionType = iota
	ActionSetPlaylist
	ActionTogglePlay
	ActionSetPlaying
	ActionStop
	ActionSeek
	ActionClearSeek
	ActionUpdateTime
	ActionNextTrack
	ActionPreviousTrack
	ActionToggleShuffle
	ActionTrackEnded
)

var actionNames = map[ActionType]string{
	ActionPlayTrack:     "PLAY_TRACK",
	ActionSetPlaylist:   "SET_PLAYLIST",
	ActionTogglePlay:    "TOGGLE_PLAY",
	ActionSetPlaying:    "SET_PLAYING",
	ActionStop:          "STOP",
	ActionSeek:          "SEEK",
	ActionClearSeek:     "CLEAR_SEEK",
	ActionUpdateTime:    "UPDATE_TIME",
	ActionNextTrack:     "NEXT_TRACK",
	ActionPreviousTrack: "PREVIOUS_TRACK",
	ActionToggleShuffle: "TOGGLE_SHUFFLE",
	ActionTrackEnded:    "TRACK_ENDED",
}

func (t ActionType) String() string {
	if name, ok := actionNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Origin tags where an action came from.
type Origin int

const (
	OriginUser Origin = iota
	OriginEngine
	OriginMedia
)

func (o Origin) String() string {
	switch o {
	case OriginEngine:
		return "engine"
	case OriginMedia:
		return "media"
	default:
		return "user"
	}
}

// Action is a request to transition the playback state.
// Only the fields relevant to Type are read by the reducer.
type Action struct {
	Type    ActionType
	Origin  Origin
	Track   Track
	Tracks  []Track
	Index   int
	Seconds float64
	Playing bool
}

// From returns a copy of the action tagged with the given origin.
func (a Action) From(origin Origin) Action {
	a.Origin = origin
	return a
}

// PlayTrack plays a single track, keeping the playlist if it contains it.
func PlayTrack(t Track) Action {
	return Action{Type: ActionPlayTrack, Track: t}
}

// SetPlaylist replaces the playlist and starts playing at index.
func SetPlaylist(tracks []Track, index int) Action {
	return Action{Type: ActionSetPlaylist, Tracks: tracks, Index: index}
}

// TogglePlay flips the play/pause flag.
func TogglePlay() Action {
	return Action{Type: ActionTogglePlay}
}

// SetPlaying sets the play flag to an explicit value.
func SetPlaying(playing bool) Action {
	return Action{Type: ActionSetPlaying, Playing: playing}
}

// Stop pauses playback.
func Stop() Action {
	return Action{Type: ActionStop}
}

// Seek requests a jump to the given position in seconds.
func Seek(seconds float64) Action {
	return Action{Type: ActionSeek, Seconds: seconds}
}

// ClearSeek drops any pending seek request.
func ClearSeek() Action {
	return Action{Type: ActionClearSeek}
}

// UpdateTime records the current playback position in seconds.
func UpdateTime(seconds float64) Action {
	return Action{Type: ActionUpdateTime, Seconds: seconds}
}

// NextTrack advances the playlist.
func NextTrack() Action {
	return Action{Type: ActionNextTrack}
}

// PreviousTrack moves the playlist back.
func PreviousTrack() Action {
	return Action{Type: ActionPreviousTrack}
}

// ToggleShuffle flips shuffle mode.
func ToggleShuffle() Action {
	return Action{Type: ActionToggleShuffle}
}

// TrackEnded reports that the current track played to its end.
func TrackEnded() Action {
	return Action{Type: ActionTrackEnded}
}
