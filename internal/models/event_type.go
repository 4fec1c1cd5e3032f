// Package models defines data structures and domain types.
package models

// EventType is the closed set of user interactions that carry engagement weight.
type EventType int

const (
	// EventTypeUnknown is any event type outside the supported set.
	EventTypeUnknown EventType = iota
	// EventTypePlayTrack is a track play.
	EventTypePlayTrack
	// EventTypeLikeTrack is a track like.
	EventTypeLikeTrack
	// EventTypeAddTrackToPlaylist is a track added to a playlist.
	EventTypeAddTrackToPlaylist
	// EventTypeShareTrack is a track share.
	EventTypeShareTrack
)

// EventTypes lists every supported event type in declaration order.
var EventTypes = []EventType{
	EventTypePlayTrack,
	EventTypeLikeTrack,
	EventTypeAddTrackToPlaylist,
	EventTypeShareTrack,
}

// ParseEventType maps a stored event type name to its EventType.
func ParseEventType(name string) (EventType, bool) {
	switch name {
	case "play_track":
		return EventTypePlayTrack, true
	case "like_track":
		return EventTypeLikeTrack, true
	case "add_track_to_playlist":
		return EventTypeAddTrackToPlaylist, true
	case "share_track":
		return EventTypeShareTrack, true
	default:
		return EventTypeUnknown, false
	}
}

// String returns the stored name of the event type.
func (e EventType) String() string {
	switch e {
	case EventTypePlayTrack:
		return "play_track"
	case EventTypeLikeTrack:
		return "like_track"
	case EventTypeAddTrackToPlaylist:
		return "add_track_to_playlist"
	case EventTypeShareTrack:
		return "share_track"
	default:
		return "unknown"
	}
}

// Label returns the display name used in chart legends.
func (e EventType) Label() string {
	switch e {
	case EventTypePlayTrack:
		return "Play Track"
	case EventTypeLikeTrack:
		return "Like Track"
	case EventTypeAddTrackToPlaylist:
		return "Add to Playlist"
	case EventTypeShareTrack:
		return "Share Track"
	default:
		return "Unknown"
	}
}

// Valid reports whether e is one of the supported event types.
func (e EventType) Valid() bool {
	switch e {
	case EventTypePlayTrack, EventTypeLikeTrack, EventTypeAddTrackToPlaylist, EventTypeShareTrack:
		return true
	default:
		return false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (e EventType) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}
