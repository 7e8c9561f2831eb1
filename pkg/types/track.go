package types

import "time"

const (
	TopicTrackChanged = "track.changed"
	TopicTrackUpdated = "track.updated"
)

type TrackItem struct {
	Player string  `json:"player"`
	Title  *string `json:"title"`
	Artist *string `json:"artist"`
	Album  *string `json:"album"`
	// -1 when unknown
	TrackNumber int     `json:"trackNumber"`
	Uri         *string `json:"uri"`
	Art         *string `json:"art"`
	// milliseconds
	Duration uint64     `json:"duration"`
	PlayedAt *time.Time `json:"playedAt,omitempty"`
}

// TrackChangedMessage is exchanged on TopicTrackChanged and TopicTrackUpdated.
type TrackChangedMessage struct {
	Player string `json:"player"`
	// seven line metadata text
	Metadata string `json:"metadata"`
}
