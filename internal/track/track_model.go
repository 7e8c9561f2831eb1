package track

import (
	"time"

	"github.com/lostact/osdlyrics/internal/utils"
	"github.com/lostact/osdlyrics/pkg/metadata"
	"github.com/lostact/osdlyrics/pkg/types"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// trackDocument is a played track as stored in the history collection.
// Optional fields are pointers so an absent value survives persistence.
type trackDocument struct {
	Id          primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Player      string             `json:"player" bson:"player"`
	Title       *string            `json:"title" bson:"title"`
	Artist      *string            `json:"artist" bson:"artist"`
	Album       *string            `json:"album" bson:"album"`
	TrackNumber int                `json:"trackNumber" bson:"track_number"`
	Uri         *string            `json:"uri" bson:"uri"`
	Art         *string            `json:"art" bson:"art"`
	Duration    uint64             `json:"duration" bson:"duration"`
	PlayedAt    *time.Time         `json:"playedAt" bson:"played_at"`
}

func optional(value string, ok bool) *string {
	if !ok {
		return nil
	}

	return &value
}

func newTrackDocument(player string, m *metadata.Metadata, playedAt time.Time) *trackDocument {
	return &trackDocument{
		Id:          primitive.NewObjectID(),
		Player:      player,
		Title:       optional(m.Title()),
		Artist:      optional(m.Artist()),
		Album:       optional(m.Album()),
		TrackNumber: m.TrackNumber(),
		Uri:         optional(m.URI()),
		Art:         optional(m.Art()),
		Duration:    m.Duration(),
		PlayedAt:    &playedAt,
	}
}

func (d *trackDocument) Metadata() *metadata.Metadata {
	m := metadata.New()

	set := func(value *string, setter func(string)) {
		if value != nil {
			setter(*value)
		}
	}

	set(d.Title, m.SetTitle)
	set(d.Artist, m.SetArtist)
	set(d.Album, m.SetAlbum)
	m.SetTrackNumber(d.TrackNumber)
	set(d.Uri, m.SetURI)
	set(d.Art, m.SetArt)
	m.SetDuration(d.Duration)

	return m
}

func toApiResponses(docs []*trackDocument) ([]types.TrackItem, error) {
	return utils.ConvertSlice[*trackDocument, types.TrackItem](docs)
}

func toTrackItem(player string, m *metadata.Metadata) types.TrackItem {
	return types.TrackItem{
		Player:      player,
		Title:       optional(m.Title()),
		Artist:      optional(m.Artist()),
		Album:       optional(m.Album()),
		TrackNumber: m.TrackNumber(),
		Uri:         optional(m.URI()),
		Art:         optional(m.Art()),
		Duration:    m.Duration(),
	}
}
