package track

import (
	"testing"
	"time"

	"github.com/lostact/osdlyrics/pkg/metadata"
)

func TestTrackDocumentRoundTrip(t *testing.T) {
	m := metadata.New()
	m.SetTitle("Song")
	m.SetAlbum("")
	m.SetTrackNumber(4)
	m.SetURI("file:///song.mp3")
	m.SetDuration(1234)

	d := newTrackDocument("vlc", m, time.Now())

	if d.Artist != nil {
		t.Errorf("absent artist stored as %q", *d.Artist)
	}

	if d.Album == nil || *d.Album != "" {
		t.Errorf("empty album stored as %v", d.Album)
	}

	if got := d.Metadata(); !metadata.Equal(got, m) {
		t.Errorf("Metadata() = %q, want %q", got.String(), m.String())
	}
}

func TestToApiResponses(t *testing.T) {
	m := metadata.New()
	m.SetTitle("Song")
	m.SetArtist("Artist")
	m.SetTrackNumber(2)
	m.SetDuration(5000)

	playedAt := time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)

	items, err := toApiResponses([]*trackDocument{newTrackDocument("mpd", m, playedAt)})
	if err != nil || len(items) != 1 {
		t.Fatalf("toApiResponses() = %v, %v", items, err)
	}

	item := items[0]

	if item.Player != "mpd" || item.TrackNumber != 2 || item.Duration != 5000 {
		t.Errorf("item = %+v", item)
	}

	if item.Title == nil || *item.Title != "Song" || item.Artist == nil || *item.Artist != "Artist" {
		t.Errorf("title/artist = %v/%v", item.Title, item.Artist)
	}

	if item.Album != nil || item.Uri != nil || item.Art != nil {
		t.Errorf("absent fields exported: %+v", item)
	}

	if item.PlayedAt == nil || !item.PlayedAt.Equal(playedAt) {
		t.Errorf("played at = %v", item.PlayedAt)
	}

	direct := toTrackItem("mpd", m)
	if direct.PlayedAt != nil || *direct.Title != "Song" || direct.Album != nil {
		t.Errorf("toTrackItem() = %+v", direct)
	}
}
