package track

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/egfanboy/mediapire-common/exceptions"
	"github.com/lostact/osdlyrics/pkg/metadata"
	"github.com/lostact/osdlyrics/pkg/types"
)

type memoryRepo struct {
	docs    []*trackDocument
	saveErr error
}

func (r *memoryRepo) Save(ctx context.Context, d *trackDocument) error {
	if r.saveErr != nil {
		return r.saveErr
	}

	r.docs = append(r.docs, d)
	return nil
}

func (r *memoryRepo) GetAll(ctx context.Context, player *string) ([]*trackDocument, error) {
	result := make([]*trackDocument, 0)
	for i := len(r.docs) - 1; i >= 0; i-- {
		if player == nil || r.docs[i].Player == *player {
			result = append(result, r.docs[i])
		}
	}

	return result, nil
}

// memoryCache stores the same encoding as the redis cache.
type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
}

func (c *memoryCache) Get(ctx context.Context, player string) (*metadata.Metadata, error) {
	c.mu.Lock()
	value, ok := c.data[player]
	c.mu.Unlock()

	if !ok {
		return nil, nil
	}

	return decodeNowPlaying(value)
}

func (c *memoryCache) Set(ctx context.Context, player string, m *metadata.Metadata) error {
	value, err := encodeNowPlaying(player, m)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.data[player] = value
	c.mu.Unlock()

	return nil
}

type noEnrich struct{}

func (noEnrich) Enrich(ctx context.Context, m *metadata.Metadata) {}

type enrichFunc func(ctx context.Context, m *metadata.Metadata)

func (f enrichFunc) Enrich(ctx context.Context, m *metadata.Metadata) { f(ctx, m) }

type published struct {
	routingKey string
	body       interface{}
}

func newTestService() (*service, *memoryRepo, *memoryCache, *[]published) {
	repo := &memoryRepo{}
	cache := &memoryCache{data: map[string]string{}}
	var messages []published

	s := &service{
		repo:     repo,
		cache:    cache,
		enricher: noEnrich{},
		publish: func(ctx context.Context, routingKey string, messageBody interface{}) error {
			messages = append(messages, published{routingKey: routingKey, body: messageBody})
			return nil
		},
		now:   func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) },
		locks: newPlayerLocks(),
	}

	return s, repo, cache, &messages
}

func TestHandleTrackChanged(t *testing.T) {
	s, repo, cache, messages := newTestService()

	in := metadata.New()
	in.SetTitle("01. Artist - Song")
	in.SetArtist("Unknown")
	in.SetDuration(1000)

	got, err := s.HandleTrackChanged(context.Background(), "vlc", in)
	if err != nil {
		t.Fatalf("HandleTrackChanged() error = %v", err)
	}

	if title, _ := got.Title(); title != "Song" {
		t.Errorf("title = %q, want Song", title)
	}

	if artist, _ := got.Artist(); artist != "Artist" {
		t.Errorf("artist = %q, want Artist", artist)
	}

	// the caller's value is left alone
	if title, _ := in.Title(); title != "01. Artist - Song" {
		t.Errorf("input title changed to %q", title)
	}

	cached, err := cache.Get(context.Background(), "vlc")
	if err != nil || !metadata.Equal(cached, got) {
		t.Errorf("cache = %v, %v; want %q", cached, err, got.String())
	}

	if len(repo.docs) != 1 || repo.docs[0].Player != "vlc" {
		t.Fatalf("history = %+v", repo.docs)
	}

	if len(*messages) != 1 {
		t.Fatalf("published %d messages, want 1", len(*messages))
	}

	msg := (*messages)[0]
	if msg.routingKey != types.TopicTrackUpdated {
		t.Errorf("routing key = %s", msg.routingKey)
	}

	if body, ok := msg.body.(types.TrackChangedMessage); !ok || body.Player != "vlc" || body.Metadata != got.String() {
		t.Errorf("body = %+v", msg.body)
	}
}

func TestHandleTrackChangedUnchanged(t *testing.T) {
	s, repo, _, messages := newTestService()

	m := metadata.New()
	m.SetTitle("Song")
	m.SetArtist("Artist")

	for i := 0; i < 3; i++ {
		if _, err := s.HandleTrackChanged(context.Background(), "vlc", m); err != nil {
			t.Fatal(err)
		}
	}

	if len(repo.docs) != 1 || len(*messages) != 1 {
		t.Errorf("history = %d, messages = %d; want 1 each", len(repo.docs), len(*messages))
	}

	// other players are tracked separately
	if _, err := s.HandleTrackChanged(context.Background(), "mpd", m); err != nil {
		t.Fatal(err)
	}

	if len(repo.docs) != 2 {
		t.Errorf("history = %d, want 2", len(repo.docs))
	}
}

func TestHandleTrackChangedSaveError(t *testing.T) {
	s, repo, _, messages := newTestService()
	repo.saveErr = errors.New("mongo down")

	_, err := s.HandleTrackChanged(context.Background(), "vlc", metadata.New())
	if !errors.Is(err, repo.saveErr) {
		t.Errorf("error = %v, want %v", err, repo.saveErr)
	}

	if len(*messages) != 0 {
		t.Error("published an update although saving failed")
	}
}

func TestHandleTrackChangedPublishError(t *testing.T) {
	s, _, _, _ := newTestService()
	s.publish = func(ctx context.Context, routingKey string, messageBody interface{}) error {
		return errors.New("rabbit down")
	}

	if _, err := s.HandleTrackChanged(context.Background(), "vlc", metadata.New()); err != nil {
		t.Errorf("publish failures should not fail the update, got %v", err)
	}
}

func TestGetCurrentTrack(t *testing.T) {
	s, _, _, _ := newTestService()

	_, err := s.GetCurrentTrack(context.Background(), "vlc")

	var apiErr *exceptions.ApiException
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 404 {
		t.Fatalf("error = %v, want a 404", err)
	}

	m := metadata.New()
	m.SetTitle("Song")
	if _, err := s.HandleTrackChanged(context.Background(), "vlc", m); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetCurrentTrack(context.Background(), "vlc")
	if err != nil {
		t.Fatal(err)
	}

	if title, _ := got.Title(); title != "Song" {
		t.Errorf("title = %q", title)
	}
}

func TestGetHistory(t *testing.T) {
	s, _, _, _ := newTestService()

	for _, title := range []string{"First", "Second"} {
		m := metadata.New()
		m.SetTitle(title)
		if _, err := s.HandleTrackChanged(context.Background(), "vlc", m); err != nil {
			t.Fatal(err)
		}
	}

	items, err := s.GetHistory(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	if items[0].Title == nil || *items[0].Title != "Second" {
		t.Errorf("newest item = %+v", items[0])
	}

	if items[0].Artist != nil {
		t.Errorf("absent artist exported as %q", *items[0].Artist)
	}

	if items[0].PlayedAt == nil || !items[0].PlayedAt.Equal(s.now()) {
		t.Errorf("played at = %v", items[0].PlayedAt)
	}

	other := "mpd"
	items, err = s.GetHistory(context.Background(), &other)
	if err != nil || len(items) != 0 {
		t.Errorf("mpd history = %v, %v", items, err)
	}
}

func TestHandleTrackChangedSanitizesBeforeEnrich(t *testing.T) {
	s, _, _, _ := newTestService()

	var seenTitle, seenArtist string
	s.enricher = enrichFunc(func(ctx context.Context, m *metadata.Metadata) {
		seenTitle, _ = m.Title()
		seenArtist, _ = m.Artist()
		if _, ok := m.Album(); !ok {
			m.SetAlbum("From Tags")
		}
	})

	in := metadata.New()
	in.SetTitle("Artist - Song")

	got, err := s.HandleTrackChanged(context.Background(), "vlc", in)
	if err != nil {
		t.Fatal(err)
	}

	if seenTitle != "Song" || seenArtist != "Artist" {
		t.Errorf("enricher saw %q/%q, want Song/Artist", seenTitle, seenArtist)
	}

	if album, _ := got.Album(); album != "From Tags" {
		t.Errorf("album = %q, want From Tags", album)
	}
}

func TestHandleTrackChangedKeepsAbsentFields(t *testing.T) {
	s, _, _, _ := newTestService()

	m := metadata.New()
	m.SetTitle("Song")
	if _, err := s.HandleTrackChanged(context.Background(), "vlc", m); err != nil {
		t.Fatal(err)
	}

	current, err := s.GetCurrentTrack(context.Background(), "vlc")
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := current.Artist(); ok {
		t.Error("absent artist came back from the cache as present")
	}

	props := current.ToMap()
	for _, key := range []string{metadata.PropArtist, metadata.PropAlbum, metadata.PropLocation, metadata.PropArtURL} {
		if _, ok := props[key]; ok {
			t.Errorf("absent field exported under %s", key)
		}
	}

	if props[metadata.PropTitle] != "Song" {
		t.Errorf("title = %v, want Song", props[metadata.PropTitle])
	}
}

func TestHandleTrackChangedSerializesPerPlayer(t *testing.T) {
	s, repo, cache, messages := newTestService()

	entered := make(chan struct{})
	release := make(chan struct{})
	s.enricher = enrichFunc(func(ctx context.Context, m *metadata.Metadata) {
		if title, _ := m.Title(); title == "Older" {
			close(entered)
			<-release
		}
	})

	older := metadata.New()
	older.SetTitle("Older")
	newer := metadata.New()
	newer.SetTitle("Newer")

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		if _, err := s.HandleTrackChanged(context.Background(), "vlc", older); err != nil {
			t.Error(err)
		}
	}()

	<-entered

	newerDone := make(chan struct{})
	go func() {
		defer wg.Done()
		defer close(newerDone)
		if _, err := s.HandleTrackChanged(context.Background(), "vlc", newer); err != nil {
			t.Error(err)
		}
	}()

	select {
	case <-newerDone:
		t.Error("newer update finished while the older one was still in progress")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	wg.Wait()

	current, err := cache.Get(context.Background(), "vlc")
	if err != nil {
		t.Fatal(err)
	}

	if title, _ := current.Title(); title != "Newer" {
		t.Errorf("now playing = %q, want Newer", title)
	}

	if len(repo.docs) != 2 || *repo.docs[1].Title != "Newer" {
		t.Errorf("history = %+v", repo.docs)
	}

	last := (*messages)[len(*messages)-1].body.(types.TrackChangedMessage)
	if last.Metadata != current.String() {
		t.Errorf("last update = %q, want %q", last.Metadata, current.String())
	}
}
