package track

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/egfanboy/mediapire-common/exceptions"
	"github.com/lostact/osdlyrics/internal/app"
	"github.com/lostact/osdlyrics/internal/probe"
	"github.com/lostact/osdlyrics/internal/rabbitmq"
	"github.com/lostact/osdlyrics/pkg/metadata"
	"github.com/lostact/osdlyrics/pkg/types"
	"github.com/rs/zerolog/log"
)

const DefaultPlayer = "default"

var errNoCurrentTrack = errors.New("nothing is playing")

type TrackApi interface {
	HandleTrackChanged(ctx context.Context, player string, m *metadata.Metadata) (*metadata.Metadata, error)
	GetCurrentTrack(ctx context.Context, player string) (*metadata.Metadata, error)
	GetHistory(ctx context.Context, player *string) ([]types.TrackItem, error)
}

type publishFunc func(ctx context.Context, routingKey string, messageBody interface{}) error

// playerLocks hands out one mutex per player.
type playerLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newPlayerLocks() *playerLocks {
	return &playerLocks{locks: map[string]*sync.Mutex{}}
}

func (l *playerLocks) lock(player string) func() {
	l.mu.Lock()
	m, ok := l.locks[player]
	if !ok {
		m = &sync.Mutex{}
		l.locks[player] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// shared by every service instance, consumers build a new one per message
var updateLocks = newPlayerLocks()

type service struct {
	repo     trackRepository
	cache    nowPlayingCache
	enricher probe.Enricher
	publish  publishFunc
	now      func() time.Time
	locks    *playerLocks
}

// HandleTrackChanged cleans up m and records it as the track now playing on
// player. The stored value is returned; m itself is not modified.
func (s *service) HandleTrackChanged(ctx context.Context, player string, m *metadata.Metadata) (*metadata.Metadata, error) {
	log.Info().Msgf("Start: Handle track changed for player %s", player)

	// updates of one player are applied in arrival order, enrichment included
	unlock := s.locks.lock(player)
	defer unlock()

	result := m.Dup()
	result.SanitizeTitleArtist()
	s.enricher.Enrich(ctx, result)

	current, err := s.cache.Get(ctx, player)
	if err != nil {
		log.Err(err).Msgf("Failed to get current track of player %s", player)
		return nil, err
	}

	if current != nil && current.Equal(result) {
		log.Debug().Msgf("Track of player %s did not change", player)
		return current, nil
	}

	err = s.cache.Set(ctx, player, result)
	if err != nil {
		log.Err(err).Msgf("Failed to cache current track of player %s", player)
		return nil, err
	}

	err = s.repo.Save(ctx, newTrackDocument(player, result, s.now()))
	if err != nil {
		log.Err(err).Msgf("Failed to save track history for player %s", player)
		return nil, err
	}

	err = s.publish(ctx, types.TopicTrackUpdated, types.TrackChangedMessage{Player: player, Metadata: result.String()})
	if err != nil {
		// history and cache are already updated, consumers will catch up on the next change
		log.Err(err).Msgf("Failed to publish track update for player %s", player)
	}

	log.Info().Msgf("End: Handle track changed for player %s", player)
	return result, nil
}

func (s *service) GetCurrentTrack(ctx context.Context, player string) (*metadata.Metadata, error) {
	log.Info().Msgf("Start: Get current track of player %s", player)

	result, err := s.cache.Get(ctx, player)
	if err != nil {
		return nil, err
	}

	if result == nil {
		return nil, &exceptions.ApiException{
			Err: fmt.Errorf("%w on player %s", errNoCurrentTrack, player), StatusCode: http.StatusNotFound,
		}
	}

	log.Info().Msgf("End: Get current track of player %s", player)
	return result, nil
}

func (s *service) GetHistory(ctx context.Context, player *string) ([]types.TrackItem, error) {
	log.Info().Msg("Start: Get track history")

	docs, err := s.repo.GetAll(ctx, player)
	if err != nil {
		log.Err(err).Msg("Failed to get track history")
		return nil, err
	}

	result, err := toApiResponses(docs)
	if err != nil {
		return nil, err
	}

	log.Info().Msg("End: Get track history")
	return result, nil
}

func NewTrackService(ctx context.Context) (TrackApi, error) {
	repo, err := newTrackRepository(ctx)
	if err != nil {
		return nil, err
	}

	cache, err := newNowPlayingCache(ctx)
	if err != nil {
		return nil, err
	}

	return &service{
		repo:     repo,
		cache:    cache,
		enricher: probe.NewEnricher(app.GetApp().Config.Probe),
		publish:  rabbitmq.PublishMessage,
		now:      time.Now,
		locks:    updateLocks,
	}, nil
}
