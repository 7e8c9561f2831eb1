package track

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	osdRedis "github.com/lostact/osdlyrics/internal/redis"
	"github.com/lostact/osdlyrics/pkg/metadata"
	"github.com/redis/go-redis/v9"
)

const nowPlayingKeyPrefix = "osdlyrics:nowplaying:"

// nowPlayingCache keeps the latest metadata of each player.
type nowPlayingCache interface {
	// Get returns nil without an error when nothing is playing.
	Get(ctx context.Context, player string) (*metadata.Metadata, error)
	Set(ctx context.Context, player string, m *metadata.Metadata) error
}

type redisCache struct{}

func nowPlayingKey(player string) string {
	return nowPlayingKeyPrefix + player
}

// encodeNowPlaying stores m as a track document rather than the seven line
// text so absent fields stay absent.
func encodeNowPlaying(player string, m *metadata.Metadata) (string, error) {
	d := newTrackDocument(player, m, time.Time{})
	d.PlayedAt = nil

	b, err := json.Marshal(d)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

func decodeNowPlaying(value string) (*metadata.Metadata, error) {
	var d trackDocument

	err := json.Unmarshal([]byte(value), &d)
	if err != nil {
		return nil, err
	}

	return d.Metadata(), nil
}

func (c *redisCache) Get(ctx context.Context, player string) (*metadata.Metadata, error) {
	client, err := osdRedis.GetClient()
	if err != nil {
		return nil, err
	}

	value, err := client.Get(ctx, nowPlayingKey(player)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	m, err := decodeNowPlaying(value)
	if err != nil {
		return nil, fmt.Errorf("cached metadata for player %s: %w", player, err)
	}

	return m, nil
}

func (c *redisCache) Set(ctx context.Context, player string, m *metadata.Metadata) error {
	client, err := osdRedis.GetClient()
	if err != nil {
		return err
	}

	value, err := encodeNowPlaying(player, m)
	if err != nil {
		return err
	}

	return client.Set(ctx, nowPlayingKey(player), value, 0).Err()
}

func newNowPlayingCache(ctx context.Context) (nowPlayingCache, error) {
	return &redisCache{}, nil
}
