package redis

import (
	"context"
	"errors"
	"time"

	"github.com/lostact/osdlyrics/internal/app"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var redisClient *redis.Client

var (
	errNoClientError = errors.New("redis client was never initialized")
)

func InitRedis(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cfg := app.GetApp().Config.Redis

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return err
	}

	log.Info().Msgf("Connected to redis at %s (db %d)", cfg.Address, cfg.DB)

	redisClient = client

	return nil
}

func CleanUpRedis() error {
	if redisClient == nil {
		return errors.New("cannot close redis since it was never initialized")
	}

	return redisClient.Close()
}

func GetClient() (*redis.Client, error) {
	if redisClient == nil {
		return nil, errNoClientError
	}

	return redisClient, nil
}
