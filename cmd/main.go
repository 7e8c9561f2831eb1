package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/lostact/osdlyrics/internal/app"
	"github.com/lostact/osdlyrics/internal/consul"
	"github.com/lostact/osdlyrics/internal/mongo"
	"github.com/lostact/osdlyrics/internal/rabbitmq"
	"github.com/lostact/osdlyrics/internal/redis"

	// APIs - start

	_ "github.com/lostact/osdlyrics/internal/health"
	_ "github.com/lostact/osdlyrics/internal/lyrics"
	_ "github.com/lostact/osdlyrics/internal/track"

	// APIs - end

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var cleanupFuncs []func()

func addCleanupFunc(fn func()) {
	cleanupFuncs = append(cleanupFuncs, fn)
}

func setLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		log.Warn().Msgf("Unknown log level %q, using info", level)
		lvl = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(lvl)
}

func main() {
	ctx := context.Background()
	osdLyrics := app.GetApp()

	setLogLevel(osdLyrics.Config.LogLevel)
	log.Info().Msg("Initializing OSD Lyrics metadata service")

	err := rabbitmq.Setup(ctx)
	if err != nil {
		log.Error().Err(err).Msgf("Failed to connect to rabbitmq")
		os.Exit(1)
	}

	addCleanupFunc(func() { rabbitmq.Cleanup() })

	err = mongo.InitMongo(ctx)
	if err != nil {
		log.Error().Err(err).Msgf("Failed to connect to mongoDB")
		os.Exit(1)
	}

	addCleanupFunc(func() { mongo.CleanUpMongo(ctx) })

	err = redis.InitRedis(ctx)
	if err != nil {
		log.Error().Err(err).Msgf("Failed to connect to redis")
		os.Exit(1)
	}

	addCleanupFunc(func() { redis.CleanUpRedis() })

	log.Debug().Msg("starting webserver")

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	defer func() {
		signal.Stop(c)
		log.Info().Msg("Running cleanup functions")
		for _, fn := range cleanupFuncs {
			fn()
		}
	}()

	mainRouter := mux.NewRouter()

	err = consul.NewConsulClient()
	if err != nil {
		log.Error().Err(err).Msgf("Failed to connect to consul")
		os.Exit(1)
	}

	err = consul.RegisterService()
	if err != nil {
		log.Error().Err(err).Msgf("Failed to register service to consul")
		os.Exit(1)
	}

	addCleanupFunc(func() { consul.UnregisterService() })

	for _, c := range osdLyrics.ControllerRegistry.GetControllers() {
		for _, b := range c.GetApis() {
			b.Build(mainRouter)
		}
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", osdLyrics.Config.Port),
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      mainRouter,
	}

	go func() {
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("")
			os.Exit(1)
		}
	}()

	addCleanupFunc(func() { srv.Close() })

	log.Info().Msgf("OSD Lyrics metadata service running on port %d", osdLyrics.Config.Port)

	<-c
}
