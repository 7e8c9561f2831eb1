package lyrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/egfanboy/mediapire-common/exceptions"
	"github.com/lostact/osdlyrics/internal/app"
	"github.com/lostact/osdlyrics/internal/track"
	"github.com/lostact/osdlyrics/pkg/metadata"
	"github.com/rs/zerolog/log"
)

type LyricsApi interface {
	SearchCurrent(ctx context.Context, player string) ([]SearchResult, error)
	Download(ctx context.Context, lyricsId string) ([]byte, error)
}

// currentTrackFunc returns what is playing on a player.
type currentTrackFunc func(ctx context.Context, player string) (*metadata.Metadata, error)

type service struct {
	source  Source
	current currentTrackFunc
}

func (s *service) SearchCurrent(ctx context.Context, player string) ([]SearchResult, error) {
	log.Info().Msgf("Start: Search lyrics for player %s", player)

	m, err := s.current(ctx, player)
	if err != nil {
		return nil, err
	}

	results, err := s.source.Search(ctx, m)
	if err != nil {
		log.Err(err).Msgf("Failed to search lyrics for player %s", player)
		return nil, err
	}

	log.Info().Msgf("End: Search lyrics for player %s, found %d results", player, len(results))
	return results, nil
}

func (s *service) Download(ctx context.Context, lyricsId string) ([]byte, error) {
	log.Info().Msgf("Start: Download lyrics %s", lyricsId)

	content, err := s.source.Download(ctx, lyricsId)
	if err != nil {
		log.Err(err).Msgf("Failed to download lyrics %s", lyricsId)
		return nil, err
	}

	if len(content) == 0 {
		return nil, &exceptions.ApiException{
			Err: fmt.Errorf("%w for %s", ErrNoLyrics, lyricsId), StatusCode: http.StatusNotFound,
		}
	}

	log.Info().Msgf("End: Download lyrics %s", lyricsId)
	return content, nil
}

func NewLyricsService(ctx context.Context) (LyricsApi, error) {
	trackService, err := track.NewTrackService(ctx)
	if err != nil {
		return nil, err
	}

	return &service{
		source:  NewLrcLibSource(app.GetApp().Config.Lyrics),
		current: trackService.GetCurrentTrack,
	}, nil
}
