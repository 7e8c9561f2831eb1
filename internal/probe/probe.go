package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/dhowden/tag"
	"github.com/lostact/osdlyrics/internal/app"
	"github.com/lostact/osdlyrics/pkg/metadata"
	"github.com/rs/zerolog/log"
	ffmpeg_go "github.com/u2takey/ffmpeg-go"
)

var errNotLocalFile = errors.New("uri does not point to a local file")

// Enricher fills in fields a player left out.
type Enricher interface {
	Enrich(ctx context.Context, m *metadata.Metadata)
}

// subset of tag.Metadata used to fill fields
type tagSource interface {
	Title() string
	Artist() string
	Album() string
	Track() (int, int)
}

type noopEnricher struct{}

func (noopEnricher) Enrich(ctx context.Context, m *metadata.Metadata) {}

type fileEnricher struct {
	timeout time.Duration

	readTags      func(path string) (tagSource, error)
	probeDuration func(path string, timeout time.Duration) (uint64, error)
}

func localPath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", err
	}

	if u.Scheme != "file" || u.Path == "" {
		return "", errNotLocalFile
	}

	return u.Path, nil
}

func readFileTags(path string) (tagSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return tag.ReadFrom(f)
}

type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// parseProbeDuration extracts the duration in milliseconds from ffprobe json output.
func parseProbeDuration(out string) (uint64, error) {
	var result ffprobeOutput
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		return 0, err
	}

	if result.Format.Duration == "" {
		return 0, errors.New("ffprobe did not report a duration")
	}

	seconds, err := strconv.ParseFloat(result.Format.Duration, 64)
	if err != nil {
		return 0, err
	}

	if seconds < 0 {
		return 0, fmt.Errorf("invalid duration %s", result.Format.Duration)
	}

	return uint64(seconds*1000 + 0.5), nil
}

func ffprobeDuration(path string, timeout time.Duration) (uint64, error) {
	out, err := ffmpeg_go.ProbeWithTimeout(path, timeout, ffmpeg_go.KwArgs{})
	if err != nil {
		return 0, err
	}

	return parseProbeDuration(out)
}

func isMissing(value string, ok bool) bool {
	return !ok || value == ""
}

func applyTags(m *metadata.Metadata, tags tagSource) {
	if title, ok := m.Title(); isMissing(title, ok) && tags.Title() != "" {
		m.SetTitle(tags.Title())
	}

	if !m.ArtistValid() && tags.Artist() != "" {
		m.SetArtist(tags.Artist())
	}

	if album, ok := m.Album(); isMissing(album, ok) && tags.Album() != "" {
		m.SetAlbum(tags.Album())
	}

	if track, _ := tags.Track(); m.TrackNumber() <= 0 && track > 0 {
		m.SetTrackNumber(track)
	}
}

func (e *fileEnricher) Enrich(ctx context.Context, m *metadata.Metadata) {
	uri, ok := m.URI()
	if !ok {
		return
	}

	path, err := localPath(uri)
	if err != nil {
		log.Debug().Err(err).Msgf("Not enriching metadata for %s", uri)
		return
	}

	tags, err := e.readTags(path)
	if err != nil {
		log.Warn().Err(err).Msgf("Failed to read tags from %s", path)
	} else {
		applyTags(m, tags)
	}

	if m.Duration() != 0 || ctx.Err() != nil {
		return
	}

	duration, err := e.probeDuration(path, e.timeout)
	if err != nil {
		log.Warn().Err(err).Msgf("Failed to probe duration of %s", path)
		return
	}

	m.SetDuration(duration)
}

func NewEnricher(cfg app.ProbeConfig) Enricher {
	if !cfg.Enabled {
		return noopEnricher{}
	}

	return &fileEnricher{
		timeout:       time.Duration(cfg.Timeout) * time.Second,
		readTags:      readFileTags,
		probeDuration: ffprobeDuration,
	}
}
