package lyrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/lostact/osdlyrics/internal/app"
	"github.com/lostact/osdlyrics/pkg/metadata"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	SourceIdLrcLib = "lrclib"

	searchPath = "/api/search"
	getPath    = "/api/get"
)

var ErrNoLyrics = errors.New("no lyrics found")

type SearchResult struct {
	Title        string `json:"title"`
	Artist       string `json:"artist"`
	Album        string `json:"album"`
	SourceId     string `json:"sourceId"`
	DownloadInfo string `json:"downloadInfo"`
}

type Source interface {
	Search(ctx context.Context, m *metadata.Metadata) ([]SearchResult, error)
	Download(ctx context.Context, downloadInfo string) ([]byte, error)
}

type lrclibRecord struct {
	Id           *int64 `json:"id"`
	TrackName    string `json:"trackName"`
	ArtistName   string `json:"artistName"`
	AlbumName    string `json:"albumName"`
	PlainLyrics  string `json:"plainLyrics"`
	SyncedLyrics string `json:"syncedLyrics"`
}

type lrclibSource struct {
	baseUrl   string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
}

type statusError struct {
	StatusCode int
	Body       string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("lrclib responded with status %d: %s", e.StatusCode, e.Body)
}

// searchParams builds the query for m, or returns nil when m has nothing to
// search for.
func searchParams(m *metadata.Metadata) url.Values {
	params := url.Values{}

	title, hasTitle := m.Title()
	hasTitle = hasTitle && title != ""
	artist, hasArtist := m.Artist()
	hasArtist = hasArtist && artist != ""

	switch {
	case hasTitle && hasArtist:
		params.Set("track_name", title)
		params.Set("artist_name", artist)
	case hasTitle:
		params.Set("q", title)
	case hasArtist:
		params.Set("q", artist)
	default:
		return nil
	}

	if album, ok := m.Album(); ok && album != "" {
		params.Set("album_name", album)
	}

	return params
}

func (s *lrclibSource) get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := s.baseUrl + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", s.userAgent)

	return s.client.Do(req)
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

	return &statusError{StatusCode: resp.StatusCode, Body: string(body)}
}

func (s *lrclibSource) Search(ctx context.Context, m *metadata.Metadata) ([]SearchResult, error) {
	params := searchParams(m)
	if params == nil {
		log.Debug().Msg("Nothing to search lyrics for")
		return []SearchResult{}, nil
	}

	resp, err := s.get(ctx, searchPath, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// not found is not an error
	if resp.StatusCode == http.StatusNotFound {
		return []SearchResult{}, nil
	}

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var records []lrclibRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(records))
	for _, r := range records {
		if r.Id == nil || *r.Id == 0 {
			continue
		}

		results = append(results, SearchResult{
			Title:        r.TrackName,
			Artist:       r.ArtistName,
			Album:        r.AlbumName,
			SourceId:     SourceIdLrcLib,
			DownloadInfo: strconv.FormatInt(*r.Id, 10),
		})
	}

	return results, nil
}

// Download returns the synced lyrics of the record, falling back to the plain
// lyrics. A record without lyrics yields an empty result.
func (s *lrclibSource) Download(ctx context.Context, downloadInfo string) ([]byte, error) {
	resp, err := s.get(ctx, getPath+"/"+url.PathEscape(downloadInfo), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var record lrclibRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, err
	}

	switch {
	case record.SyncedLyrics != "":
		return []byte(record.SyncedLyrics), nil
	case record.PlainLyrics != "":
		return []byte(record.PlainLyrics), nil
	default:
		return []byte{}, nil
	}
}

func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 || math.IsInf(perSecond, 1) {
		return rate.NewLimiter(rate.Inf, 1)
	}

	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

func NewLrcLibSource(cfg app.LyricsConfig) Source {
	return &lrclibSource{
		baseUrl:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: 15 * time.Second},
		limiter:   newLimiter(cfg.RateLimit),
	}
}
