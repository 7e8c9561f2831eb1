package lyrics

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/egfanboy/mediapire-common/exceptions"
	"github.com/lostact/osdlyrics/pkg/metadata"
)

type stubSource struct {
	searched *metadata.Metadata
	results  []SearchResult
	content  []byte
	err      error
}

func (s *stubSource) Search(ctx context.Context, m *metadata.Metadata) ([]SearchResult, error) {
	s.searched = m
	return s.results, s.err
}

func (s *stubSource) Download(ctx context.Context, downloadInfo string) ([]byte, error) {
	return s.content, s.err
}

func TestSearchCurrent(t *testing.T) {
	m := metadata.New()
	m.SetTitle("Song")

	src := &stubSource{results: []SearchResult{{Title: "Song", SourceId: SourceIdLrcLib, DownloadInfo: "1"}}}
	s := &service{
		source: src,
		current: func(ctx context.Context, player string) (*metadata.Metadata, error) {
			if player != "vlc" {
				t.Errorf("player = %s, want vlc", player)
			}
			return m, nil
		},
	}

	results, err := s.SearchCurrent(context.Background(), "vlc")
	if err != nil {
		t.Fatal(err)
	}

	if len(results) != 1 || results[0].DownloadInfo != "1" {
		t.Errorf("results = %+v", results)
	}

	if src.searched != m {
		t.Error("source searched for a different track")
	}
}

func TestSearchCurrentNothingPlaying(t *testing.T) {
	notFound := &exceptions.ApiException{Err: errors.New("nothing is playing"), StatusCode: http.StatusNotFound}
	src := &stubSource{}

	s := &service{
		source: src,
		current: func(ctx context.Context, player string) (*metadata.Metadata, error) {
			return nil, notFound
		},
	}

	if _, err := s.SearchCurrent(context.Background(), "vlc"); !errors.Is(err, notFound) {
		t.Errorf("error = %v, want %v", err, notFound)
	}

	if src.searched != nil {
		t.Error("searched without a current track")
	}
}

func TestDownload(t *testing.T) {
	tests := []struct {
		name       string
		src        *stubSource
		want       string
		wantStatus int
	}{
		{name: "content", src: &stubSource{content: []byte("[00:01.00]la")}, want: "[00:01.00]la"},
		{name: "empty", src: &stubSource{content: []byte{}}, wantStatus: http.StatusNotFound},
		{name: "source error", src: &stubSource{err: &statusError{StatusCode: 500}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &service{source: tt.src}

			got, err := s.Download(context.Background(), "1")

			if tt.want != "" {
				if err != nil || string(got) != tt.want {
					t.Errorf("Download() = %q, %v", got, err)
				}
				return
			}

			if err == nil {
				t.Fatal("expected an error")
			}

			if tt.wantStatus != 0 {
				var apiErr *exceptions.ApiException
				if !errors.As(err, &apiErr) || apiErr.StatusCode != tt.wantStatus {
					t.Errorf("error = %v, want status %d", err, tt.wantStatus)
				}

				if apiErr != nil && !errors.Is(apiErr.Err, ErrNoLyrics) {
					t.Errorf("error = %v, want %v", apiErr.Err, ErrNoLyrics)
				}
			}
		})
	}
}
