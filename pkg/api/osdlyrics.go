package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/lostact/osdlyrics/pkg/types"
)

type OsdLyricsApi interface {
	GetCurrentTrack(player string) (types.TrackItem, *http.Response, error)
}

type osdlyricsClient struct {
	ctx     context.Context
	baseUrl string
	client  *http.Client
}

func (c *osdlyricsClient) GetCurrentTrack(player string) (result types.TrackItem, r *http.Response, err error) {
	query := url.Values{}
	if player != "" {
		query.Set("player", player)
	}

	req, err := http.NewRequestWithContext(
		c.ctx,
		http.MethodGet,
		fmt.Sprintf("%s/api/v1/tracks/current?%s", c.baseUrl, query.Encode()),
		nil,
	)
	if err != nil {
		return
	}

	r, err = c.client.Do(req)
	if err != nil {
		return
	}
	defer r.Body.Close()

	if r.StatusCode != http.StatusOK {
		err = fmt.Errorf("unexpected status %d getting current track", r.StatusCode)
		return
	}

	err = json.NewDecoder(r.Body).Decode(&result)

	return
}

// NewClient returns a client for the daemon reachable at baseUrl, e.g.
// http://localhost:9899.
func NewClient(ctx context.Context, baseUrl string) OsdLyricsApi {
	return &osdlyricsClient{ctx: ctx, baseUrl: baseUrl, client: http.DefaultClient}
}
