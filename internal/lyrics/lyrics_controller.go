package lyrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/egfanboy/mediapire-common/router"
	"github.com/lostact/osdlyrics/internal/app"
	"github.com/lostact/osdlyrics/internal/track"
	"github.com/rs/zerolog/log"
)

const (
	basePath         = "/lyrics"
	paramLyricsId    = "lyricsId"
	queryParamPlayer = "player"
)

type lyricsController struct {
	builders []func() router.RouteBuilder
	service  LyricsApi
}

func (c lyricsController) GetApis() (routes []router.RouteBuilder) {
	for _, b := range c.builders {
		routes = append(routes, b())
	}

	return
}

func (c lyricsController) SearchCurrent() router.RouteBuilder {
	return router.NewV1RouteBuilder().
		SetMethod(http.MethodOptions, http.MethodGet).
		SetPath(basePath + "/search").
		SetReturnCode(http.StatusOK).
		AddQueryParam(router.QueryParam{Name: queryParamPlayer, Required: false}).
		SetHandler(func(request *http.Request, p router.RouteParams) (interface{}, error) {
			player := track.DefaultPlayer
			if value, ok := p.Params[queryParamPlayer]; ok && value != "" {
				player = value
			}

			return c.service.SearchCurrent(request.Context(), player)
		})
}

func (c lyricsController) Download() router.RouteBuilder {
	return router.NewV1RouteBuilder().
		SetMethod(http.MethodOptions, http.MethodGet).
		SetPath(fmt.Sprintf("%s/{%s}", basePath, paramLyricsId)).
		SetDataType(router.DataTypeFile).
		SetReturnCode(http.StatusOK).
		SetHandler(func(request *http.Request, p router.RouteParams) (interface{}, error) {
			lyricsId, ok := p.Params[paramLyricsId]
			if !ok {
				return nil, fmt.Errorf("%s not found in API path", paramLyricsId)
			}

			return c.service.Download(request.Context(), lyricsId)
		})
}

func initController() (lyricsController, error) {
	service, err := NewLyricsService(context.Background())
	if err != nil {
		return lyricsController{}, err
	}

	c := lyricsController{service: service}

	// search must be registered before the {lyricsId} route
	c.builders = append(c.builders, c.SearchCurrent, c.Download)

	return c, nil
}

func init() {
	controller, err := initController()
	if err != nil {
		log.Error().Err(err).Msg("Failed to instantiate lyrics controller")
	} else {
		app.GetApp().ControllerRegistry.Register(controller)
	}
}
