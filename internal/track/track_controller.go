package track

import (
	"context"
	"net/http"

	"github.com/egfanboy/mediapire-common/exceptions"
	"github.com/egfanboy/mediapire-common/router"
	"github.com/lostact/osdlyrics/internal/app"
	"github.com/lostact/osdlyrics/pkg/metadata"
	"github.com/lostact/osdlyrics/pkg/types/pagination"
	"github.com/rs/zerolog/log"
)

const (
	basePath         = "/tracks"
	queryParamPlayer = "player"
)

var playerQueryParam = router.QueryParam{Name: queryParamPlayer, Required: false}

type trackController struct {
	builders []func() router.RouteBuilder
	service  TrackApi
}

func playerFromParams(p router.RouteParams) string {
	if player, ok := p.Params[queryParamPlayer]; ok && player != "" {
		return player
	}

	return DefaultPlayer
}

func (c trackController) GetApis() (routes []router.RouteBuilder) {
	for _, b := range c.builders {
		routes = append(routes, b())
	}

	return
}

func (c trackController) GetCurrentTrack() router.RouteBuilder {
	return router.NewV1RouteBuilder().
		SetMethod(http.MethodOptions, http.MethodGet).
		SetPath(basePath + "/current").
		SetReturnCode(http.StatusOK).
		AddQueryParam(playerQueryParam).
		SetHandler(func(request *http.Request, p router.RouteParams) (interface{}, error) {
			player := playerFromParams(p)

			m, err := c.service.GetCurrentTrack(request.Context(), player)
			if err != nil {
				return nil, err
			}

			return toTrackItem(player, m), nil
		})
}

func (c trackController) UpdateCurrentTrack() router.RouteBuilder {
	return router.NewV1RouteBuilder().
		SetMethod(http.MethodOptions, http.MethodPut).
		SetPath(basePath + "/current").
		SetReturnCode(http.StatusOK).
		AddQueryParam(playerQueryParam).
		SetHandler(func(request *http.Request, p router.RouteParams) (interface{}, error) {
			// MPRIS style property map, e.g. {"xesam:title": "..."}
			var props map[string]interface{}
			err := p.PopulateBody(&props)
			if err != nil {
				return nil, exceptions.NewBadRequestException(err)
			}

			player := playerFromParams(p)

			m, err := c.service.HandleTrackChanged(request.Context(), player, metadata.FromMap(props))
			if err != nil {
				return nil, err
			}

			return toTrackItem(player, m), nil
		})
}

func (c trackController) GetCurrentProperties() router.RouteBuilder {
	return router.NewV1RouteBuilder().
		SetMethod(http.MethodOptions, http.MethodGet).
		SetPath(basePath + "/current/properties").
		SetReturnCode(http.StatusOK).
		AddQueryParam(playerQueryParam).
		SetHandler(func(request *http.Request, p router.RouteParams) (interface{}, error) {
			m, err := c.service.GetCurrentTrack(request.Context(), playerFromParams(p))
			if err != nil {
				return nil, err
			}

			return m.ToMap(), nil
		})
}

func (c trackController) GetCurrentText() router.RouteBuilder {
	return router.NewV1RouteBuilder().
		SetMethod(http.MethodOptions, http.MethodGet).
		SetPath(basePath + "/current/text").
		SetDataType(router.DataTypeFile).
		SetReturnCode(http.StatusOK).
		AddQueryParam(playerQueryParam).
		SetHandler(func(request *http.Request, p router.RouteParams) (interface{}, error) {
			m, err := c.service.GetCurrentTrack(request.Context(), playerFromParams(p))
			if err != nil {
				return nil, err
			}

			return m.MarshalText()
		})
}

func (c trackController) GetHistory() router.RouteBuilder {
	return router.NewV1RouteBuilder().
		SetMethod(http.MethodOptions, http.MethodGet).
		SetPath(basePath + "/history").
		SetReturnCode(http.StatusOK).
		AddQueryParam(playerQueryParam).
		AddQueryParam(pagination.PageQueryParam).
		AddQueryParam(pagination.LimitQueryParam).
		SetHandler(func(request *http.Request, p router.RouteParams) (interface{}, error) {
			paginationParams, err := pagination.NewApiPaginationParams(p)
			if err != nil {
				return nil, err
			}

			var player *string
			if value, ok := p.Params[queryParamPlayer]; ok && value != "" {
				player = &value
			}

			items, err := c.service.GetHistory(request.Context(), player)
			if err != nil {
				return nil, err
			}

			return pagination.NewPaginatedResponse(items, paginationParams)
		})
}

func initController() (trackController, error) {
	service, err := NewTrackService(context.Background())
	if err != nil {
		return trackController{}, err
	}

	c := trackController{service: service}

	c.builders = append(
		c.builders,
		c.GetCurrentTrack,
		c.UpdateCurrentTrack,
		c.GetCurrentProperties,
		c.GetCurrentText,
		c.GetHistory,
	)

	return c, nil
}

func init() {
	controller, err := initController()
	if err != nil {
		log.Error().Err(err).Msg("Failed to instantiate track controller")
	} else {
		app.GetApp().ControllerRegistry.Register(controller)
	}
}
