package health

import (
	"net/http"

	"github.com/egfanboy/mediapire-common/router"
	"github.com/lostact/osdlyrics/internal/app"
)

type healthController struct {
	builders []func() router.RouteBuilder
}

type healthResponse struct {
	Status string `json:"status"`
	Name   string `json:"name"`
}

func (c healthController) GetApis() (routes []router.RouteBuilder) {
	for _, b := range c.builders {
		routes = append(routes, b())
	}

	return
}

func (c healthController) getHealth() router.RouteBuilder {
	return router.NewV1RouteBuilder().
		SetMethod(http.MethodOptions, http.MethodGet).
		SetPath("/health").
		SetReturnCode(http.StatusOK).
		SetHandler(func(request *http.Request, p router.RouteParams) (interface{}, error) {
			return healthResponse{Status: "ok", Name: app.GetApp().Config.Name}, nil
		})
}

func init() {
	c := healthController{}
	c.builders = append(c.builders, c.getHealth)

	app.GetApp().ControllerRegistry.Register(c)
}
