package pagination

import (
	"errors"
	"strconv"

	"github.com/egfanboy/mediapire-common/exceptions"
	"github.com/egfanboy/mediapire-common/router"
)

const (
	pageQueryParamName  = "page"
	limitQueryParamName = "limit"

	defaultPage  = 1
	defaultLimit = 10
)

var (
	PageQueryParam  = router.QueryParam{Name: pageQueryParamName, Required: false}
	LimitQueryParam = router.QueryParam{Name: limitQueryParamName, Required: false}
)

type ApiPaginationParams struct {
	Page  int
	Limit int
}

func (p ApiPaginationParams) Validate() error {
	if p.Page < 1 {
		return exceptions.NewBadRequestException(errors.New("invalid page parameter. Must be 1 or greater"))
	}

	if p.Limit < 1 || p.Limit > 100 {
		return exceptions.NewBadRequestException(errors.New("invalid page limit. Must be between 1 and 100"))
	}

	return nil
}

func parseParam(params map[string]string, name string, fallback int) (int, error) {
	value, ok := params[name]
	if !ok || value == "" {
		return fallback, nil
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return 0, exceptions.NewBadRequestException(err)
	}

	return result, nil
}

func NewApiPaginationParams(p router.RouteParams) (result ApiPaginationParams, err error) {
	result.Page, err = parseParam(p.Params, pageQueryParamName, defaultPage)
	if err != nil {
		return
	}

	result.Limit, err = parseParam(p.Params, limitQueryParamName, defaultLimit)
	if err != nil {
		return
	}

	err = result.Validate()

	return
}
