package pagination

import (
	"fmt"

	"github.com/egfanboy/mediapire-common/exceptions"
)

type Pagination struct {
	CurrentPage  int  `json:"currentPage"`
	NextPage     *int `json:"nextPage"`
	PreviousPage *int `json:"previousPage"`
}

type PaginatedResponse[T any] struct {
	Results    []T        `json:"results"`
	Pagination Pagination `json:"pagination"`
}

func NewPaginatedResponse[T any](data []T, pagination ApiPaginationParams) (result PaginatedResponse[T], err error) {
	startIndex := (pagination.Page - 1) * pagination.Limit

	// the first page of an empty list is valid
	if startIndex > 0 && len(data) <= startIndex {
		err = exceptions.NewBadRequestException(fmt.Errorf("no page %d for current data", pagination.Page))
		return
	}

	endIndex := startIndex + pagination.Limit
	if endIndex > len(data) {
		endIndex = len(data)
	}

	p := Pagination{
		CurrentPage: pagination.Page,
	}

	if pagination.Page > 1 {
		previous := pagination.Page - 1
		p.PreviousPage = &previous
	}

	if endIndex < len(data) {
		next := pagination.Page + 1
		p.NextPage = &next
	}

	return PaginatedResponse[T]{
		Results:    data[startIndex:endIndex],
		Pagination: p,
	}, nil
}
