package pagination

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// Query parameter names used by the Medisend API.
const (
	PageParam    = "page_no"
	PerPageParam = "per_page"
)

const (
	// DefaultPerPage is the page size used when none is given.
	DefaultPerPage = 20
	// MaxPerPage is the largest page size FromRequest accepts.
	MaxPerPage = 100
	// DefaultMaxPages bounds Collect when the caller sets no limit.
	DefaultMaxPages = 1000
)

// ErrTooManyPages is returned by Collect when the server keeps reporting a
// next page past the configured limit.
var ErrTooManyPages = errors.New("too many pages")

// Params holds 1-based pagination parameters.
type Params struct {
	Page    int `json:"page_no" validate:"gte=1"`
	PerPage int `json:"per_page" validate:"gte=1"`
	Offset  int `json:"-"`
}

// DefaultParams returns sensible pagination defaults.
func DefaultParams() Params {
	return Params{
		Page:    1,
		PerPage: DefaultPerPage,
		Offset:  0,
	}
}

// FromRequest extracts pagination parameters from an HTTP request.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()

	if page := r.URL.Query().Get(PageParam); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 0 {
			p.Page = v
		}
	}

	if perPage := r.URL.Query().Get(PerPageParam); perPage != "" {
		if v, err := strconv.Atoi(perPage); err == nil && v > 0 && v <= MaxPerPage {
			p.PerPage = v
		}
	}

	p.Offset = (p.Page - 1) * p.PerPage
	return p
}

// Result wraps one page of a larger collection.
type Result[T any] struct {
	Data       []T  `json:"data"`
	TotalCount int  `json:"total_count"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewResult creates a paginated result.
func NewResult[T any](data []T, totalCount int, params Params) Result[T] {
	totalPages := totalCount / params.PerPage
	if totalCount%params.PerPage > 0 {
		totalPages++
	}

	return Result[T]{
		Data:       data,
		TotalCount: totalCount,
		Page:       params.Page,
		PerPage:    params.PerPage,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}

// Paginate cuts the page described by params out of all.
func Paginate[T any](all []T, params Params) Result[T] {
	start := min(params.Offset, len(all))
	end := min(start+params.PerPage, len(all))
	return NewResult(all[start:end], len(all), params)
}

// FetchFunc loads one page. It reports whether the server has another page.
type FetchFunc[T any] func(ctx context.Context, page int) (items []T, hasNext bool, err error)

// Collect walks pages 1, 2, ... sequentially until fetch reports no next page
// and returns every item in order. Any error aborts the walk and discards the
// items gathered so far. maxPages <= 0 uses DefaultMaxPages.
func Collect[T any](ctx context.Context, fetch FetchFunc[T], maxPages int) ([]T, error) {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	var all []T
	for page := 1; ; page++ {
		if page > maxPages {
			return nil, fmt.Errorf("stopped after %d pages: %w", maxPages, ErrTooManyPages)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		items, hasNext, err := fetch(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", page, err)
		}
		all = append(all, items...)

		if !hasNext {
			return all, nil
		}
	}
}
