package domain

import (
	apperrors "github.com/turfaa/halodoc-medisend-api/pkg/errors"
)

// Page is the paginated envelope the API wraps around any listable resource.
// NextPage only signals whether another page follows; it is not a page count.
type Page[T any] struct {
	Result     []T
	NextPage   bool
	TotalCount int64
}

// PageFromMap builds a Page from its wire representation, applying conv to
// every element of the result array.
func PageFromMap[T any](m map[string]any, conv func(map[string]any) (T, error)) (Page[T], error) {
	var (
		page Page[T]
		err  error
	)
	if page.NextPage, err = getBool(m, "next_page"); err != nil {
		return Page[T]{}, err
	}
	if page.Result, err = getRecords(m, "result", conv); err != nil {
		return Page[T]{}, err
	}
	if page.TotalCount, err = getInt(m, "total_count"); err != nil {
		return Page[T]{}, err
	}
	return page, nil
}

// ToMap returns the wire representation of the page, expanding every item with conv.
func (p Page[T]) ToMap(conv func(T) map[string]any) map[string]any {
	var result []any
	if p.Result != nil {
		result = make([]any, len(p.Result))
		for i, item := range p.Result {
			result[i] = conv(item)
		}
	}
	return map[string]any{
		"next_page":   p.NextPage,
		"result":      result,
		"total_count": p.TotalCount,
	}
}

// ProductPageFromMap is PageFromMap specialised for products.
func ProductPageFromMap(m map[string]any) (Page[Product], error) {
	page, err := PageFromMap(m, ProductFromMap)
	if err != nil {
		return Page[Product]{}, apperrors.Wrap(err, "decode product page")
	}
	return page, nil
}
