package client

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/turfaa/halodoc-medisend-api/domain"
	"github.com/turfaa/halodoc-medisend-api/pkg/logger"
	"github.com/turfaa/halodoc-medisend-api/pkg/pagination"
)

// ListAllProducts walks every page of the catalog, optionally filtered by
// name, and returns the products in server order. perPage <= 0 uses
// pagination.DefaultPerPage. Any page failure discards what was collected.
func (c *Client) ListAllProducts(ctx context.Context, perPage int, name string) ([]domain.Product, error) {
	if perPage <= 0 {
		perPage = pagination.DefaultPerPage
	}

	ctx, _ = logger.EnsureCorrelationID(ctx)
	log := logger.WithContext(ctx, c.logger)

	fetch := func(ctx context.Context, pageNo int) ([]domain.Product, bool, error) {
		log.DebugContext(ctx, "fetching products page", slog.Int("page_no", pageNo))

		page, err := c.ListProducts(ctx, ListProductsParams{PageNo: pageNo, PerPage: perPage, Name: name})
		if err != nil {
			return nil, false, err
		}
		pagesFetched.Inc()

		log.DebugContext(ctx, "fetched products page",
			slog.Int("page_no", pageNo),
			slog.Int("count", len(page.Result)),
			slog.Bool("next_page", page.NextPage),
		)
		return page.Result, page.NextPage, nil
	}

	products, err := pagination.Collect(ctx, fetch, c.maxPages)
	if err != nil {
		return nil, fmt.Errorf("list all products: %w", err)
	}
	return products, nil
}

// ListUnavailableProducts fetches the whole catalog and keeps the products
// that are inactive or out of stock, in server order.
func (c *Client) ListUnavailableProducts(ctx context.Context, perPage int) ([]domain.Product, error) {
	ctx, _ = logger.EnsureCorrelationID(ctx)

	products, err := c.ListAllProducts(ctx, perPage, "")
	if err != nil {
		return nil, fmt.Errorf("list unavailable products: %w", err)
	}

	unavailable := domain.FilterUnavailable(products)
	logger.WithContext(ctx, c.logger).InfoContext(ctx, "unavailable products collected",
		slog.Int("total", len(products)),
		slog.Int("unavailable", len(unavailable)),
	)
	return unavailable, nil
}
