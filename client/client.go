// Package client talks to the Medisend catalog API: listing merchant products
// page by page and updating a single product.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/turfaa/halodoc-medisend-api/domain"
	apperrors "github.com/turfaa/halodoc-medisend-api/pkg/errors"
	"github.com/turfaa/halodoc-medisend-api/pkg/httpclient"
	"github.com/turfaa/halodoc-medisend-api/pkg/logger"
	"github.com/turfaa/halodoc-medisend-api/pkg/pagination"
	"github.com/turfaa/halodoc-medisend-api/pkg/tracing"
	"github.com/turfaa/halodoc-medisend-api/pkg/validator"
)

// DefaultBaseURL is the production Medisend API root.
const DefaultBaseURL = "https://medisend.api.halodoc.com/api/v1"

// CorrelationIDHeader carries the per-call correlation id.
const CorrelationIDHeader = "X-Correlation-ID"

const tracerName = "github.com/turfaa/halodoc-medisend-api/client"

const (
	opListProducts  = "list_products"
	opUpdateProduct = "update_product"
)

// APIError is returned for every non-200 response.
type APIError = apperrors.APIError

// Doer sends a prepared request. *httpclient.Client and
// *httpclient.CircuitBreakerClient both satisfy it.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client is a Medisend API client. It holds only immutable configuration and
// is safe for concurrent use.
type Client struct {
	baseURL  string
	cookies  domain.Cookies
	http     Doer
	logger   *slog.Logger
	tracer   trace.Tracer
	maxPages int
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient replaces the default retrying HTTP client.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) {
		if d != nil {
			c.http = d
		}
	}
}

// WithLogger sets the logger. Without it the client logs nothing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxPages bounds how many pages a full traversal may fetch. Values <= 0
// keep pagination.DefaultMaxPages.
func WithMaxPages(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxPages = n
		}
	}
}

// New creates a Client authenticated with the given session cookies.
func New(cookies domain.Cookies, opts ...Option) (*Client, error) {
	if err := validator.Validate(cookies); err != nil {
		return nil, fmt.Errorf("invalid cookies: %w", err)
	}

	c := &Client{
		baseURL:  DefaultBaseURL,
		cookies:  cookies,
		http:     httpclient.New(httpclient.DefaultConfig()),
		logger:   logger.Discard(),
		tracer:   tracing.Tracer(tracerName),
		maxPages: pagination.DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.baseURL = strings.TrimRight(c.baseURL, "/")
	u, err := url.Parse(c.baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", c.baseURL)
	}

	return c, nil
}

// ListProductsParams selects one page of the merchant catalog. Name is sent
// only when non-empty.
type ListProductsParams struct {
	PageNo  int `validate:"gte=1"`
	PerPage int `validate:"gte=1"`
	Name    string
}

// ListProducts fetches one page of merchant products.
func (c *Client) ListProducts(ctx context.Context, params ListProductsParams) (page domain.Page[domain.Product], err error) {
	if err := validator.Validate(params); err != nil {
		return domain.Page[domain.Product]{}, fmt.Errorf("list products: %w", err)
	}

	ctx, end := tracing.StartClientSpan(ctx, c.tracer, "medisend.ListProducts",
		attribute.Int("medisend.page_no", params.PageNo),
		attribute.Int("medisend.per_page", params.PerPage),
	)
	defer func() { end(err) }()

	query := url.Values{}
	query.Set(pagination.PageParam, strconv.Itoa(params.PageNo))
	query.Set(pagination.PerPageParam, strconv.Itoa(params.PerPage))
	if params.Name != "" {
		query.Set("name", params.Name)
	}

	tree, err := c.do(ctx, opListProducts, http.MethodGet, "/products?"+query.Encode(), nil)
	if err != nil {
		return domain.Page[domain.Product]{}, fmt.Errorf("list products: %w", err)
	}

	page, err = domain.ProductPageFromMap(tree)
	if err != nil {
		return domain.Page[domain.Product]{}, fmt.Errorf("list products: %w", err)
	}
	return page, nil
}

// UpdateProduct replaces the product identified by product.ID and returns the
// server's view of it.
func (c *Client) UpdateProduct(ctx context.Context, product domain.Product) (updated domain.Product, err error) {
	ctx, end := tracing.StartClientSpan(ctx, c.tracer, "medisend.UpdateProduct",
		attribute.Int64("medisend.product_id", product.ID),
	)
	defer func() { end(err) }()

	path := "/products/" + strconv.FormatInt(product.ID, 10)
	tree, err := c.do(ctx, opUpdateProduct, http.MethodPut, path, product.ToMap())
	if err != nil {
		return domain.Product{}, fmt.Errorf("update product %d: %w", product.ID, err)
	}

	updated, err = domain.ProductFromMap(tree)
	if err != nil {
		return domain.Product{}, fmt.Errorf("decode updated product %d: %w", product.ID, err)
	}
	return updated, nil
}

// do sends one request and decodes a 200 body into an untyped tree. Any other
// status becomes an *APIError.
func (c *Client) do(ctx context.Context, op, method, path string, body any) (map[string]any, error) {
	ctx, correlationID := logger.EnsureCorrelationID(ctx)
	log := logger.WithContext(ctx, c.logger).With(slog.String("operation", op))

	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(CorrelationIDHeader, correlationID)
	for _, cookie := range c.cookies.HTTPCookies() {
		req.AddCookie(cookie)
	}

	start := time.Now()
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		// The circuit breaker turns 5xx responses into errors.
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			observeRequest(op, apiErr.StatusCode, start)
			logAPIError(ctx, log, apiErr)
			return nil, err
		}
		observeRequest(op, 0, start)
		log.WarnContext(ctx, "medisend request failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("call medisend: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	observeRequest(op, resp.StatusCode, start)

	if resp.StatusCode != http.StatusOK {
		err := httpclient.ParseResponseError(resp)
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			logAPIError(ctx, log, apiErr)
		}
		return nil, err
	}

	tree, err := domain.DecodeTree(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	log.DebugContext(ctx, "medisend request completed",
		slog.String("method", method),
		slog.String("path", path),
		slog.Duration("duration", time.Since(start)),
	)
	return tree, nil
}

func logAPIError(ctx context.Context, log *slog.Logger, apiErr *APIError) {
	level := slog.LevelError
	if httpclient.IsClientError(apiErr.StatusCode) {
		level = slog.LevelWarn
	}
	log.Log(ctx, level, "medisend api error",
		slog.Int("status", apiErr.StatusCode),
		slog.String("code", apiErr.Code),
		slog.String("message", apiErr.Message),
	)
}
