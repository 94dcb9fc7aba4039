package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"
)

// Client talks to the catalog service over HTTP. Concurrent lookups of the
// same resource share one request.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	group   singleflight.Group
}

var _ port.Catalog = (*Client)(nil)

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("url.Parse: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("catalog url[%s] is not absolute", baseURL)
	}

	return &Client{
		baseURL: parsed,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

func (c *Client) GetProduct(ctx context.Context, productID int64) (domain.Product, error) {
	v, err := c.shared(ctx, "product:"+strconv.FormatInt(productID, 10), func(ctx context.Context) (any, error) {
		var product domain.Product
		if err := c.get(ctx, "products", productID, &product); err != nil {
			return domain.Product{}, err
		}
		return product, nil
	})
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product[%d]: %w", productID, err)
	}

	return v.(domain.Product), nil
}

func (c *Client) GetStock(ctx context.Context, productID int64) (domain.Stock, error) {
	v, err := c.shared(ctx, "stock:"+strconv.FormatInt(productID, 10), func(ctx context.Context) (any, error) {
		var stock domain.Stock
		if err := c.get(ctx, "stock", productID, &stock); err != nil {
			return domain.Stock{}, err
		}
		return stock, nil
	})
	if err != nil {
		return domain.Stock{}, fmt.Errorf("get stock[%d]: %w", productID, err)
	}

	return v.(domain.Stock), nil
}

// shared runs fn once for all concurrent callers of key. The request is
// detached from the caller that started it, so one caller giving up does
// not fail the others; each caller still stops waiting on its own ctx.
func (c *Client) shared(ctx context.Context, key string, fn func(ctx context.Context) (any, error)) (any, error) {
	detached := context.WithoutCancel(ctx)

	ch := c.group.DoChan(key, func() (any, error) {
		return fn(detached)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, ctx.Err())
	}
}

func (c *Client) get(ctx context.Context, resource string, id int64, dst any) error {
	endpoint := c.baseURL.JoinPath(resource, strconv.FormatInt(id, 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: http.Do: %w", domain.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %w", domain.ErrFetchFailed, domain.ErrProductNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: unexpected status %d", domain.ErrFetchFailed, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: json.Decode: %w", domain.ErrFetchFailed, err)
	}

	return nil
}
