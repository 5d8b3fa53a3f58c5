// Package gateway is the REST catalog source: it speaks the products/facets
// JSON API of an upstream service.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/catalogd/internal/domain"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/facet"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/page"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/query"
	"github.com/kailas-cloud/catalogd/internal/domain/product"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 8 << 20
)

// ErrNoBaseURL is returned by New when no base URL is configured.
var ErrNoBaseURL = errors.New("gateway base url is empty")

// Config holds upstream settings.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client is a catalog source backed by an upstream REST API.
type Client struct {
	base string
	http *http.Client
}

// New creates a REST source. Trailing slashes of the base URL are dropped.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, ErrNoBaseURL
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("parse gateway base url: %w", err)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{base: base, http: hc}, nil
}

// Name identifies the source in logs and metrics.
func (c *Client) Name() string { return "gateway" }

// listResponse is the upstream envelope before normalization.
type listResponse struct {
	Results  *[]map[string]any `json:"results"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
	Total    *int              `json:"total"`
}

// List fetches one page. Transport failures and non-2xx statuses wrap
// domain.ErrUnavailable. Undecodable bodies and envelopes missing results or
// total, or holding more results than the page allows, wrap domain.ErrMalformed.
func (c *Client) List(ctx context.Context, q query.Query) (page.Envelope, error) {
	var resp listResponse
	if err := c.getJSON(ctx, "/products?"+EncodeQuery(q).Encode(), &resp); err != nil {
		return page.Envelope{}, err
	}
	if resp.Results == nil || resp.Total == nil {
		return page.Envelope{}, fmt.Errorf("%w: gateway list response lacks results or total", domain.ErrMalformed)
	}

	results := make([]product.Product, 0, len(*resp.Results))
	for i, rec := range *resp.Results {
		p, err := product.FromRecord(rec)
		if err != nil {
			return page.Envelope{}, fmt.Errorf("gateway result %d: %w", i, err)
		}
		results = append(results, p)
	}

	pg, size := q.Page, q.PageSize
	if resp.Page > 0 {
		pg = resp.Page
	}
	if resp.PageSize > 0 {
		size = resp.PageSize
	}
	total := *resp.Total
	if len(results) > size || total < len(results) {
		return page.Envelope{}, fmt.Errorf("%w: gateway returned %d results for pageSize %d with total %d",
			domain.ErrMalformed, len(results), size, total)
	}
	return page.New(results, pg, size, total), nil
}

// Get fetches a single product. A 404 is authoritative and maps to domain.ErrNotFound.
func (c *Client) Get(ctx context.Context, id string) (product.Product, error) {
	var rec map[string]any
	if err := c.getJSON(ctx, "/products/"+url.PathEscape(id), &rec); err != nil {
		return product.Product{}, err
	}
	p, err := product.FromRecord(rec)
	if err != nil {
		return product.Product{}, fmt.Errorf("gateway product %q: %w", id, err)
	}
	return p, nil
}

// Facets fetches the upstream facet options.
func (c *Client) Facets(ctx context.Context) (facet.Options, error) {
	var f facet.Options
	if err := c.getJSON(ctx, "/facets", &f); err != nil {
		return facet.Options{}, err
	}
	if err := f.Validate(); err != nil {
		return facet.Options{}, fmt.Errorf("gateway: %w", err)
	}
	return f, nil
}

// Ping checks that the upstream answers the facets endpoint.
func (c *Client) Ping(ctx context.Context) error {
	var f facet.Options
	return c.getJSON(ctx, "/facets", &f)
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("%w: build request: %w", domain.ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %w", domain.ErrUnavailable, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound && strings.HasPrefix(path, "/products/"):
		return fmt.Errorf("gateway %s: %w", path, domain.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return fmt.Errorf("%w: GET %s: HTTP %d", domain.ErrUnavailable, path, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(dst); err != nil {
		return fmt.Errorf("%w: GET %s: %w", domain.ErrMalformed, path, err)
	}
	return nil
}

// EncodeQuery renders q as upstream query parameters. Empty values are
// omitted; category and brand sets are comma-joined.
func EncodeQuery(q query.Query) url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if len(q.Categories) > 0 {
		v.Set("categories", strings.Join(q.Categories, ","))
	}
	if len(q.Brands) > 0 {
		v.Set("brands", strings.Join(q.Brands, ","))
	}
	if q.PriceMin != nil {
		v.Set("priceMin", strconv.FormatFloat(*q.PriceMin, 'f', -1, 64))
	}
	if q.PriceMax != nil {
		v.Set("priceMax", strconv.FormatFloat(*q.PriceMax, 'f', -1, 64))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	return v
}
