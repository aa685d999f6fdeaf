package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/kanakjewels/storefront/internal/catalog"
	"github.com/kanakjewels/storefront/internal/checkout"
	"github.com/kanakjewels/storefront/internal/discount"
	"github.com/kanakjewels/storefront/internal/resilience"
	"github.com/kanakjewels/storefront/internal/shipping"
)

// Client talks to the commerce platform's REST API. It backs the catalog,
// discount, shipping and order-submission interfaces of the storefront.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client

	// Resilient, when set, handles idempotent reads with retries and a
	// circuit breaker. Writes always go straight through HTTP so an order
	// is never submitted twice.
	Resilient *resilience.HTTPClient
}

// New constructs a platform client with an instrumented transport and a
// circuit breaker on read traffic.
func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    httpClient,
		Resilient: &resilience.HTTPClient{
			Client:      httpClient,
			Breaker:     resilience.NewBreaker(5, 0.5, 15*time.Second).WithTarget("platform"),
			MaxAttempts: 3,
			BaseBackoff: 100 * time.Millisecond,
			Jitter:      0.2,
		},
	}
}

// APIError is a non-2xx platform response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("platform: unexpected status %d: %s", e.StatusCode, e.Body)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	if c == nil || c.HTTP == nil {
		return fmt.Errorf("platform client not configured")
	}
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	var resp *http.Response
	if c.Resilient != nil && method == http.MethodGet {
		resp, err = c.Resilient.Do(ctx, req)
	} else {
		resp, err = c.HTTP.Do(req)
	}
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return notFoundFor(path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// notFoundFor maps a 404 onto the calling domain's sentinel so handlers can
// translate it without knowing about the platform.
func notFoundFor(path string) error {
	switch {
	case strings.HasPrefix(path, "/api/products"):
		return catalog.ErrNotFound
	case strings.HasPrefix(path, "/api/discounts"):
		return discount.ErrNotFound
	case strings.HasPrefix(path, "/api/shipping-methods"):
		return shipping.ErrNotFound
	default:
		return &APIError{StatusCode: http.StatusNotFound}
	}
}

// Products implements catalog.Client.
func (c *Client) Products(ctx context.Context, q catalog.ListQuery) ([]catalog.Product, int, error) {
	query := url.Values{}
	if q.Search != "" {
		query.Set("q", q.Search)
	}
	if q.Category != "" {
		query.Set("category", q.Category)
	}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		query.Set("limit", strconv.Itoa(q.PerPage))
	}
	var resp struct {
		Data  []catalog.Product `json:"data"`
		Total int               `json:"total"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/products", query, nil, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Data, resp.Total, nil
}

// ProductByID implements catalog.Client.
func (c *Client) ProductByID(ctx context.Context, id string) (catalog.Product, error) {
	var resp struct {
		Data catalog.Product `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), nil, nil, &resp); err != nil {
		return catalog.Product{}, err
	}
	return resp.Data, nil
}

// DiscountByCode implements discount.Client.
func (c *Client) DiscountByCode(ctx context.Context, code string) (discount.Discount, error) {
	var resp struct {
		Data discount.Discount `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/discounts/"+url.PathEscape(code), nil, nil, &resp); err != nil {
		return discount.Discount{}, err
	}
	return resp.Data, nil
}

// Methods implements shipping.Client.
func (c *Client) Methods(ctx context.Context) ([]shipping.Method, error) {
	var resp struct {
		Data []shipping.Method `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/shipping-methods", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Method implements shipping.Client.
func (c *Client) Method(ctx context.Context, id string) (shipping.Method, error) {
	var resp struct {
		Data shipping.Method `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/shipping-methods/"+url.PathEscape(id), nil, nil, &resp); err != nil {
		return shipping.Method{}, err
	}
	return resp.Data, nil
}

// SubmitOrder implements checkout.Submitter.
func (c *Client) SubmitOrder(ctx context.Context, req checkout.OrderRequest) (checkout.OrderResult, error) {
	var resp struct {
		Data checkout.OrderResult `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/orders", nil, req, &resp); err != nil {
		return checkout.OrderResult{}, err
	}
	return resp.Data, nil
}

// Ping verifies connectivity with the platform.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}
