package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/kanakjewels/storefront/internal/common"
	"github.com/kanakjewels/storefront/internal/obs"
)

// ErrNotFound indicates the requested product does not exist.
var ErrNotFound = errors.New("product not found")

// ErrInvalidInput is returned when listing parameters are malformed.
var ErrInvalidInput = errors.New("invalid input")

// Client fetches catalog data from the platform.
type Client interface {
	Products(ctx context.Context, q ListQuery) ([]Product, int, error)
	ProductByID(ctx context.Context, id string) (Product, error)
}

// ListResult is a page of products with the total match count.
type ListResult struct {
	Items   []Product
	Total   int
	Page    int
	PerPage int
}

// Service serves catalog reads through a Redis cache in front of the
// platform API.
type Service struct {
	Client       Client
	Cache        *Cache
	DefaultLimit int
	MaxLimit     int
}

func (s *Service) limits() (def, max int) {
	def, max = 20, 100
	if s != nil && s.DefaultLimit > 0 {
		def = s.DefaultLimit
	}
	if s != nil && s.MaxLimit > 0 {
		max = s.MaxLimit
	}
	return def, max
}

// ParseListParams builds a ListQuery from URL query values.
func (s *Service) ParseListParams(values url.Values) (ListQuery, error) {
	def, max := s.limits()
	page, perPage, err := common.ParsePagination(values, def, max)
	if err != nil {
		return ListQuery{}, fmt.Errorf("%s: %w", err, ErrInvalidInput)
	}
	return ListQuery{
		Search:   strings.TrimSpace(values.Get("q")),
		Category: strings.TrimSpace(values.Get("category")),
		Page:     page,
		PerPage:  perPage,
	}, nil
}

// ListProducts returns a page of products, served from cache when possible.
func (s *Service) ListProducts(ctx context.Context, q ListQuery) (ListResult, error) {
	if s == nil || s.Client == nil {
		return ListResult{}, errors.New("catalog service not configured")
	}
	key := listCacheKey(q)
	var cached ListResult
	if hit, err := s.Cache.GetJSON(ctx, key, &cached); err == nil && hit {
		countCache("hit")
		return cached, nil
	}
	countCache("miss")
	items, total, err := s.Client.Products(ctx, q)
	if err != nil {
		return ListResult{}, err
	}
	result := ListResult{Items: items, Total: total, Page: q.Page, PerPage: q.PerPage}
	_ = s.Cache.SetJSON(ctx, key, result)
	return result, nil
}

// Product returns a single product by identifier, served from cache when
// possible.
func (s *Service) Product(ctx context.Context, id string) (Product, error) {
	if s == nil || s.Client == nil {
		return Product{}, errors.New("catalog service not configured")
	}
	if strings.TrimSpace(id) == "" {
		return Product{}, fmt.Errorf("product id required: %w", ErrInvalidInput)
	}
	key := "catalog:product:" + id
	var cached Product
	if hit, err := s.Cache.GetJSON(ctx, key, &cached); err == nil && hit {
		countCache("hit")
		return cached, nil
	}
	countCache("miss")
	product, err := s.Client.ProductByID(ctx, id)
	if err != nil {
		return Product{}, err
	}
	_ = s.Cache.SetJSON(ctx, key, product)
	return product, nil
}

func listCacheKey(q ListQuery) string {
	return fmt.Sprintf("catalog:products:q=%s:cat=%s:page=%d:limit=%d", q.Search, q.Category, q.Page, q.PerPage)
}

func countCache(result string) {
	if obs.CatalogCacheTotal != nil {
		obs.CatalogCacheTotal.WithLabelValues(result).Inc()
	}
}
