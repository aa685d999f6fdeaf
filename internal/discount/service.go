package discount

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kanakjewels/storefront/internal/obs"
)

// ErrNotFound indicates the discount code does not exist.
var ErrNotFound = errors.New("discount not found")

// Client fetches discount records from the platform.
type Client interface {
	DiscountByCode(ctx context.Context, code string) (Discount, error)
}

// Service resolves and applies discount codes.
type Service struct {
	Client Client
	Now    func() time.Time
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Apply resolves the code and computes its effect on the order amount.
func (s *Service) Apply(ctx context.Context, code string, orderAmount decimal.Decimal, orderCurrency string) (Application, error) {
	if s == nil || s.Client == nil {
		return Application{}, errors.New("discount service not configured")
	}
	if code == "" {
		return Application{}, fmt.Errorf("discount code required: %w", ErrNotFound)
	}
	d, err := s.Client.DiscountByCode(ctx, code)
	if err != nil {
		countCheck("error")
		return Application{}, err
	}
	app, err := Apply(d, s.now(), orderAmount, orderCurrency)
	if err != nil {
		countCheck("rejected")
		return Application{}, err
	}
	countCheck("accepted")
	return app, nil
}

func countCheck(result string) {
	if obs.DiscountChecksTotal != nil {
		obs.DiscountChecksTotal.WithLabelValues(result).Inc()
	}
}
