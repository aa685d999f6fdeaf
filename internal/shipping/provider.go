package shipping

import (
	"context"
	"errors"

	"github.com/kanakjewels/storefront/internal/pricing"
)

// ErrNotFound indicates the requested shipping method does not exist.
var ErrNotFound = errors.New("shipping method not found")

// Method is a delivery option offered at checkout.
type Method struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Description      string        `json:"description,omitempty"`
	BaseCost         pricing.Money `json:"baseCost"`
	IsExpress        bool          `json:"isExpress"`
	EstimatedDaysMin int           `json:"estimatedDaysMin"`
	EstimatedDaysMax int           `json:"estimatedDaysMax"`
}

// Client fetches shipping methods from the platform.
type Client interface {
	Methods(ctx context.Context) ([]Method, error)
	Method(ctx context.Context, id string) (Method, error)
}
