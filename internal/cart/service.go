package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/kanakjewels/storefront/internal/catalog"
	"github.com/kanakjewels/storefront/internal/obs"
	"github.com/kanakjewels/storefront/internal/pricing"
)

// ErrNotFound indicates the requested cart line or product could not be located.
var ErrNotFound = errors.New("not found")

// ErrInvalidInput is returned when the provided payload is invalid.
var ErrInvalidInput = errors.New("invalid input")

// ErrOutOfStock is returned when a product has no available inventory.
var ErrOutOfStock = errors.New("out of stock")

// Catalog resolves products when lines are added.
type Catalog interface {
	Product(ctx context.Context, id string) (catalog.Product, error)
}

// Service encapsulates cart domain operations.
type Service struct {
	Sessions Sessions
	Catalog  Catalog
}

// Get loads the cart for a session.
func (s *Service) Get(ctx context.Context, sessionID string) (*Store, error) {
	if s == nil || s.Sessions == nil {
		return nil, errors.New("cart service not configured")
	}
	if sessionID == "" {
		return nil, fmt.Errorf("session id required: %w", ErrInvalidInput)
	}
	return s.Sessions.Load(ctx, sessionID)
}

// AddProduct resolves the product, prices the line and merges it into the
// session's cart. The line stores the per-unit breakdown alongside the
// quantity-scaled total so later repricing stays exact.
func (s *Service) AddProduct(ctx context.Context, sessionID, productID string, qty int) (store *Store, err error) {
	defer func() { countOp("add", err) }()
	if s == nil || s.Sessions == nil || s.Catalog == nil {
		return nil, errors.New("cart service not configured")
	}
	if qty <= 0 {
		return nil, fmt.Errorf("qty must be positive: %w", ErrInvalidInput)
	}
	product, err := s.Catalog.Product(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Inventory <= 0 {
		return nil, fmt.Errorf("product %s: %w", productID, ErrOutOfStock)
	}

	unit := pricing.Calculate(product.Pricing(), 1)
	total := pricing.Calculate(product.Pricing(), qty)

	store, err = s.Sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	store.AddItem(Line{
		ProductID: product.ID,
		Name:      product.Name,
		SKU:       product.SKU,
		ImageURL:  product.ImageURL,
		Quantity:  qty,
		Inventory: product.Inventory,
		Price:     pricing.NewMoney(total.Currency, total.FinalPrice),
		Breakdown: &unit,
	})
	if err := s.Sessions.Save(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

// UpdateQuantity changes a line's quantity, removing it at zero or below.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, productID string, qty int) (store *Store, err error) {
	defer func() { countOp("update", err) }()
	if s == nil || s.Sessions == nil {
		return nil, errors.New("cart service not configured")
	}
	store, err = s.Sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, ok := store.Get(productID); !ok {
		return nil, fmt.Errorf("cart line %s: %w", productID, ErrNotFound)
	}
	store.UpdateQuantity(productID, qty)
	if err := s.Sessions.Save(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

// RemoveProduct deletes a line from the session's cart.
func (s *Service) RemoveProduct(ctx context.Context, sessionID, productID string) (store *Store, err error) {
	defer func() { countOp("remove", err) }()
	if s == nil || s.Sessions == nil {
		return nil, errors.New("cart service not configured")
	}
	store, err = s.Sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	store.RemoveItem(productID)
	if err := s.Sessions.Save(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

// Clear empties and deletes the session's cart.
func (s *Service) Clear(ctx context.Context, sessionID string) (err error) {
	defer func() { countOp("clear", err) }()
	if s == nil || s.Sessions == nil {
		return errors.New("cart service not configured")
	}
	return s.Sessions.Delete(ctx, sessionID)
}

func countOp(op string, err error) {
	if obs.CartOpsTotal == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	obs.CartOpsTotal.WithLabelValues(op, result).Inc()
}
