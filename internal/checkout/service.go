package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kanakjewels/storefront/internal/cart"
	"github.com/kanakjewels/storefront/internal/discount"
	"github.com/kanakjewels/storefront/internal/lock"
	"github.com/kanakjewels/storefront/internal/obs"
	"github.com/kanakjewels/storefront/internal/pricing"
	"github.com/kanakjewels/storefront/internal/shipping"
)

// ErrEmptyCart is returned when checkout is attempted on an empty cart.
var ErrEmptyCart = errors.New("cart is empty")

// Address is the delivery destination captured at checkout.
type Address struct {
	ReceiverName string `json:"receiverName"`
	Phone        string `json:"phone"`
	Country      string `json:"country"`
	State        string `json:"state"`
	City         string `json:"city"`
	PostalCode   string `json:"postalCode"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
}

// OrderItem is a purchased line as submitted to the platform. UnitPrice
// carries the line's captured total price.
type OrderItem struct {
	ProductID string        `json:"productId"`
	Quantity  int           `json:"quantity"`
	UnitPrice pricing.Money `json:"unitPrice"`
}

// OrderRequest is the order submission payload.
type OrderRequest struct {
	CustomerID       string        `json:"customerId,omitempty"`
	PaymentMethodID  string        `json:"paymentMethodId"`
	ShippingMethodID string        `json:"shippingMethodId"`
	ShippingAddress  Address       `json:"shippingAddress"`
	DiscountCode     string        `json:"discountCode,omitempty"`
	Items            []OrderItem   `json:"items"`
	Total            pricing.Money `json:"total"`
}

// OrderResult is the platform's acknowledgement of a placed order.
type OrderResult struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// Submitter places orders with the platform.
type Submitter interface {
	SubmitOrder(ctx context.Context, req OrderRequest) (OrderResult, error)
}

// Input is the checkout request body.
type Input struct {
	CustomerID       string  `json:"customerId"`
	PaymentMethodID  string  `json:"paymentMethodId" validate:"required"`
	ShippingMethodID string  `json:"shippingMethodId" validate:"required"`
	ShippingAddress  Address `json:"shippingAddress"`
	DiscountCode     string  `json:"discountCode"`
}

// Service orchestrates quoting and order placement over the session cart.
type Service struct {
	Cart      *cart.Service
	Shipping  shipping.Client
	Discounts *discount.Service
	Submitter Submitter
	Currency  string

	// Lock, when set, serializes order placement per session so concurrent
	// submissions of the same cart cannot both go through.
	Lock    *lock.Locker
	LockTTL time.Duration
}

func (s *Service) currency() string {
	if s != nil && s.Currency != "" {
		return s.Currency
	}
	return pricing.DefaultCurrency
}

// Quote computes the payable totals for the session's cart without placing
// an order.
func (s *Service) Quote(ctx context.Context, sessionID string, shippingMethodID, discountCode string) (Totals, error) {
	if s == nil || s.Cart == nil {
		return Totals{}, errors.New("checkout service not configured")
	}
	store, err := s.Cart.Get(ctx, sessionID)
	if err != nil {
		return Totals{}, err
	}
	return s.totals(ctx, store, shippingMethodID, discountCode)
}

// PlaceOrder prices the session's cart, submits the order to the platform
// and clears the cart once the submission succeeds.
func (s *Service) PlaceOrder(ctx context.Context, sessionID string, in Input) (OrderResult, Totals, error) {
	if s == nil || s.Cart == nil || s.Submitter == nil {
		return OrderResult{}, Totals{}, errors.New("checkout service not configured")
	}
	if s.Lock == nil {
		return s.placeOrder(ctx, sessionID, in)
	}
	ttl := s.LockTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	var (
		result OrderResult
		totals Totals
	)
	err := s.Lock.WithLock(ctx, "checkout:lock:"+sessionID, ttl, func(ctx context.Context) error {
		var lockErr error
		result, totals, lockErr = s.placeOrder(ctx, sessionID, in)
		return lockErr
	})
	return result, totals, err
}

func (s *Service) placeOrder(ctx context.Context, sessionID string, in Input) (OrderResult, Totals, error) {
	store, err := s.Cart.Get(ctx, sessionID)
	if err != nil {
		return OrderResult{}, Totals{}, err
	}
	if len(store.Lines) == 0 {
		return OrderResult{}, Totals{}, ErrEmptyCart
	}

	totals, err := s.totals(ctx, store, in.ShippingMethodID, in.DiscountCode)
	if err != nil {
		return OrderResult{}, Totals{}, err
	}

	items := make([]OrderItem, 0, len(store.Lines))
	for _, l := range store.Lines {
		items = append(items, OrderItem{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.Price,
		})
	}
	req := OrderRequest{
		CustomerID:       in.CustomerID,
		PaymentMethodID:  in.PaymentMethodID,
		ShippingMethodID: in.ShippingMethodID,
		ShippingAddress:  in.ShippingAddress,
		DiscountCode:     in.DiscountCode,
		Items:            items,
		Total:            pricing.NewMoney(s.currency(), totals.Final),
	}
	result, err := s.Submitter.SubmitOrder(ctx, req)
	if err != nil {
		if obs.OrdersPlacedTotal != nil {
			obs.OrdersPlacedTotal.WithLabelValues("error").Inc()
		}
		return OrderResult{}, Totals{}, fmt.Errorf("submit order: %w", err)
	}
	if obs.OrdersPlacedTotal != nil {
		obs.OrdersPlacedTotal.WithLabelValues("success").Inc()
	}
	if obs.OrderTotalAmount != nil {
		obs.OrderTotalAmount.Observe(totals.Final.InexactFloat64())
	}

	// The order is already accepted upstream; a failed cart clear must not
	// fail the checkout.
	_ = s.Cart.Clear(ctx, sessionID)

	return result, totals, nil
}

func (s *Service) totals(ctx context.Context, store *cart.Store, shippingMethodID, discountCode string) (Totals, error) {
	shippingCost := decimal.Zero
	if shippingMethodID != "" {
		if s.Shipping == nil {
			return Totals{}, errors.New("shipping provider not configured")
		}
		method, err := s.Shipping.Method(ctx, shippingMethodID)
		if err != nil {
			return Totals{}, err
		}
		shippingCost = method.BaseCost.Amount
	}
	if shippingCost.IsNegative() {
		shippingCost = decimal.Zero
	}

	base := ComputeTotals(store.Lines, decimal.Zero, decimal.Zero)

	discountAmount := decimal.Zero
	if discountCode != "" {
		if s.Discounts == nil {
			return Totals{}, errors.New("discount service not configured")
		}
		app, err := s.Discounts.Apply(ctx, discountCode, base.Base, s.currency())
		if err != nil {
			return Totals{}, err
		}
		discountAmount = app.DiscountAmount
	}

	return ComputeTotals(store.Lines, shippingCost, discountAmount), nil
}
