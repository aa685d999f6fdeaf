package discount

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInactive is returned when the discount is disabled.
	ErrInactive = errors.New("discount not active")
	// ErrNotStarted is returned before the discount's validity window opens.
	ErrNotStarted = errors.New("discount not started")
	// ErrExpired is returned after the discount's validity window closes.
	ErrExpired = errors.New("discount expired")
	// ErrUsageLimitReached indicates the discount has exhausted its usage quota.
	ErrUsageLimitReached = errors.New("discount usage limit reached")
	// ErrMinimumOrderUnmet indicates the order total did not meet the discount requirement.
	ErrMinimumOrderUnmet = errors.New("discount minimum order amount not met")
	// ErrCurrencyMismatch is returned when the order currency does not match the discount's.
	ErrCurrencyMismatch = errors.New("discount currency mismatch")
	// ErrUnknownKind is returned for unrecognized discount kinds.
	ErrUnknownKind = errors.New("unknown discount kind")
)

// Discount kinds.
const (
	KindPercentage   = "percentage"
	KindFixedAmount  = "fixed_amount"
	KindFreeShipping = "free_shipping"
)

// Discount captures the runtime constraints of a promotional code.
type Discount struct {
	Code                 string           `json:"code"`
	Kind                 string           `json:"kind"`
	Value                decimal.Decimal  `json:"value"`
	Currency             string           `json:"currency,omitempty"`
	IsActive             bool             `json:"isActive"`
	ValidFrom            *time.Time       `json:"validFrom,omitempty"`
	ValidUntil           *time.Time       `json:"validUntil,omitempty"`
	MaxUses              *int             `json:"maxUses,omitempty"`
	UsedCount            int              `json:"usedCount"`
	MinimumOrderAmount   *decimal.Decimal `json:"minimumOrderAmount,omitempty"`
	MinimumOrderCurrency string           `json:"minimumOrderCurrency,omitempty"`
}

// Application is the result of applying a discount to an order amount.
type Application struct {
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	Currency       string          `json:"currency"`
	Discount       Discount        `json:"discount"`
}

// Validate ensures the discount can be applied at the provided instant and
// order amount. A minimum-order threshold in a different currency rejects
// the discount outright; a zero max-uses means no usage cap.
func (d Discount) Validate(now time.Time, orderAmount decimal.Decimal, orderCurrency string) error {
	if !d.IsActive {
		return ErrInactive
	}
	if d.ValidFrom != nil && now.Before(*d.ValidFrom) {
		return ErrNotStarted
	}
	if d.ValidUntil != nil && now.After(*d.ValidUntil) {
		return ErrExpired
	}
	if d.MaxUses != nil && *d.MaxUses > 0 && d.UsedCount >= *d.MaxUses {
		return ErrUsageLimitReached
	}
	if d.MinimumOrderAmount != nil {
		if d.MinimumOrderCurrency != "" && !strings.EqualFold(d.MinimumOrderCurrency, orderCurrency) {
			return ErrCurrencyMismatch
		}
		if orderAmount.LessThan(*d.MinimumOrderAmount) {
			return ErrMinimumOrderUnmet
		}
	}
	return nil
}

// Apply validates the discount and computes the amount it removes from the
// order. The result never exceeds the order amount and never goes negative.
func Apply(d Discount, now time.Time, orderAmount decimal.Decimal, orderCurrency string) (Application, error) {
	if err := d.Validate(now, orderAmount, orderCurrency); err != nil {
		return Application{}, err
	}

	var amount decimal.Decimal
	switch strings.ToLower(d.Kind) {
	case KindPercentage:
		amount = orderAmount.Mul(d.Value).Div(decimal.NewFromInt(100))
	case KindFixedAmount:
		if d.Currency != "" && !strings.EqualFold(d.Currency, orderCurrency) {
			return Application{}, ErrCurrencyMismatch
		}
		amount = d.Value
	case KindFreeShipping:
		amount = decimal.Zero
	default:
		return Application{}, ErrUnknownKind
	}

	if amount.GreaterThan(orderAmount) {
		amount = orderAmount
	}
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	return Application{
		DiscountAmount: amount,
		Currency:       orderCurrency,
		Discount:       d,
	}, nil
}
