package pricing

import "github.com/shopspring/decimal"

// DefaultCurrency is assumed when a product record carries no currency code.
const DefaultCurrency = "INR"

// Money pairs a decimal amount with an ISO-like currency code.
type Money struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// NewMoney constructs a Money value, falling back to the default currency.
func NewMoney(currency string, amount decimal.Decimal) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{Currency: currency, Amount: amount}
}

// Rounded returns the amount rounded to two decimal places for display.
func (m Money) Rounded() decimal.Decimal {
	return m.Amount.Round(2)
}
