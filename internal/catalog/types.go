package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/kanakjewels/storefront/internal/pricing"
)

// Product is a catalog record as served by the platform API, including the
// jewelry pricing fields that feed the breakdown calculator.
type Product struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	SKU         string        `json:"sku,omitempty"`
	Category    string        `json:"category,omitempty"`
	ImageURL    string        `json:"imageUrl,omitempty"`
	Inventory   int           `json:"inventory"`
	Price       pricing.Money `json:"price"`

	MetalType   string           `json:"metalType,omitempty"`
	MetalPurity string           `json:"metalPurity,omitempty"`
	GrossWeight *decimal.Decimal `json:"grossWeight,omitempty"`
	NetWeight   *decimal.Decimal `json:"netWeight,omitempty"`
	StoneType   string           `json:"stoneType,omitempty"`
	StoneWeight *decimal.Decimal `json:"stoneWeight,omitempty"`

	MetalValue     *decimal.Decimal `json:"metalValue,omitempty"`
	WastageValue   *decimal.Decimal `json:"wastageValue,omitempty"`
	WastagePercent *decimal.Decimal `json:"wastagePercent,omitempty"`
	MakingCharges  *decimal.Decimal `json:"makingCharges,omitempty"`
	StoneCharges   *decimal.Decimal `json:"stoneCharges,omitempty"`
	GSTPercent     *decimal.Decimal `json:"gstPercent,omitempty"`
}

// Pricing projects the product onto the calculator input.
func (p Product) Pricing() pricing.ProductPricing {
	return pricing.ProductPricing{
		PriceAmount:    p.Price.Amount,
		MetalValue:     p.MetalValue,
		WastageValue:   p.WastageValue,
		WastagePercent: p.WastagePercent,
		MakingCharges:  p.MakingCharges,
		StoneCharges:   p.StoneCharges,
		GSTPercent:     p.GSTPercent,
		Currency:       p.Price.Currency,
	}
}

// ListQuery narrows a product listing request.
type ListQuery struct {
	Search   string
	Category string
	Page     int
	PerPage  int
}
