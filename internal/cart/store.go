package cart

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kanakjewels/storefront/internal/pricing"
)

// Line is a single cart entry. Price holds the total for the line (unit
// price times quantity), and Breakdown, when present, carries the per-unit
// charge decomposition captured at add time.
type Line struct {
	ProductID string             `json:"productId"`
	Name      string             `json:"name"`
	SKU       string             `json:"sku,omitempty"`
	ImageURL  string             `json:"imageUrl,omitempty"`
	Quantity  int                `json:"quantity"`
	Inventory int                `json:"inventory"`
	Price     pricing.Money      `json:"price"`
	Breakdown *pricing.Breakdown `json:"priceBreakdown,omitempty"`
}

// Store is a session-scoped cart document. Mutations are pure in-memory
// operations; persistence is the Sessions layer's concern.
type Store struct {
	ID        string    `json:"id"`
	Lines     []Line    `json:"lines"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewStore returns an empty cart bound to the given session identifier.
func NewStore(id string) *Store {
	return &Store{ID: id}
}

// AddItem inserts the line, or merges it into an existing line for the same
// product. On merge only the quantity accumulates; the existing line keeps
// its captured price and breakdown.
func (s *Store) AddItem(line Line) {
	for i := range s.Lines {
		if s.Lines[i].ProductID == line.ProductID {
			s.Lines[i].Quantity += line.Quantity
			return
		}
	}
	s.Lines = append(s.Lines, line)
}

// RemoveItem deletes the line for the given product. Unknown products are a
// no-op.
func (s *Store) RemoveItem(productID string) {
	for i := range s.Lines {
		if s.Lines[i].ProductID == productID {
			s.Lines = append(s.Lines[:i], s.Lines[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the quantity for a product's line and reprices it.
// A quantity of zero or less removes the line. Lines with a breakdown are
// repriced exactly from the per-unit final price; lines without one are
// rescaled proportionally from the previous total.
func (s *Store) UpdateQuantity(productID string, qty int) {
	if qty <= 0 {
		s.RemoveItem(productID)
		return
	}
	for i := range s.Lines {
		l := &s.Lines[i]
		if l.ProductID != productID {
			continue
		}
		q := decimal.NewFromInt(int64(qty))
		if l.Breakdown != nil {
			l.Price.Amount = l.Breakdown.FinalPrice.Mul(q)
		} else if l.Quantity > 0 {
			oldQty := decimal.NewFromInt(int64(l.Quantity))
			l.Price.Amount = l.Price.Amount.Mul(q).Div(oldQty)
		}
		l.Quantity = qty
		return
	}
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.Lines = nil
}

// Get returns the line for a product, if present.
func (s *Store) Get(productID string) (Line, bool) {
	for _, l := range s.Lines {
		if l.ProductID == productID {
			return l, true
		}
	}
	return Line{}, false
}

// ItemCount returns the total number of units across all lines.
func (s *Store) ItemCount() int {
	var n int
	for _, l := range s.Lines {
		n += l.Quantity
	}
	return n
}

// TotalAmount sums the line totals without any breakdown awareness. The
// checkout aggregator computes the authoritative total.
func (s *Store) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.Lines {
		total = total.Add(l.Price.Amount)
	}
	return total
}
