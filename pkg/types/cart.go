package types

import "time"

// CartRow links one identity, one product and a quantity.
type CartRow struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId" validate:"required"`
	ProductID string    `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"min=1"`
	AddedAt   time.Time `json:"addedAt"`
}

// CartRowPatch changes a row's quantity.
type CartRowPatch struct {
	Quantity int `json:"quantity" validate:"min=1"`
}

// LineItem is a cart row joined with its product at read time.
type LineItem struct {
	Product
	Quantity   int       `json:"quantity"`
	CartItemID string    `json:"cartItemId"`
	AddedAt    time.Time `json:"addedAt"`
}

// LineTotal is price times quantity.
func (l LineItem) LineTotal() Amount {
	return l.Price.Times(l.Quantity)
}

// Clone returns a deep copy.
func (l LineItem) Clone() LineItem {
	out := l
	out.Product = l.Product.Clone()
	return out
}

// CloneLineItems deep-copies a slice of line items.
func CloneLineItems(items []LineItem) []LineItem {
	if items == nil {
		return nil
	}
	out := make([]LineItem, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}
