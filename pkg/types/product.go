package types

import "strings"

// placeholderMarker flags internal image-holder records that must never be
// listed to shoppers or admins.
const placeholderMarker = "store image"

// Product is a catalog entry as the store serves it.
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Price         Amount   `json:"price"`
	OriginalPrice *Amount  `json:"originalPrice,omitempty"`
	Rating        float64  `json:"rating"`
	Description   string   `json:"description"`
	Image         string   `json:"image,omitempty"`
	IsNew         bool     `json:"isNew"`
	IsOnSale      bool     `json:"isOnSale"`
	Featured      bool     `json:"featured,omitempty"`
	Stock         *int     `json:"stock,omitempty"`
	Tags          []string `json:"tags,omitempty"`
}

// Clone returns a copy that shares no pointers with p.
func (p Product) Clone() Product {
	out := p
	if p.OriginalPrice != nil {
		op := *p.OriginalPrice
		out.OriginalPrice = &op
	}
	if p.Stock != nil {
		stock := *p.Stock
		out.Stock = &stock
	}
	if p.Tags != nil {
		out.Tags = append([]string(nil), p.Tags...)
	}
	return out
}

// IsPlaceholder reports whether the record is an internal placeholder.
func (p Product) IsPlaceholder() bool {
	return strings.Contains(strings.ToLower(p.Name), placeholderMarker)
}

// WithoutPlaceholders filters placeholder records out of a listing.
func WithoutPlaceholders(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.IsPlaceholder() {
			continue
		}
		out = append(out, p)
	}
	return out
}
