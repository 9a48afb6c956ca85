package types

import (
	"time"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/enums"
)

// Order is a placed order. Items is a snapshot of the cart at checkout.
type Order struct {
	ID              string              `json:"id"`
	UserID          string              `json:"userId"`
	Items           []LineItem          `json:"items"`
	ShippingAddress ShippingAddress     `json:"shippingAddress"`
	PaymentMethod   enums.PaymentMethod `json:"paymentMethod"`
	PaymentStatus   enums.PaymentStatus `json:"paymentStatus"`
	Status          enums.OrderStatus   `json:"status"`
	Subtotal        Amount              `json:"subtotal"`
	Tax             Amount              `json:"tax"`
	CODFee          Amount              `json:"codFee"`
	Total           Amount              `json:"total"`
	Date            time.Time           `json:"date"`
}

// Clone returns a deep copy.
func (o Order) Clone() Order {
	out := o
	out.Items = CloneLineItems(o.Items)
	return out
}

// ItemCount sums item quantities.
func (o Order) ItemCount() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}
