package models

import (
	"strings"
	"time"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/enums"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
)

// Order persists a placed order. Items and ShippingAddress are JSON columns.
type Order struct {
	ID              string                `gorm:"column:id;type:text;primaryKey"`
	UserID          string                `gorm:"column:user_id;type:text;not null;index"`
	Items           []types.LineItem      `gorm:"column:items;type:text;serializer:json;not null"`
	ShippingAddress types.ShippingAddress `gorm:"column:shipping_address;type:text;serializer:json;not null"`
	ShippingName    string                `gorm:"column:shipping_name;not null;default:''"`
	ShippingEmail   string                `gorm:"column:shipping_email;not null;default:''"`
	PaymentMethod   enums.PaymentMethod   `gorm:"column:payment_method;type:text;not null"`
	PaymentStatus   enums.PaymentStatus   `gorm:"column:payment_status;type:text;not null"`
	Status          enums.OrderStatus     `gorm:"column:status;type:text;not null;index"`
	Subtotal        types.Amount          `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Tax             types.Amount          `gorm:"column:tax;type:numeric(12,2);not null"`
	CODFee          types.Amount          `gorm:"column:cod_fee;type:numeric(12,2);not null"`
	Total           types.Amount          `gorm:"column:total;type:numeric(12,2);not null"`
	PlacedAt        time.Time             `gorm:"column:placed_at;not null;index"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string { return "orders" }

func (o Order) ToType() types.Order {
	return types.Order{
		ID:              o.ID,
		UserID:          o.UserID,
		Items:           types.CloneLineItems(o.Items),
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		PaymentStatus:   o.PaymentStatus,
		Status:          o.Status,
		Subtotal:        o.Subtotal,
		Tax:             o.Tax,
		CODFee:          o.CODFee,
		Total:           o.Total,
		Date:            o.PlacedAt.UTC(),
	}
}

// OrderFromType builds a row from a wire order. Shipping name and the
// lowercased shipping email are denormalized for search and ownership.
func OrderFromType(o types.Order) Order {
	items := types.CloneLineItems(o.Items)
	if items == nil {
		items = []types.LineItem{}
	}
	return Order{
		ID:              o.ID,
		UserID:          o.UserID,
		Items:           items,
		ShippingAddress: o.ShippingAddress,
		ShippingName:    o.ShippingAddress.Name,
		ShippingEmail:   strings.ToLower(strings.TrimSpace(o.ShippingAddress.Email)),
		PaymentMethod:   o.PaymentMethod,
		PaymentStatus:   o.PaymentStatus,
		Status:          o.Status,
		Subtotal:        o.Subtotal,
		Tax:             o.Tax,
		CODFee:          o.CODFee,
		Total:           o.Total,
		PlacedAt:        o.Date.UTC(),
	}
}
