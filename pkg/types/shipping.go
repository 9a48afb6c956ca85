package types

import "strings"

// ShippingAddress is the delivery block captured at checkout.
type ShippingAddress struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"required,in_phone"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	Pincode string `json:"pincode" validate:"required,in_pincode"`
}

// Normalize trims every field.
func (s ShippingAddress) Normalize() ShippingAddress {
	return ShippingAddress{
		Name:    strings.TrimSpace(s.Name),
		Email:   strings.TrimSpace(s.Email),
		Phone:   strings.TrimSpace(s.Phone),
		Address: strings.TrimSpace(s.Address),
		City:    strings.TrimSpace(s.City),
		Pincode: strings.TrimSpace(s.Pincode),
	}
}
