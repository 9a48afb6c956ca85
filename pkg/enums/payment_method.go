package enums

import "fmt"

// PaymentMethod describes how a shopper settles an order. Card and UPI are
// simulated as paid at checkout.
type PaymentMethod string

const (
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodUPI  PaymentMethod = "upi"
	PaymentMethodCOD  PaymentMethod = "cod"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCard,
	PaymentMethodUPI,
	PaymentMethodCOD,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsCashOnDelivery reports whether payment is collected at the door.
func (p PaymentMethod) IsCashOnDelivery() bool {
	return p == PaymentMethodCOD
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
