package checkout

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/enums"
	pkgerrors "github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/errors"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
)

var (
	phonePattern      = regexp.MustCompile(`^[6-9]\d{9}$`)
	pincodePattern    = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	cardNumberPattern = regexp.MustCompile(`^\d{16}$`)
	cardExpiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/([0-9]{2})$`)
	cardCVVPattern    = regexp.MustCompile(`^[0-9]{3,4}$`)
	upiPattern        = regexp.MustCompile(`^[a-zA-Z0-9.\-_]{2,256}@[a-zA-Z]{2,64}$`)
)

var patternRules = map[string]*regexp.Regexp{
	"in_phone":    phonePattern,
	"in_pincode":  pincodePattern,
	"card_number": cardNumberPattern,
	"card_expiry": cardExpiryPattern,
	"card_cvv":    cardCVVPattern,
}

var sharedValidator = NewValidator()

// NewValidator returns a validator that reports json field names and knows
// the checkout field rules.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	if err := RegisterRules(v); err != nil {
		panic(fmt.Sprintf("register checkout rules: %v", err))
	}
	return v
}

// RegisterRules installs the checkout field rules on v.
func RegisterRules(v *validator.Validate) error {
	for tag, pattern := range patternRules {
		re := pattern
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		}); err != nil {
			return err
		}
	}
	if err := v.RegisterValidation("upi_id", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || upiPattern.MatchString(value)
	}); err != nil {
		return err
	}
	return v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
		return enums.PaymentMethod(fl.Field().String()).IsValid()
	})
}

// CardDetails is the simulated card form.
type CardDetails struct {
	Number string `json:"number" validate:"required,card_number"`
	Expiry string `json:"expiry" validate:"required,card_expiry"`
	CVV    string `json:"cvv" validate:"required,card_cvv"`
	Holder string `json:"holder" validate:"required"`
}

// Payment is the payment half of a checkout submission.
type Payment struct {
	Method enums.PaymentMethod `json:"method" validate:"required,payment_method"`
	Card   *CardDetails        `json:"card,omitempty" validate:"required_if=Method card"`
	UPIID  string              `json:"upiId,omitempty" validate:"required_if=Method upi,upi_id"`
}

// Normalize trims input, strips spaces from the card number and drops the
// details that do not belong to the selected method.
func (p Payment) Normalize() Payment {
	out := Payment{Method: enums.PaymentMethod(strings.ToLower(strings.TrimSpace(string(p.Method))))}
	switch out.Method {
	case enums.PaymentMethodCard:
		if p.Card != nil {
			out.Card = &CardDetails{
				Number: strings.ReplaceAll(strings.TrimSpace(p.Card.Number), " ", ""),
				Expiry: strings.TrimSpace(p.Card.Expiry),
				CVV:    strings.TrimSpace(p.Card.CVV),
				Holder: strings.TrimSpace(p.Card.Holder),
			}
		}
	case enums.PaymentMethodUPI:
		out.UPIID = strings.TrimSpace(p.UPIID)
	}
	return out
}

type submission struct {
	ShippingAddress types.ShippingAddress `json:"shippingAddress"`
	Payment         Payment               `json:"payment"`
}

// Validate checks a checkout submission. Inputs are normalized first; the
// returned error is a validation error whose details name every failing field.
func Validate(shipping types.ShippingAddress, payment Payment) (types.ShippingAddress, Payment, error) {
	sub := submission{
		ShippingAddress: shipping.Normalize(),
		Payment:         payment.Normalize(),
	}
	if err := sharedValidator.Struct(sub); err != nil {
		return sub.ShippingAddress, sub.Payment, FormatValidationErrors(err)
	}
	return sub.ShippingAddress, sub.Payment, nil
}

// FormatValidationErrors converts validator output into a validation error.
func FormatValidationErrors(err error) *pkgerrors.Error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}
	details := map[string]string{}
	missing := false
	for _, fieldErr := range errs {
		details[fieldPath(fieldErr)] = validationMessage(fieldErr)
		if strings.HasPrefix(fieldErr.Tag(), "required") {
			missing = true
		}
	}
	message := "Please correct the highlighted fields"
	if missing {
		message = "Please fill in all required fields"
	}
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(details)
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "in_phone":
		return "must be a valid 10-digit mobile number"
	case "in_pincode":
		return "must be a valid 6-digit pincode"
	case "card_number":
		return "must be 16 digits"
	case "card_expiry":
		return "must be in MM/YY format"
	case "card_cvv":
		return "must be 3 or 4 digits"
	case "upi_id":
		return "must be a valid UPI ID (e.g., name@upi)"
	case "payment_method":
		return "must be one of card, upi, cod"
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	}
	return "is invalid"
}
