package validators

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/checkout"
	pkgerrors "github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/errors"
)

// validate carries the storefront rules (in_phone, in_pincode and friends)
// so server and client reject the same bodies.
var validate = checkout.NewValidator()

// DecodeJSONBody decodes one JSON resource into dest and validates its
// struct tags.
func DecodeJSONBody(r *http.Request, dest any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").WithDetails(map[string]any{"error": err.Error()})
	}
	if err := validate.Struct(dest); err != nil {
		return checkout.FormatValidationErrors(err)
	}
	return nil
}
