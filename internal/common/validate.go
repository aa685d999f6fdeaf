package common

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeValid decodes the request body into dst and enforces its validate
// tags. Failures come back as AppError values ready for JSONError.
func DecodeValid(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return NewAppError("BAD_REQUEST", "invalid payload", http.StatusBadRequest, err)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				details[fe.Field()] = fe.Tag()
			}
			appErr := NewAppError("VALIDATION", "validation failed", http.StatusBadRequest, err)
			appErr.Details = details
			return appErr
		}
		return NewAppError("VALIDATION", "validation failed", http.StatusBadRequest, err)
	}
	return nil
}
