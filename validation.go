package auth

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is the region used to parse phone numbers that are not
// in international format
var DefaultPhoneRegion = "US"

// FormatValidationErrorToMap flattens ozzo validation errors into a
// field -> message map suitable for a JSON error body
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, ferr := range verrs {
			if ferr != nil {
				out[field] = ferr.Error()
			}
		}
		return out
	}

	out["error"] = err.Error()
	return out
}

// ValidatePhoneNumber is an ozzo rule for optional phone fields. Empty
// values pass; anything else must parse as a valid number.
func ValidatePhoneNumber(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	parsed, err := phonenumbers.Parse(s, DefaultPhoneRegion)
	if err != nil {
		return errors.New("must be a valid phone number")
	}

	if !phonenumbers.IsValidNumber(parsed) {
		return errors.New("must be a valid phone number")
	}

	return nil
}
