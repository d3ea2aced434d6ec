package httpx

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 64 << 10

func DecodeJSON(body io.Reader, v interface{}) error {
	return decode(body, v, true)
}

// DecodeJSONLenient is DecodeJSON without the unknown-field check, for public
// endpoints fed by forms we do not control.
func DecodeJSONLenient(body io.Reader, v interface{}) error {
	return decode(body, v, false)
}

func decode(body io.Reader, v interface{}, strict bool) error {
	dec := json.NewDecoder(io.LimitReader(body, maxBodyBytes))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain a single JSON object")
	}
	return nil
}

// ValidationDetails maps each failing field to message(err), or to the
// failed tag when message is nil. The first failure per field wins.
func ValidationDetails(errs validator.ValidationErrors, message func(validator.FieldError) string) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	details := make(map[string]string, len(errs))
	for _, err := range errs {
		if _, seen := details[err.Field()]; seen {
			continue
		}
		if message != nil {
			details[err.Field()] = message(err)
		} else {
			details[err.Field()] = err.Tag()
		}
	}
	return details
}
