package shared

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Package-level validator shared by every handler; validator.Validate
// caches struct metadata, so one instance serves all request types.
var validate = validator.New()

// DecodeJSON decodes the request body into the given struct.
func DecodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// ValidateRequest checks the given struct against its validator tags.
func ValidateRequest(v any) error {
	return validate.Struct(v)
}
