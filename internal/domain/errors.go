// Package domain defines the core business entities and errors.
package domain

import "errors"

// ErrValidation is the root of the domain validation error category.
// The entity-specific validation sentinels all wrap it, so
// errors.Is(err, ErrValidation) matches any of them.
var ErrValidation = errors.New("validation failed")
