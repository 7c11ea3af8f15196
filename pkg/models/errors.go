package models

import "errors"

// Failure kinds surfaced to callers. Handlers map these onto HTTP statuses;
// everything else is reported as an internal error.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
)
