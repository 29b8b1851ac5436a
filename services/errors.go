package services

import "errors"

// Sentinel errors mapped to HTTP statuses at the controller boundary.
var (
	ErrValidation   = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)
