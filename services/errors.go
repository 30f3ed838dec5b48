package services

import "errors"

var (
	// ErrNotFound is returned when a record does not exist or does not
	// belong to the requesting user.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidInput is returned for malformed or out-of-range payloads.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTransaction wraps store transaction failures (timeout, conflict).
	// Callers may retry the whole operation.
	ErrTransaction = errors.New("transaction failed")
)
