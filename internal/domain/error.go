package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound          = errors.New("entity not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDeliveryFailed    = errors.New("delivery failed")
	ErrCodeConflict      = errors.New("code already used or unknown")
	ErrUnknownProduct    = errors.New("unknown product type")
	ErrRateLimited       = errors.New("rate limited")

	// Persistence errors
	ErrOperationFailed    = errors.New("database operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid database execution context")
)
