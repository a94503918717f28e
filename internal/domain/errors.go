package domain

import "errors"

// Sentinel errors for catalog operations
var (
	// ErrCatalogOffline indicates the catalog server could not be reached
	ErrCatalogOffline = errors.New("network connection to catalog failed")

	// ErrRequestTimeout indicates a catalog request timed out
	ErrRequestTimeout = errors.New("catalog request timed out")

	// ErrInvalidResponse indicates the catalog returned an unusable payload
	ErrInvalidResponse = errors.New("invalid response from catalog")
)

// ErrorCategory buckets a failure for retry policy and user messaging.
type ErrorCategory int

const (
	ErrorUnknown ErrorCategory = iota
	ErrorTimeout
	ErrorNetwork
	ErrorOffline
	ErrorValidation
)

// String returns a human-readable representation of the category.
func (c ErrorCategory) String() string {
	switch c {
	case ErrorTimeout:
		return "timeout"
	case ErrorNetwork:
		return "network"
	case ErrorOffline:
		return "offline"
	case ErrorValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// ClassifiedError is the single failure shape that crosses the engine's
// public boundary. Details keeps the original failure value for
// diagnostics, whatever its type was.
type ClassifiedError struct {
	Category  ErrorCategory
	Retryable bool
	Message   string // Always non-empty
	Details   any    // Original failure value
}

// Error implements the error interface.
func (e *ClassifiedError) Error() string {
	return e.Message
}

// Unwrap exposes the original error when there was one, so errors.Is
// still works through classification.
func (e *ClassifiedError) Unwrap() error {
	if err, ok := e.Details.(error); ok {
		return err
	}
	return nil
}
