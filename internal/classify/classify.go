// Package classify maps arbitrary failure values to typed, retryable,
// user-facing errors. It is a pure function of its input: any value a
// fetch delegate returns or panics with comes out as exactly one
// domain.ClassifiedError with a non-empty message.
package classify

import (
	"fmt"
	"strings"

	"github.com/lumetv/lume/internal/domain"
)

// fallbackMessage is substituted when the failure carries no usable text.
const fallbackMessage = "An unexpected error occurred"

// Classify maps any failure value to a ClassifiedError. Non-error values
// (strings, plain structs, nil) are accepted; the original value is
// always preserved in Details.
func Classify(v any) *domain.ClassifiedError {
	msg := messageOf(v)

	category := domain.ErrorUnknown
	retryable := true

	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "timed out"):
		category = domain.ErrorTimeout
	case strings.Contains(lower, "offline") || strings.Contains(lower, "internet"):
		// Checked before network: "no internet connection" is an offline
		// failure, and retrying without connectivity is wasted work.
		category = domain.ErrorOffline
		retryable = false
	case strings.Contains(lower, "network") || strings.Contains(lower, "connection") || strings.Contains(lower, "fetch"):
		category = domain.ErrorNetwork
	case strings.Contains(lower, "invalid") || strings.Contains(lower, "validation"):
		// May be a transient bad payload.
		category = domain.ErrorValidation
	}

	if msg == "" {
		msg = fallbackMessage
	}

	return &domain.ClassifiedError{
		Category:  category,
		Retryable: retryable,
		Message:   msg,
		Details:   v,
	}
}

// messageOf extracts a human-readable message from a failure value,
// returning "" when there is none.
func messageOf(v any) string {
	switch f := v.(type) {
	case nil:
		return ""
	case error:
		return strings.TrimSpace(f.Error())
	case string:
		return strings.TrimSpace(f)
	case fmt.Stringer:
		return strings.TrimSpace(f.String())
	default:
		return ""
	}
}
