package classify

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumetv/lume/internal/domain"
)

type opaqueFailure struct {
	Code int
}

type stringerFailure struct{}

func (stringerFailure) String() string { return "connection reset by peer" }

func TestClassifyCategories(t *testing.T) {
	tests := []struct {
		name      string
		input     any
		category  domain.ErrorCategory
		retryable bool
		message   string
	}{
		{
			name:      "timeout error",
			input:     errors.New("request timed out after 30s"),
			category:  domain.ErrorTimeout,
			retryable: true,
			message:   "request timed out after 30s",
		},
		{
			name:      "network error",
			input:     errors.New("network unreachable"),
			category:  domain.ErrorNetwork,
			retryable: true,
			message:   "network unreachable",
		},
		{
			name:      "fetch failure string",
			input:     "failed to fetch collection",
			category:  domain.ErrorNetwork,
			retryable: true,
			message:   "failed to fetch collection",
		},
		{
			name:      "offline is not retryable",
			input:     errors.New("no internet connection"),
			category:  domain.ErrorOffline,
			retryable: false,
			message:   "no internet connection",
		},
		{
			name:      "validation error",
			input:     errors.New("invalid response from catalog"),
			category:  domain.ErrorValidation,
			retryable: true,
			message:   "invalid response from catalog",
		},
		{
			name:      "unknown error",
			input:     errors.New("something odd happened"),
			category:  domain.ErrorUnknown,
			retryable: true,
			message:   "something odd happened",
		},
		{
			name:      "nil failure",
			input:     nil,
			category:  domain.ErrorUnknown,
			retryable: true,
			message:   "An unexpected error occurred",
		},
		{
			name:      "opaque struct",
			input:     opaqueFailure{Code: 42},
			category:  domain.ErrorUnknown,
			retryable: true,
			message:   "An unexpected error occurred",
		},
		{
			name:      "stringer failure",
			input:     stringerFailure{},
			category:  domain.ErrorNetwork,
			retryable: true,
			message:   "connection reset by peer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.input)
			require.NotNil(t, got)
			assert.Equal(t, tt.category, got.Category)
			assert.Equal(t, tt.retryable, got.Retryable)
			assert.Equal(t, tt.message, got.Message)
		})
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	got := Classify(errors.New("Request TIMEOUT"))
	assert.Equal(t, domain.ErrorTimeout, got.Category)
}

func TestClassifyOfflineBeatsValidation(t *testing.T) {
	// An offline failure mentioning "offline" must short-circuit retries
	// even when other keywords are absent.
	got := Classify("client is offline")
	assert.Equal(t, domain.ErrorOffline, got.Category)
	assert.False(t, got.Retryable)
}

func TestClassifyPreservesDetails(t *testing.T) {
	original := opaqueFailure{Code: 7}
	got := Classify(original)
	assert.Equal(t, original, got.Details, "original failure value must survive classification")

	err := fmt.Errorf("wrapped: %w", domain.ErrCatalogOffline)
	got = Classify(err)
	assert.Equal(t, err, got.Details)
}

func TestClassifySentinelErrors(t *testing.T) {
	assert.Equal(t, domain.ErrorNetwork, Classify(domain.ErrCatalogOffline).Category)
	assert.Equal(t, domain.ErrorTimeout, Classify(domain.ErrRequestTimeout).Category)
	assert.Equal(t, domain.ErrorValidation, Classify(domain.ErrInvalidResponse).Category)
}
