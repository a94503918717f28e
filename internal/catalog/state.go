package catalog

import "github.com/lumetv/lume/internal/domain"

// Status is the lifecycle phase of a collection request.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

// String returns a human-readable representation of the status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is the consumer-facing snapshot of a collection request. The
// engine never returns a raw error to its caller; failures surface here
// as a single classified error.
type State struct {
	Status    Status
	Content   []domain.ContentItem
	Err       *domain.ClassifiedError // nil unless Status is StatusError
	HasMore   bool                    // More pages likely exist
	FromCache bool                    // Content served without a fetch
}
