package llm

import (
	"errors"
	"fmt"
)

// ErrMalformedReply marks a reply that is not the expected JSON document.
var ErrMalformedReply = errors.New("malformed model reply")

// UpstreamError is a non-2xx answer from the provider.
type UpstreamError struct {
	Engine     string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %d", e.Engine, e.StatusCode)
	}
	return fmt.Sprintf("%s %d: %s", e.Engine, e.StatusCode, e.Message)
}

// IsUpstream reports whether err carries an upstream HTTP status.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

// Outcome buckets an assessment error for metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsUpstream(err):
		return "upstream_status"
	case errors.Is(err, ErrMalformedReply):
		return "malformed_reply"
	default:
		return "transport"
	}
}
