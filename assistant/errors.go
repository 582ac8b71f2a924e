package assistant

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyResponse reports a stream that completed with no usable text and
// no entities, even after the fallback full-body pass.
var ErrEmptyResponse = errors.New("assistant: empty response")

// TransportError is a non-2xx reply from the backend. The body is drained
// as plain text for diagnostics and never fed into the framer.
type TransportError struct {
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("assistant: backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("assistant: backend returned status %d: %s", e.StatusCode, body)
}
