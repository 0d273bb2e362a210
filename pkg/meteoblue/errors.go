package meteoblue

import (
	"fmt"
	"strings"
)

// InvalidParameterError reports an argument that was rejected before any
// network call was made.
type InvalidParameterError struct {
	Param   string
	Value   interface{}
	Allowed []string
}

func (e *InvalidParameterError) Error() string {
	if len(e.Allowed) > 0 {
		return fmt.Sprintf("invalid %s %q: must be one of %s",
			e.Param, fmt.Sprint(e.Value), strings.Join(e.Allowed, ", "))
	}
	return fmt.Sprintf("invalid %s: %v", e.Param, e.Value)
}

// TransportError reports a failed network exchange: no response was
// received, so there is nothing to parse.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure for %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProviderError reports a non-2xx response from the weather provider.
// The raw body is kept for diagnostics.
type ProviderError struct {
	StatusCode int
	Body       []byte
}

func (e *ProviderError) Error() string {
	body := string(e.Body)
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("provider returned HTTP %d: %s", e.StatusCode, body)
}

// MalformedResponseError reports a 2xx response whose payload does not
// match the expected schema.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return "malformed provider response: " + e.Reason
}
