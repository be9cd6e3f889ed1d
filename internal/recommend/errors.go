package recommend

import "fmt"

// ExternalServiceError is a failed call to the generation service.
type ExternalServiceError struct {
	Err error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("recommendation service failed: %v", e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// MalformedResponseError is an answer that does not satisfy the response schema.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed recommendation response: %s: %v", e.Reason, e.Err)
	}
	return "malformed recommendation response: " + e.Reason
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
