package predict

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse marks a response that arrived but did not carry the
// expected shape.
var ErrMalformedResponse = errors.New("predict: malformed response")

// ErrInvalidRequest marks a payload refused by the request validator before
// any network call.
var ErrInvalidRequest = errors.New("predict: invalid request")

// ServiceError is a response with a non-2xx status. Message holds the
// service's structured error field and is empty when the body had none.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("predict: service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("predict: service returned status %d: %s", e.StatusCode, e.Message)
}

// TransportError wraps failures where no response was obtained.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("predict: transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
