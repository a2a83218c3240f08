package agent

import (
	"errors"
	"fmt"
)

// Terminal failures surfaced to the caller. Tool-level and output-parsing
// failures are absorbed into the transcript instead (see pkg/tool and
// extract.go) so the model can self-correct.
var (
	// ErrEmptyResponse means the endpoint returned no choices.
	ErrEmptyResponse = errors.New("model endpoint returned no choices")

	// ErrMissingMessage means the consumed choice carried no message.
	ErrMissingMessage = errors.New("model choice carried no message")

	// ErrMaxIterations means the iteration bound was exceeded without a
	// final output. Chain mode converts this into a forced finalize.
	ErrMaxIterations = errors.New("maximum iterations reached without final output")
)

// EndpointError wraps a network or API failure from the model endpoint.
// Endpoint failures are terminal and never retried.
type EndpointError struct {
	Err error
}

func (e *EndpointError) Error() string {
	return fmt.Sprintf("model endpoint call failed: %v", e.Err)
}

func (e *EndpointError) Unwrap() error {
	return e.Err
}
