// Package outlining generates brief outlines through an LLM: it prompts for
// a sectioned outline as JSON, gates the reply through the outline schema,
// and returns the decoded tree.
package outlining

import "fmt"

// APICallError represents a failure calling the LLM service, including a
// reply that did not survive schema validation.
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("outline generation failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("outline generation failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// InvalidRequestError represents a generation request the service refuses to
// send.
type InvalidRequestError struct {
	Message string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid outline request: %s", e.Message)
}
