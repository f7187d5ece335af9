// Package rewriting provides the selection rewrite service: it transforms a
// selected run of article text (rewrite, expand, shorten, or a custom
// instruction) using an LLM, keeping the surrounding context in the prompt.
package rewriting

import "fmt"

// APICallError represents a failure calling the LLM service. The core keeps
// no finer taxonomy than "it failed"; the caller resets and the user
// re-initiates.
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rewrite API call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("rewrite API call failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// InvalidRequestError represents a rewrite request the service refuses to
// send: unknown action, empty text, or a custom action with no instruction.
type InvalidRequestError struct {
	Message string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid rewrite request: %s", e.Message)
}
