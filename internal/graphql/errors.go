package graphql

import (
	"fmt"
	"net/http"
)

// Error is one entry of a GraphQL response's errors list.
type Error struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (e *Error) Error() string { return e.Message }

// StatusError reports a response that carried no usable GraphQL envelope.
type StatusError struct {
	StatusCode int
	Err        error
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("graphql: http %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("graphql: http %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *StatusError) Unwrap() error { return e.Err }
