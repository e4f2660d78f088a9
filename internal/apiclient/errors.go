package apiclient

import (
	"errors"
	"fmt"
)

// Kind classifies why a backend call failed
type Kind int

const (
	// KindTransport means the request never produced a response
	// (network unreachable, canceled context, configured timeout).
	KindTransport Kind = iota + 1
	// KindRejected means the server answered with a non-2xx status
	KindRejected
	// KindShape means the body did not match any recognized shape
	KindShape
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindRejected:
		return "rejected"
	case KindShape:
		return "shape-mismatch"
	default:
		return "unknown"
	}
}

// Error is returned by every failed backend call
type Error struct {
	Kind    Kind
	Method  string
	Path    string
	Status  int    // set for KindRejected
	Message string // server supplied message, when any
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindRejected:
		if e.Message != "" {
			return fmt.Sprintf("%s %s rejected (status %d): %s", e.Method, e.Path, e.Status, e.Message)
		}
		return fmt.Sprintf("%s %s rejected (status %d)", e.Method, e.Path, e.Status)
	case KindShape:
		return fmt.Sprintf("%s %s: unrecognized response shape: %v", e.Method, e.Path, e.Err)
	default:
		return fmt.Sprintf("%s %s failed: %v", e.Method, e.Path, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ShapeError reports a body that could not be normalized for a resource
func ShapeError(path string, err error) *Error {
	return &Error{Kind: KindShape, Method: "GET", Path: path, Err: err}
}

// KindOf returns the failure kind of err, if err carries one
func KindOf(err error) (Kind, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return 0, false
}

// IsTransport reports whether err is a transport failure
func IsTransport(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindTransport
}

// IsRejected reports whether err is a non-2xx response
func IsRejected(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindRejected
}

// IsShape reports whether err is a shape mismatch
func IsShape(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindShape
}

// StatusCode returns the HTTP status carried by err, or 0
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
