// Package view turns fetch results into the loading/error/data states the
// public pages render.
package view

import (
	"context"
	"errors"
	"fmt"

	"github.com/smolensk-traffic/portal/internal/apiclient"
)

// ErrDetached is returned by Load when the caller went away before the
// fetch finished. The page is left Loading and must not be rendered.
var ErrDetached = errors.New("view detached before load finished")

// Status is the render state of a page
type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText renders the status by name in JSON views
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Page is the tri-state view of one fetched resource.
// Ready with a non-nil Err means the payload shape was not recognized and
// Data holds the empty value.
type Page[T any] struct {
	Status  Status `json:"status"`
	Data    T      `json:"data"`
	Err     error  `json:"-"`
	Message string `json:"message,omitempty"`
}

// Loading returns a page that has not resolved yet
func Loading[T any]() Page[T] {
	return Page[T]{Status: StatusLoading}
}

// Unrecognized reports whether the page loaded but its payload shape was unknown
func (p Page[T]) Unrecognized() bool {
	return p.Status == StatusReady && apiclient.IsShape(p.Err)
}

// Load runs fetch and resolves the page. There is no retry; a failed page
// stays failed until the next Load.
func Load[T any](ctx context.Context, fetch func(context.Context) (T, error)) (Page[T], error) {
	data, err := fetch(ctx)
	if ctx.Err() != nil {
		return Loading[T](), ErrDetached
	}

	switch {
	case err == nil:
		return Page[T]{Status: StatusReady, Data: data}, nil
	case apiclient.IsShape(err):
		return Page[T]{Status: StatusReady, Data: data, Err: err, Message: MessageFor(err)}, nil
	default:
		return Page[T]{Status: StatusFailed, Err: err, Message: MessageFor(err)}, nil
	}
}

// MessageFor returns the user facing text for a failed load
func MessageFor(err error) string {
	kind, ok := apiclient.KindOf(err)
	if !ok {
		return "Failed to load data"
	}
	switch kind {
	case apiclient.KindTransport:
		return "Could not reach the server"
	case apiclient.KindRejected:
		return fmt.Sprintf("The server refused the request (status %d)", apiclient.StatusCode(err))
	case apiclient.KindShape:
		return "The server sent data in an unrecognized format"
	default:
		return "Failed to load data"
	}
}
