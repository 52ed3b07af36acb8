package source

import (
	"context"
	"errors"
	"fmt"

	"call-history/internal/calls"
)

var (
	// ErrUpstream covers every fetch failure: transport, status, GraphQL errors, decoding.
	ErrUpstream = errors.New("source: upstream fetch failed")
	// ErrNotFound means the source answered without a page.
	ErrNotFound = errors.New("source: page not found")
	// ErrBusy means the upstream concurrency cap was reached.
	ErrBusy = errors.New("source: upstream busy")
	// ErrInvalidWindow is returned for windows a source cannot serve.
	ErrInvalidWindow = errors.New("source: invalid offset/limit")
)

// Page is one window of calls.
type Page struct {
	TotalCount  int          `json:"total_count"`
	HasNextPage bool         `json:"has_next_page"`
	Nodes       []calls.Call `json:"nodes"`
}

// Source fetches one page of calls. Implementations must not retry.
type Source interface {
	FetchPage(ctx context.Context, offset, limit int) (Page, error)
}

// Key identifies a fetch window. Filters are not part of it, so changing a
// filter never causes a refetch.
type Key struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

func (k Key) String() string {
	return fmt.Sprintf("calls:%d:%d", k.Offset, k.Limit)
}

// State is the exclusive render state of a fetch.
type State int

const (
	StateLoading State = iota
	StateError
	StateNotFound
	StateReady
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateNotFound:
		return "not_found"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Result is what a render sees for a key. Page is only meaningful when
// State is StateReady.
type Result struct {
	Key   Key
	State State
	Page  Page
	Err   error
}
