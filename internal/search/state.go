// Package search owns the live search session: debounce, request
// generations, dual-source dispatch and the published result states.
package search

import "github.com/lepinkainen/bookshelf/internal/book"

// StateKind tags a search result state.
type StateKind int

const (
	// StateIdle means no query has been entered yet.
	StateIdle StateKind = iota
	// StateLoading means a request is in flight.
	StateLoading
	// StateSuccess carries an ordered result list.
	StateSuccess
	// StateError carries a classified failure.
	StateError
)

// State is the tagged union published to the presenter. Exactly one state
// is current at any time; payload fields are only meaningful for the kind
// that carries them.
type State struct {
	Kind       StateKind
	Books      []book.Book
	Total      int
	Err        error
	Generation uint64
}

// Presenter receives state updates from the orchestrator. Implementations
// must not call back into the orchestrator from Publish.
type Presenter interface {
	Publish(State)
}

// DetailState is the tagged union published during a detail resolution.
type DetailState struct {
	Kind StateKind
	Book book.Book
	Err  error
	// Retryable is false for the terminal fallback-exhausted case.
	Retryable bool
}

// DetailPresenter receives detail state updates.
type DetailPresenter interface {
	PublishDetail(DetailState)
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(State)

// Publish calls f(s).
func (f PresenterFunc) Publish(s State) { f(s) }

// DetailPresenterFunc adapts a function to the DetailPresenter interface.
type DetailPresenterFunc func(DetailState)

// PublishDetail calls f(s).
func (f DetailPresenterFunc) PublishDetail(s DetailState) { f(s) }
