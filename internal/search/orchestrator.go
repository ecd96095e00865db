package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/lepinkainen/bookshelf/internal/book"
	"github.com/lepinkainen/bookshelf/internal/catalog"
)

const (
	defaultDebounceWindow = 300 * time.Millisecond
	defaultPageSize       = 10
)

// CatalogSearcher is the capability the orchestrator needs from the
// catalog client.
type CatalogSearcher interface {
	Search(ctx context.Context, req catalog.SearchRequest) catalog.SearchOutcome
}

// Orchestrator drives live search: it debounces keystrokes, tags every
// request with a monotonically increasing generation number, discards
// stale responses and publishes the resulting states to the presenter.
//
// The orchestrator is the single writer of the published state; the
// presenter only observes.
type Orchestrator struct {
	client    CatalogSearcher
	presenter Presenter
	window    time.Duration
	pageSize  int

	mu         sync.Mutex
	generation uint64
	timer      *time.Timer
	cancel     context.CancelFunc
	input      string
	searchType book.SearchType
	sources    catalog.Sources
	offset     int
	current    []book.Book
	pageBase   []book.Book
	lastReq    *catalog.SearchRequest
}

// NewOrchestrator creates an orchestrator publishing into presenter.
// Both sources are active and the search type is title until changed.
func NewOrchestrator(client CatalogSearcher, presenter Presenter, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		client:     client,
		presenter:  presenter,
		window:     defaultDebounceWindow,
		pageSize:   defaultPageSize,
		searchType: book.SearchByTitle,
		sources:    catalog.Sources{GoogleBooks: true, OpenLibrary: true},
	}

	for _, opt := range opts {
		opt(o)
	}

	o.presenter.Publish(State{Kind: StateIdle})
	return o
}

// OrchestratorOption is a functional option for configuring the Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithDebounceWindow sets the quiescence window after the last keystroke.
func WithDebounceWindow(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if d > 0 {
			o.window = d
		}
	}
}

// WithPageSize sets the per-source page size.
func WithPageSize(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// WithSources sets the initially active sources.
func WithSources(s catalog.Sources) OrchestratorOption {
	return func(o *Orchestrator) {
		if s.Any() {
			o.sources = s
		}
	}
}

// WithSearchType sets the initial search type facet.
func WithSearchType(t book.SearchType) OrchestratorOption {
	return func(o *Orchestrator) {
		if t != "" {
			o.searchType = t
		}
	}
}

// UpdateInput records a keystroke. Any pending debounce timer restarts and
// in-flight requests become stale. Blank input short-circuits to an empty
// success without touching the network.
func (o *Orchestrator) UpdateInput(input string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.input = input
	o.supersedeLocked()

	if strings.TrimSpace(input) == "" {
		o.offset = 0
		o.current = nil
		o.presenter.Publish(State{Kind: StateSuccess, Books: []book.Book{}, Generation: o.generation})
		return
	}

	gen := o.generation
	o.timer = time.AfterFunc(o.window, func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		if gen != o.generation {
			return // a newer keystroke restarted the window
		}
		o.offset = 0
		o.issueLocked(gen)
	})
}

// ClearInput resets the session to an empty success state.
func (o *Orchestrator) ClearInput() {
	o.UpdateInput("")
}

// SetSearchType changes the facet. A non-blank input re-issues the search
// immediately, bypassing the debounce window.
func (o *Orchestrator) SetSearchType(t book.SearchType) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.searchType = t
	o.reissueLocked()
}

// SetSources changes the active source selection, re-issuing immediately
// when input is non-blank. At least one source must stay selected.
func (o *Orchestrator) SetSources(s catalog.Sources) {
	if !s.Any() {
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.sources = s
	o.reissueLocked()
}

// SearchType returns the currently selected search facet.
func (o *Orchestrator) SearchType() book.SearchType {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.searchType
}

// Sources returns the currently active source selection.
func (o *Orchestrator) Sources() catalog.Sources {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sources
}

// Submit sets the input and issues the search immediately. Used by the
// one-shot command path where no keystroke stream exists.
func (o *Orchestrator) Submit(query string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.input = query
	o.supersedeLocked()

	if strings.TrimSpace(query) == "" {
		o.current = nil
		o.presenter.Publish(State{Kind: StateSuccess, Books: []book.Book{}, Generation: o.generation})
		return
	}

	o.offset = 0
	o.issueLocked(o.generation)
}

// Retry re-issues the last request verbatim.
func (o *Orchestrator) Retry() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.lastReq == nil {
		return
	}

	o.supersedeLocked()
	req := *o.lastReq
	o.issueRequestLocked(o.generation, req)
}

// LoadNextPage fetches the next offset and appends it to the current list.
func (o *Orchestrator) LoadNextPage() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if strings.TrimSpace(o.input) == "" {
		return
	}

	o.supersedeLocked()
	o.offset += o.pageSize
	// Snapshot the list the new page appends onto, so a retried page
	// request rebuilds from the same base instead of re-appending.
	o.pageBase = o.current
	o.issueLocked(o.generation)
}

// Close cancels any pending timer and in-flight request.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.supersedeLocked()
}

// supersedeLocked bumps the generation, stops the debounce timer and
// cancels the in-flight request. Late responses of older generations are
// dropped on arrival.
func (o *Orchestrator) supersedeLocked() {
	o.generation++
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}

func (o *Orchestrator) reissueLocked() {
	if strings.TrimSpace(o.input) == "" {
		return
	}
	o.supersedeLocked()
	o.offset = 0
	o.issueLocked(o.generation)
}

func (o *Orchestrator) issueLocked(gen uint64) {
	if o.offset == 0 {
		o.pageBase = nil
	}
	req := catalog.SearchRequest{
		Query:      o.input,
		Type:       o.searchType,
		Sources:    o.sources,
		PageSize:   o.pageSize,
		StartIndex: o.offset,
	}
	o.issueRequestLocked(gen, req)
}

// issueRequestLocked publishes Loading synchronously and dispatches the
// network calls on a fresh goroutine.
func (o *Orchestrator) issueRequestLocked(gen uint64, req catalog.SearchRequest) {
	o.lastReq = &req
	o.presenter.Publish(State{Kind: StateLoading, Generation: gen})

	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel

	go func() {
		defer cancel()
		outcome := o.client.Search(ctx, req)
		o.complete(gen, req, outcome)
	}()
}

func (o *Orchestrator) complete(gen uint64, req catalog.SearchRequest, outcome catalog.SearchOutcome) {
	books, total, err := catalog.Merge(req, outcome)

	o.mu.Lock()
	defer o.mu.Unlock()

	if gen != o.generation {
		slog.Debug("Dropping stale search response", "generation", gen, "current", o.generation)
		return
	}

	if err != nil {
		o.presenter.Publish(State{Kind: StateError, Err: err, Generation: gen})
		return
	}

	if req.StartIndex > 0 {
		books = append(append([]book.Book{}, o.pageBase...), books...)
	}
	o.current = books

	o.presenter.Publish(State{Kind: StateSuccess, Books: books, Total: total, Generation: gen})
}
