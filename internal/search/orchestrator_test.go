package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/bookshelf/internal/book"
	"github.com/lepinkainen/bookshelf/internal/catalog"
	apierrors "github.com/lepinkainen/bookshelf/internal/errors"
)

type fakeCatalog struct {
	mu      sync.Mutex
	calls   []catalog.SearchRequest
	handler func(req catalog.SearchRequest) catalog.SearchOutcome
}

func (f *fakeCatalog) Search(_ context.Context, req catalog.SearchRequest) catalog.SearchOutcome {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	handler := f.handler
	f.mu.Unlock()

	if handler == nil {
		return catalog.SearchOutcome{}
	}
	return handler(req)
}

func (f *fakeCatalog) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeCatalog) call(i int) catalog.SearchRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[i]
}

type recordingPresenter struct {
	mu     sync.Mutex
	states []State
}

func (p *recordingPresenter) Publish(s State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.states = append(p.states, s)
}

func (p *recordingPresenter) last() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.states) == 0 {
		return State{}
	}
	return p.states[len(p.states)-1]
}

func (p *recordingPresenter) kinds() []StateKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	kinds := make([]StateKind, len(p.states))
	for i, s := range p.states {
		kinds[i] = s.Kind
	}
	return kinds
}

func oneBookOutcome(id string, total int) catalog.SearchOutcome {
	return catalog.SearchOutcome{
		Google: catalog.SourceResult{
			Books: []book.Book{{ID: id, Provider: book.SourceGoogleBooks}},
			Total: total,
		},
	}
}

func googleOnly() catalog.Sources {
	return catalog.Sources{GoogleBooks: true}
}

func waitForKind(t *testing.T, p *recordingPresenter, kind StateKind) State {
	t.Helper()
	require.Eventually(t, func() bool {
		return p.last().Kind == kind
	}, 2*time.Second, 5*time.Millisecond)
	return p.last()
}

func TestInitialStateIsIdle(t *testing.T) {
	presenter := &recordingPresenter{}
	o := NewOrchestrator(&fakeCatalog{}, presenter)
	defer o.Close()

	require.Equal(t, []StateKind{StateIdle}, presenter.kinds())
}

func TestBlankInputShortCircuits(t *testing.T) {
	client := &fakeCatalog{}
	presenter := &recordingPresenter{}
	o := NewOrchestrator(client, presenter, WithDebounceWindow(10*time.Millisecond))
	defer o.Close()

	o.UpdateInput("")
	o.UpdateInput("   \t")

	last := presenter.last()
	require.Equal(t, StateSuccess, last.Kind)
	require.Empty(t, last.Books)

	time.Sleep(50 * time.Millisecond)
	require.Zero(t, client.callCount(), "blank input must not reach the network")
}

func TestDebounceCoalescesKeystrokes(t *testing.T) {
	client := &fakeCatalog{handler: func(req catalog.SearchRequest) catalog.SearchOutcome {
		return oneBookOutcome("g1", 1)
	}}
	presenter := &recordingPresenter{}
	o := NewOrchestrator(client, presenter,
		WithDebounceWindow(40*time.Millisecond),
		WithSources(googleOnly()),
	)
	defer o.Close()

	// three keystrokes inside one quiescence window
	o.UpdateInput("d")
	time.Sleep(10 * time.Millisecond)
	o.UpdateInput("du")
	time.Sleep(10 * time.Millisecond)
	o.UpdateInput("dune")

	waitForKind(t, presenter, StateSuccess)
	time.Sleep(100 * time.Millisecond)

	require.Equal(t, 1, client.callCount(), "one quiet period means one network call")
	require.Equal(t, "dune", client.call(0).Query)
}

func TestLoadingPublishedBeforeResponseArrives(t *testing.T) {
	release := make(chan struct{})
	client := &fakeCatalog{handler: func(req catalog.SearchRequest) catalog.SearchOutcome {
		<-release
		return oneBookOutcome("g1", 1)
	}}
	presenter := &recordingPresenter{}
	o := NewOrchestrator(client, presenter, WithSources(googleOnly()))
	defer o.Close()

	o.Submit("dune")
	require.Equal(t, StateLoading, presenter.last().Kind)

	close(release)
	waitForKind(t, presenter, StateSuccess)
}

func TestGenerationOrderingOutOfOrderArrival(t *testing.T) {
	releaseFirst := make(chan struct{})
	client := &fakeCatalog{}
	client.handler = func(req catalog.SearchRequest) catalog.SearchOutcome {
		if req.Query == "first" {
			<-releaseFirst // held back until the newer response has landed
			return oneBookOutcome("old", 1)
		}
		return oneBookOutcome("new", 1)
	}

	presenter := &recordingPresenter{}
	o := NewOrchestrator(client, presenter, WithSources(googleOnly()))
	defer o.Close()

	o.Submit("first")
	o.Submit("second")

	newState := waitForKind(t, presenter, StateSuccess)
	require.Equal(t, "new", newState.Books[0].ID)

	close(releaseFirst)
	time.Sleep(100 * time.Millisecond)

	// the stale generation-1 response must never overwrite the newer state
	last := presenter.last()
	require.Equal(t, StateSuccess, last.Kind)
	require.Equal(t, "new", last.Books[0].ID)
}

func TestSearchTypeChangeBypassesDebounce(t *testing.T) {
	client := &fakeCatalog{handler: func(req catalog.SearchRequest) catalog.SearchOutcome {
		return oneBookOutcome("g1", 1)
	}}
	presenter := &recordingPresenter{}
	// window far longer than the test: any re-issue must bypass it
	o := NewOrchestrator(client, presenter,
		WithDebounceWindow(time.Minute),
		WithSources(googleOnly()),
	)
	defer o.Close()

	o.Submit("dune")
	waitForKind(t, presenter, StateSuccess)

	o.SetSearchType(book.SearchByAuthor)
	waitForKind(t, presenter, StateSuccess)

	require.Equal(t, 2, client.callCount())
	require.Equal(t, book.SearchByAuthor, client.call(1).Type)
	require.Equal(t, "dune", client.call(1).Query)
}

func TestSourceToggleReissuesImmediately(t *testing.T) {
	client := &fakeCatalog{handler: func(req catalog.SearchRequest) catalog.SearchOutcome {
		return oneBookOutcome("g1", 1)
	}}
	presenter := &recordingPresenter{}
	o := NewOrchestrator(client, presenter,
		WithDebounceWindow(time.Minute),
		WithSources(googleOnly()),
	)
	defer o.Close()

	o.Submit("dune")
	waitForKind(t, presenter, StateSuccess)

	o.SetSources(catalog.Sources{GoogleBooks: true, OpenLibrary: true})
	waitForKind(t, presenter, StateSuccess)

	require.Equal(t, 2, client.callCount())
	require.True(t, client.call(1).Sources.OpenLibrary)
}

func TestSourceToggleIgnoredWhenInputBlank(t *testing.T) {
	client := &fakeCatalog{}
	presenter := &recordingPresenter{}
	o := NewOrchestrator(client, presenter)
	defer o.Close()

	o.SetSources(catalog.Sources{OpenLibrary: true})
	o.SetSearchType(book.SearchBySubject)

	time.Sleep(50 * time.Millisecond)
	require.Zero(t, client.callCount())
}

func TestAllSourcesFailedPublishesError(t *testing.T) {
	client := &fakeCatalog{handler: func(req catalog.SearchRequest) catalog.SearchOutcome {
		return catalog.SearchOutcome{
			Google: catalog.SourceResult{Err: apierrors.NewHTTPStatus(500, "boom")},
		}
	}}
	presenter := &recordingPresenter{}
	o := NewOrchestrator(client, presenter, WithSources(googleOnly()))
	defer o.Close()

	o.Submit("dune")

	errState := waitForKind(t, presenter, StateError)
	require.Error(t, errState.Err)
	require.Equal(t, apierrors.KindHTTPStatus, apierrors.KindOf(errState.Err))
}

func TestRetryReissuesLastRequestVerbatim(t *testing.T) {
	client := &fakeCatalog{handler: func(req catalog.SearchRequest) catalog.SearchOutcome {
		return catalog.SearchOutcome{
			Google: catalog.SourceResult{Err: apierrors.NewHTTPStatus(503, "try later")},
		}
	}}
	presenter := &recordingPresenter{}
	o := NewOrchestrator(client, presenter,
		WithDebounceWindow(time.Minute),
		WithSources(googleOnly()),
		WithSearchType(book.SearchBySubject),
	)
	defer o.Close()

	o.Submit("dune")
	waitForKind(t, presenter, StateError)

	o.Retry()
	waitForKind(t, presenter, StateError)

	require.Equal(t, 2, client.callCount())
	require.Equal(t, client.call(0), client.call(1))
}

func TestLoadNextPageAccumulates(t *testing.T) {
	client := &fakeCatalog{handler: func(req catalog.SearchRequest) catalog.SearchOutcome {
		id := "page0"
		if req.StartIndex > 0 {
			id = "page1"
		}
		return oneBookOutcome(id, 25)
	}}
	presenter := &recordingPresenter{}
	o := NewOrchestrator(client, presenter,
		WithSources(googleOnly()),
		WithPageSize(10),
	)
	defer o.Close()

	o.Submit("dune")
	waitForKind(t, presenter, StateSuccess)

	o.LoadNextPage()
	require.Eventually(t, func() bool {
		last := presenter.last()
		return last.Kind == StateSuccess && len(last.Books) == 2
	}, 2*time.Second, 5*time.Millisecond)

	last := presenter.last()
	require.Equal(t, "page0", last.Books[0].ID)
	require.Equal(t, "page1", last.Books[1].ID)
	require.Equal(t, 10, client.call(1).StartIndex)
}

func TestRetryAfterPageLoadDoesNotDuplicate(t *testing.T) {
	client := &fakeCatalog{handler: func(req catalog.SearchRequest) catalog.SearchOutcome {
		id := "page0"
		if req.StartIndex > 0 {
			id = "page1"
		}
		return oneBookOutcome(id, 25)
	}}
	presenter := &recordingPresenter{}
	o := NewOrchestrator(client, presenter,
		WithSources(googleOnly()),
		WithPageSize(10),
	)
	defer o.Close()

	o.Submit("dune")
	waitForKind(t, presenter, StateSuccess)

	o.LoadNextPage()
	require.Eventually(t, func() bool {
		last := presenter.last()
		return last.Kind == StateSuccess && len(last.Books) == 2
	}, 2*time.Second, 5*time.Millisecond)

	// Retrying the page request rebuilds from the pre-page base list
	// instead of appending the page a second time.
	o.Retry()
	require.Eventually(t, func() bool {
		return client.callCount() == 3
	}, 2*time.Second, 5*time.Millisecond)

	last := waitForKind(t, presenter, StateSuccess)
	require.Len(t, last.Books, 2)
	require.Equal(t, "page0", last.Books[0].ID)
	require.Equal(t, "page1", last.Books[1].ID)
	require.Equal(t, client.call(1), client.call(2))
}
