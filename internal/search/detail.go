package search

import (
	"context"
	"log/slog"

	"github.com/lepinkainen/bookshelf/internal/book"
	apierrors "github.com/lepinkainen/bookshelf/internal/errors"
	"github.com/lepinkainen/bookshelf/internal/openlibrary"
)

// ErrBookDetailsNotFound is the terminal failure when the Open Library
// fallback search is exhausted. Not retryable by re-fetch.
var ErrBookDetailsNotFound = apierrors.NewNotFound("Book details not found")

// DetailClient is the capability the resolver needs from the catalog client.
type DetailClient interface {
	VolumeDetail(ctx context.Context, volumeID string) (book.Book, error)
	WorkDetail(ctx context.Context, workID string) (book.Book, error)
	SearchWorks(ctx context.Context, query string, limit int) ([]book.Book, error)
}

// DetailResolver fetches and normalizes a single record for the detail view.
type DetailResolver struct {
	client    DetailClient
	presenter DetailPresenter

	lastID     string
	lastSource book.Source
}

// NewDetailResolver creates a resolver publishing into presenter.
func NewDetailResolver(client DetailClient, presenter DetailPresenter) *DetailResolver {
	return &DetailResolver{client: client, presenter: presenter}
}

// Resolve fetches one record by id from the hinted source and publishes
// Loading followed by exactly one terminal state.
//
// Open Library ids are work keys; when the work-detail call fails the
// resolver falls back to a keyword search on the bare key with a result
// limit of one, normalized via the search-doc mapper.
func (r *DetailResolver) Resolve(ctx context.Context, id string, source book.Source) {
	r.lastID, r.lastSource = id, source
	r.presenter.PublishDetail(DetailState{Kind: StateLoading})

	switch source {
	case book.SourceOpenLibrary:
		r.resolveOpenLibrary(ctx, id)
	default:
		r.resolveGoogle(ctx, id)
	}
}

// Retry re-resolves the last requested record.
func (r *DetailResolver) Retry(ctx context.Context) {
	if r.lastID == "" {
		return
	}
	r.Resolve(ctx, r.lastID, r.lastSource)
}

func (r *DetailResolver) resolveGoogle(ctx context.Context, id string) {
	b, err := r.client.VolumeDetail(ctx, id)
	if err != nil {
		r.presenter.PublishDetail(DetailState{Kind: StateError, Err: apierrors.Classify(err), Retryable: true})
		return
	}
	r.presenter.PublishDetail(DetailState{Kind: StateSuccess, Book: b})
}

func (r *DetailResolver) resolveOpenLibrary(ctx context.Context, id string) {
	b, err := r.client.WorkDetail(ctx, id)
	if err == nil {
		r.presenter.PublishDetail(DetailState{Kind: StateSuccess, Book: b})
		return
	}

	slog.Debug("Work detail failed, falling back to keyword search", "id", id, "error", err)

	key := openlibrary.StripWorkKey(id)
	books, searchErr := r.client.SearchWorks(ctx, key, 1)
	if searchErr != nil || len(books) == 0 {
		r.presenter.PublishDetail(DetailState{Kind: StateError, Err: ErrBookDetailsNotFound, Retryable: false})
		return
	}

	r.presenter.PublishDetail(DetailState{Kind: StateSuccess, Book: books[0]})
}
