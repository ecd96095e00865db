// Package catalog combines the Google Books and Open Library clients
// behind one facade: dual-source search fan-out, result merging and the
// detail and bookshelf pass-through calls.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/lepinkainen/bookshelf/internal/book"
	"github.com/lepinkainen/bookshelf/internal/googlebooks"
	"github.com/lepinkainen/bookshelf/internal/openlibrary"
)

// Sources selects which providers a search is dispatched to.
type Sources struct {
	GoogleBooks bool
	OpenLibrary bool
}

// Any reports whether at least one provider is selected.
func (s Sources) Any() bool {
	return s.GoogleBooks || s.OpenLibrary
}

// SearchRequest is one debounced search issued against the catalog.
type SearchRequest struct {
	Query      string
	Type       book.SearchType
	Sources    Sources
	PageSize   int
	StartIndex int
}

// SourceResult is one provider's half of a search outcome. Each half
// succeeds or fails independently of the other.
type SourceResult struct {
	Books []book.Book
	Total int
	Err   error
}

// SearchOutcome carries both halves of a dual-source search.
type SearchOutcome struct {
	Google      SourceResult
	OpenLibrary SourceResult
}

// Client is the catalog facade over both provider clients.
type Client struct {
	google      *googlebooks.Client
	openLibrary *openlibrary.Client
}

// NewClient creates a catalog client from the two provider clients.
func NewClient(google *googlebooks.Client, openLibrary *openlibrary.Client) *Client {
	return &Client{google: google, openLibrary: openLibrary}
}

// Search dispatches the request to every selected provider concurrently
// and joins the halves. A failure on one side never fails the other.
func (c *Client) Search(ctx context.Context, req SearchRequest) SearchOutcome {
	var outcome SearchOutcome
	var wg sync.WaitGroup

	if req.Sources.GoogleBooks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := c.google.Search(ctx, req.Query, req.Type, req.PageSize, req.StartIndex)
			if err != nil {
				outcome.Google.Err = err
				return
			}
			outcome.Google.Books = resp.Books()
			outcome.Google.Total = resp.TotalItems
		}()
	}

	if req.Sources.OpenLibrary {
		wg.Add(1)
		go func() {
			defer wg.Done()
			page := 1
			if req.PageSize > 0 {
				page = req.StartIndex/req.PageSize + 1
			}
			resp, err := c.openLibrary.Search(ctx, req.Query, req.PageSize, page)
			if err != nil {
				outcome.OpenLibrary.Err = err
				return
			}
			outcome.OpenLibrary.Books = c.openLibrary.Books(resp)
			outcome.OpenLibrary.Total = resp.NumFound
		}()
	}

	wg.Wait()
	return outcome
}

// Merge flattens a search outcome per the merge rule: Google Books results
// first, then Open Library, total count summed with a failed side
// contributing zero. An error is returned only when every selected source
// failed; a partial failure is absorbed and logged.
func Merge(req SearchRequest, outcome SearchOutcome) ([]book.Book, int, error) {
	var failures []error

	books := make([]book.Book, 0, len(outcome.Google.Books)+len(outcome.OpenLibrary.Books))
	total := 0

	if req.Sources.GoogleBooks {
		if outcome.Google.Err != nil {
			slog.Warn("Google Books search failed", "query", req.Query, "error", outcome.Google.Err)
			failures = append(failures, outcome.Google.Err)
		} else {
			books = append(books, outcome.Google.Books...)
			total += outcome.Google.Total
		}
	}

	if req.Sources.OpenLibrary {
		if outcome.OpenLibrary.Err != nil {
			slog.Warn("Open Library search failed", "query", req.Query, "error", outcome.OpenLibrary.Err)
			failures = append(failures, outcome.OpenLibrary.Err)
		} else {
			books = append(books, outcome.OpenLibrary.Books...)
			total += outcome.OpenLibrary.Total
		}
	}

	selected := 0
	if req.Sources.GoogleBooks {
		selected++
	}
	if req.Sources.OpenLibrary {
		selected++
	}
	if selected > 0 && len(failures) == selected {
		return nil, 0, errors.Join(failures...)
	}

	return books, total, nil
}

// VolumeDetail fetches and normalizes a single Google Books volume.
func (c *Client) VolumeDetail(ctx context.Context, volumeID string) (book.Book, error) {
	volume, err := c.google.VolumeDetail(ctx, volumeID)
	if err != nil {
		return book.Book{}, err
	}
	return volume.ToBook()
}

// WorkDetail fetches and normalizes a single Open Library work, resolving
// author reference keys to display names.
func (c *Client) WorkDetail(ctx context.Context, workID string) (book.Book, error) {
	work, err := c.openLibrary.WorkDetail(ctx, workID)
	if err != nil {
		return book.Book{}, err
	}
	return c.openLibrary.WorkToBook(work, openlibrary.ResolveAuthorNames(work))
}

// SearchWorks runs a plain Open Library keyword search, normalized via the
// search-doc mapper. Used by the detail fallback path.
func (c *Client) SearchWorks(ctx context.Context, query string, limit int) ([]book.Book, error) {
	resp, err := c.openLibrary.Search(ctx, query, limit, 1)
	if err != nil {
		return nil, err
	}
	return c.openLibrary.Books(resp), nil
}

// Bookshelves lists a user's public bookshelves.
func (c *Client) Bookshelves(ctx context.Context, userID string) ([]googlebooks.Bookshelf, error) {
	list, err := c.google.Bookshelves(ctx, userID)
	if err != nil {
		return nil, err
	}
	return list.Items, nil
}

// ShelfVolumes lists the normalized volumes on one bookshelf.
func (c *Client) ShelfVolumes(ctx context.Context, userID, shelf string) ([]book.Book, int, error) {
	resp, err := c.google.ShelfVolumes(ctx, userID, shelf)
	if err != nil {
		return nil, 0, err
	}
	return resp.Books(), resp.TotalItems, nil
}

// AddToShelf adds a volume to a bookshelf. Fire-once, no automatic retry.
func (c *Client) AddToShelf(ctx context.Context, shelf, volumeID string) error {
	if err := c.google.AddToShelf(ctx, shelf, volumeID); err != nil {
		return fmt.Errorf("shelf mutation: %w", err)
	}
	return nil
}

// RemoveFromShelf removes a volume from a bookshelf. Fire-once.
func (c *Client) RemoveFromShelf(ctx context.Context, shelf, volumeID string) error {
	if err := c.google.RemoveFromShelf(ctx, shelf, volumeID); err != nil {
		return fmt.Errorf("shelf mutation: %w", err)
	}
	return nil
}
