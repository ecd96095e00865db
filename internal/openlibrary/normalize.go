package openlibrary

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/lepinkainen/bookshelf/internal/book"
	apierrors "github.com/lepinkainen/bookshelf/internal/errors"
)

// Cover image sizes served by covers.openlibrary.org.
const (
	CoverSmall  = "S"
	CoverMedium = "M"
	CoverLarge  = "L"
)

// CoverURL builds a cover image URL from a numeric cover id.
// Unknown sizes fall back to medium.
func (c *Client) CoverURL(coverID int, size string) string {
	switch size {
	case CoverSmall, CoverMedium, CoverLarge:
	default:
		size = CoverMedium
	}
	return fmt.Sprintf("%s/id/%d-%s.jpg", c.coversBaseURL, coverID, size)
}

// AuthorNameFromKey derives a display name from an author reference key:
// the "/authors/" prefix is stripped, underscores become spaces and the
// first letter is upper-cased.
func AuthorNameFromKey(key string) string {
	name := strings.TrimPrefix(key, "/authors/")
	name = strings.ReplaceAll(name, "_", " ")
	if name == "" {
		return book.DefaultAuthor
	}
	runes := []rune(name)
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}

// ResolveAuthorNames maps every author reference of a work to a display name.
func ResolveAuthorNames(w *Work) []string {
	if len(w.Authors) == 0 {
		return nil
	}
	names := make([]string, 0, len(w.Authors))
	for _, a := range w.Authors {
		names = append(names, AuthorNameFromKey(a.Author.Key))
	}
	return names
}

// openLibraryNotForSale: Open Library entries carry no sale info, so every
// record gets a fixed not-for-sale marker.
func notForSale() *bool {
	v := false
	return &v
}

// ToBook maps a search doc onto the canonical record. Only a missing key
// is a mapping error; every optional field resolves to its documented default.
func (c *Client) ToBook(d *Doc) (book.Book, error) {
	if d.Key == "" {
		return book.Book{}, apierrors.NewMalformed("search doc missing key")
	}

	b := book.Book{
		ID:             d.Key,
		Title:          d.Title,
		Authors:        d.AuthorName,
		Description:    book.DefaultDescription,
		ThumbnailURL:   book.DefaultThumbnail,
		EbookAvailable: notForSale(),
		Provider:       book.SourceOpenLibrary,
	}

	if b.Title == "" {
		b.Title = book.DefaultTitle
	}
	if len(b.Authors) == 0 {
		b.Authors = []string{book.DefaultAuthor}
	}

	if d.FirstPublishYear != 0 {
		b.PublishedDate = strconv.Itoa(d.FirstPublishYear)
	} else {
		b.PublishedDate = book.DefaultPublishedDate
	}

	if d.CoverID != 0 {
		b.ThumbnailURL = c.CoverURL(d.CoverID, CoverMedium)
	}

	for _, isbn := range d.ISBN {
		if isbn == "" {
			continue
		}
		b.IndustryIdentifiers = append(b.IndustryIdentifiers, book.IndustryIdentifier{
			Type:       book.ClassifyISBN(isbn),
			Identifier: isbn,
		})
	}

	if len(d.Language) > 0 {
		b.Language = d.Language[0]
	}

	return b, nil
}

// WorkToBook maps a work record onto the canonical record, using the
// already-resolved author display names.
func (c *Client) WorkToBook(w *Work, authorNames []string) (book.Book, error) {
	if w.Key == "" {
		return book.Book{}, apierrors.NewMalformed("work missing key")
	}

	b := book.Book{
		ID:             w.Key,
		Title:          w.Title,
		Authors:        authorNames,
		Description:    w.Description.Text(),
		Categories:     w.Subjects,
		ThumbnailURL:   book.DefaultThumbnail,
		EbookAvailable: notForSale(),
		Provider:       book.SourceOpenLibrary,
	}

	if b.Title == "" {
		b.Title = book.DefaultTitle
	}
	if len(b.Authors) == 0 {
		b.Authors = []string{book.DefaultAuthor}
	}

	if w.FirstPublishDate != "" {
		b.PublishedDate = w.FirstPublishDate
	} else {
		b.PublishedDate = book.DefaultPublishedDate
	}

	if len(w.Covers) > 0 && w.Covers[0] != 0 {
		b.ThumbnailURL = c.CoverURL(w.Covers[0], CoverMedium)
	}

	return b, nil
}

// Books normalizes every structurally valid doc of a search response.
// Invalid docs are logged and skipped.
func (c *Client) Books(r *SearchResponse) []book.Book {
	books := make([]book.Book, 0, len(r.Docs))
	for i := range r.Docs {
		b, err := c.ToBook(&r.Docs[i])
		if err != nil {
			slog.Warn("Skipping malformed Open Library doc", "index", i, "error", err)
			continue
		}
		books = append(books, b)
	}
	return books
}
