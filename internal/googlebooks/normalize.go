package googlebooks

import (
	"fmt"
	"log/slog"

	"github.com/lepinkainen/bookshelf/internal/book"
	apierrors "github.com/lepinkainen/bookshelf/internal/errors"
)

// ToBook maps a Google Books volume onto the canonical record. Missing
// optional fields resolve to the documented placeholders; only a missing
// id or volumeInfo block is a mapping error.
func (v *Volume) ToBook() (book.Book, error) {
	if v.ID == "" {
		return book.Book{}, apierrors.NewMalformed("volume missing id")
	}
	if v.VolumeInfo == nil {
		return book.Book{}, apierrors.NewMalformed(fmt.Sprintf("volume %s missing volumeInfo", v.ID))
	}

	info := v.VolumeInfo

	b := book.Book{
		ID:            v.ID,
		Title:         info.Title,
		Authors:       info.Authors,
		PublishedDate: info.PublishedDate,
		Description:   info.Description,
		PageCount:     info.PageCount,
		Categories:    info.Categories,
		Language:      info.Language,
		ThumbnailURL:  info.ImageLinks.Thumbnail,
		Provider:      book.SourceGoogleBooks,
	}

	if b.Title == "" {
		b.Title = book.DefaultTitle
	}
	if len(b.Authors) == 0 {
		b.Authors = []string{book.DefaultAuthor}
	}
	if b.PublishedDate == "" {
		b.PublishedDate = book.DefaultPublishedDate
	}
	if b.Description == "" {
		b.Description = book.DefaultDescription
	}
	if b.ThumbnailURL == "" {
		b.ThumbnailURL = book.DefaultThumbnail
	} else {
		b.ThumbnailURL = book.SecureThumbnail(b.ThumbnailURL)
	}

	for _, id := range info.IndustryIdentifiers {
		if id.Identifier == "" {
			continue
		}
		b.IndustryIdentifiers = append(b.IndustryIdentifiers, book.IndustryIdentifier{
			Type:       book.ClassifyISBN(id.Identifier),
			Identifier: id.Identifier,
		})
	}

	if v.SaleInfo != nil {
		ebook := v.SaleInfo.IsEbook
		b.EbookAvailable = &ebook
	}

	return b, nil
}

// Books normalizes every structurally valid item of a volume list.
// Invalid items are logged and skipped so one broken entry does not
// discard the rest of the page.
func (r *VolumesResponse) Books() []book.Book {
	books := make([]book.Book, 0, len(r.Items))
	for i := range r.Items {
		b, err := r.Items[i].ToBook()
		if err != nil {
			slog.Warn("Skipping malformed Google Books item", "index", i, "error", err)
			continue
		}
		books = append(books, b)
	}
	return books
}
