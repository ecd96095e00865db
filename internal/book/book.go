// Package book defines the canonical book record that every catalog
// provider normalizes into, together with the placeholder defaults used
// when a provider omits a field.
package book

import "strings"

// Placeholder values used when a provider payload omits a field.
const (
	DefaultTitle         = "Title not available"
	DefaultAuthor        = "Author not available"
	DefaultPublishedDate = "Publication date not available"
	DefaultDescription   = "Description not available"
	DefaultThumbnail     = "Image not available"
)

// Source identifies the catalog provider a record came from.
type Source string

const (
	SourceGoogleBooks Source = "googlebooks"
	SourceOpenLibrary Source = "openlibrary"
)

// SearchType is the facet a search query is matched against.
type SearchType string

const (
	SearchByTitle   SearchType = "title"
	SearchByAuthor  SearchType = "author"
	SearchBySubject SearchType = "subject"
)

// IndustryIdentifier is a typed ISBN (or other identifier) attached to a record.
type IndustryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

// ClassifyISBN returns the identifier type for a bare ISBN string.
// 13-digit identifiers are ISBN_13, everything else ISBN_10.
func ClassifyISBN(isbn string) string {
	if len(isbn) == 13 {
		return "ISBN_13"
	}
	return "ISBN_10"
}

// Book is the canonical record all provider payloads map into.
// Immutable once constructed: result lists are replaced wholesale,
// never mutated in place.
type Book struct {
	ID                  string               `json:"id"`
	Title               string               `json:"title"`
	Authors             []string             `json:"authors"`
	PublishedDate       string               `json:"publishedDate"`
	Description         string               `json:"description"`
	PageCount           int                  `json:"pageCount,omitempty"`
	Categories          []string             `json:"categories,omitempty"`
	Language            string               `json:"language,omitempty"`
	ThumbnailURL        string               `json:"thumbnailUrl"`
	IndustryIdentifiers []IndustryIdentifier `json:"industryIdentifiers,omitempty"`
	EbookAvailable      *bool                `json:"ebookAvailable,omitempty"`
	Provider            Source               `json:"provider"`
}

// SecureThumbnail rewrites an http:// image URL to https://.
// Google Books still serves plain-http thumbnail links.
func SecureThumbnail(url string) string {
	if strings.HasPrefix(url, "http://") {
		return "https://" + strings.TrimPrefix(url, "http://")
	}
	return url
}
