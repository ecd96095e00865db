package config

import (
	"time"

	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// GoogleBooksAPIKey is the API key for the Google Books API (optional
	// for search, required for bookshelf mutations).
	GoogleBooksAPIKey string
	// GoogleBooksBaseURL is the Google Books API endpoint.
	GoogleBooksBaseURL string
	// OpenLibraryBaseURL is the Open Library API endpoint.
	OpenLibraryBaseURL string
	// PageSize is the per-source search page size.
	PageSize int
	// DebounceWindow is the quiescence window for live search input.
	DebounceWindow time.Duration
	// ShelfUserID is the Google Books user whose bookshelves are listed.
	ShelfUserID string
)

// SetDefaults registers the default configuration values with viper.
func SetDefaults() {
	viper.SetDefault("googlebooks.baseurl", "https://www.googleapis.com/books/v1")
	viper.SetDefault("openlibrary.baseurl", "https://openlibrary.org")
	viper.SetDefault("search.pagesize", 10)
	viper.SetDefault("search.debounce", "300ms")
}

// InitConfig initializes the global configuration from viper.
func InitConfig() {
	SetDefaults()

	GoogleBooksAPIKey = viper.GetString("googlebooks.apikey")
	GoogleBooksBaseURL = viper.GetString("googlebooks.baseurl")
	OpenLibraryBaseURL = viper.GetString("openlibrary.baseurl")
	PageSize = viper.GetInt("search.pagesize")
	DebounceWindow = viper.GetDuration("search.debounce")
	ShelfUserID = viper.GetString("shelf.userid")

	if PageSize <= 0 {
		PageSize = 10
	}
	if DebounceWindow <= 0 {
		DebounceWindow = 300 * time.Millisecond
	}
}
