// Package testutil provides common test utilities for the bookshelf project.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/lepinkainen/bookshelf/internal/config"
)

// ConfigState holds the state of the config package variables.
type ConfigState struct {
	GoogleBooksAPIKey  string
	GoogleBooksBaseURL string
	OpenLibraryBaseURL string
	PageSize           int
	DebounceWindow     time.Duration
	ShelfUserID        string
}

// SaveConfigState captures the current state of config package variables.
func SaveConfigState() ConfigState {
	return ConfigState{
		GoogleBooksAPIKey:  config.GoogleBooksAPIKey,
		GoogleBooksBaseURL: config.GoogleBooksBaseURL,
		OpenLibraryBaseURL: config.OpenLibraryBaseURL,
		PageSize:           config.PageSize,
		DebounceWindow:     config.DebounceWindow,
		ShelfUserID:        config.ShelfUserID,
	}
}

// RestoreConfigState restores the config package variables to a saved state.
func RestoreConfigState(state ConfigState) {
	config.GoogleBooksAPIKey = state.GoogleBooksAPIKey
	config.GoogleBooksBaseURL = state.GoogleBooksBaseURL
	config.OpenLibraryBaseURL = state.OpenLibraryBaseURL
	config.PageSize = state.PageSize
	config.DebounceWindow = state.DebounceWindow
	config.ShelfUserID = state.ShelfUserID
}

// ResetConfig saves the current config state and schedules restoration
// when the test completes. It also resets viper.
func ResetConfig(t *testing.T) {
	t.Helper()

	state := SaveConfigState()

	viper.Reset()

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// JSONServer starts an httptest server that answers every request with the
// given status and body. The server is closed when the test completes.
func JSONServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv
}
