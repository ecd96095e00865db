package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAPIErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want string
	}{
		{"not found", NewNotFound("no volume matches abc"), "Not found: no volume matches abc"},
		{"status", NewHTTPStatus(503, "backend timeout"), "Server error: status 503: backend timeout"},
		{"malformed", NewMalformed("missing volumeInfo"), "Malformed response: missing volumeInfo"},
		{"network", NewNetwork(stderrors.New("connection refused")), "Network error: connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestClassifyPassesThroughAPIErrors(t *testing.T) {
	orig := NewNotFound("gone")
	wrapped := fmt.Errorf("fetching detail: %w", orig)

	got := Classify(wrapped)
	require.Same(t, orig, got)
	require.True(t, IsNotFound(wrapped))
}

func TestClassifyContextCancellation(t *testing.T) {
	require.Equal(t, KindCancelled, KindOf(context.Canceled))
	require.True(t, IsCancelled(fmt.Errorf("search: %w", context.Canceled)))
}

func TestClassifyTransportError(t *testing.T) {
	err := &url.Error{Op: "Get", URL: "https://openlibrary.org", Err: stderrors.New("dial tcp: no route to host")}
	require.Equal(t, KindNetwork, KindOf(err))
}

func TestClassifyUnknown(t *testing.T) {
	require.Equal(t, KindUnknown, KindOf(stderrors.New("something odd")))
	require.Nil(t, Classify(nil))
}
