package openlibrary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	apierrors "github.com/lepinkainen/bookshelf/internal/errors"
	"github.com/lepinkainen/bookshelf/internal/ratelimit"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(
		WithBaseURL(server.URL),
		WithHTTPClient(server.Client()),
		WithRetryAttempts(1),
		WithRateLimiter(ratelimit.New("OpenLibrary-test", 1000)),
	)
}

func TestSearchRequestShape(t *testing.T) {
	var gotQuery, gotLimit, gotPage, gotFields string
	mux := http.NewServeMux()
	mux.HandleFunc("/search.json", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = q.Get("q")
		gotLimit = q.Get("limit")
		gotPage = q.Get("page")
		gotFields = q.Get("fields")
		_, _ = w.Write([]byte(`{"numFound":1,"start":0,"docs":[{"key":"/works/OL1W","title":"Dune"}]}`))
	})

	client := newTestClient(t, mux)
	resp, err := client.Search(context.Background(), "dune", 10, 2)
	require.NoError(t, err)

	require.Equal(t, "dune", gotQuery)
	require.Equal(t, "10", gotLimit)
	require.Equal(t, "2", gotPage)
	require.Equal(t, searchFields, gotFields)
	require.Equal(t, 1, resp.NumFound)
	require.Len(t, resp.Docs, 1)
}

func TestWorkDetailStripsPrefix(t *testing.T) {
	var gotPath string
	mux := http.NewServeMux()
	mux.HandleFunc("/works/OL123W.json", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"key":"/works/OL123W","title":"Some Work"}`))
	})

	client := newTestClient(t, mux)
	work, err := client.WorkDetail(context.Background(), "/works/OL123W")
	require.NoError(t, err)
	require.Equal(t, "/works/OL123W.json", gotPath)
	require.Equal(t, "Some Work", work.Title)
}

func TestWorkDetailNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	client := newTestClient(t, mux)
	_, err := client.WorkDetail(context.Background(), "OL404W")
	require.True(t, apierrors.IsNotFound(err))
}

func TestSearchClassifiesStatusError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search.json", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	})

	client := newTestClient(t, mux)
	_, err := client.Search(context.Background(), "dune", 10, 1)

	classified := apierrors.Classify(err)
	require.Equal(t, apierrors.KindHTTPStatus, classified.Kind)
	require.Equal(t, http.StatusServiceUnavailable, classified.Code)
}

func TestStripWorkKey(t *testing.T) {
	require.Equal(t, "OL123W", StripWorkKey("/works/OL123W"))
	require.Equal(t, "OL123W", StripWorkKey("OL123W"))
}
