package book

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyISBN(t *testing.T) {
	tests := []struct {
		isbn string
		want string
	}{
		{"9780141439518", "ISBN_13"},
		{"0141439518", "ISBN_10"},
		{"", "ISBN_10"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, ClassifyISBN(tt.isbn), "isbn %q", tt.isbn)
	}
}

func TestSecureThumbnail(t *testing.T) {
	require.Equal(t,
		"https://books.google.com/thumb?id=1",
		SecureThumbnail("http://books.google.com/thumb?id=1"))

	// already-secure and placeholder values pass through untouched
	require.Equal(t, "https://example.com/x.jpg", SecureThumbnail("https://example.com/x.jpg"))
	require.Equal(t, DefaultThumbnail, SecureThumbnail(DefaultThumbnail))
}
