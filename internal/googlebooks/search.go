package googlebooks

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/lepinkainen/bookshelf/internal/book"
)

// Search performs a volume search. The search type facet is applied as an
// explicit query prefix (intitle:, inauthor:, subject:).
func (c *Client) Search(ctx context.Context, query string, searchType book.SearchType, maxResults, startIndex int) (*VolumesResponse, error) {
	if maxResults <= 0 {
		maxResults = 10
	}
	if startIndex < 0 {
		startIndex = 0
	}

	params := url.Values{}
	params.Set("q", prefixQuery(searchType, query))
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("startIndex", strconv.Itoa(startIndex))
	params.Set("orderBy", "relevance")
	params.Set("printType", "all")
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	endpoint := fmt.Sprintf("%s/volumes?%s", c.baseURL, params.Encode())

	slog.Debug("Searching Google Books", "query", query, "type", searchType, "startIndex", startIndex)

	var response VolumesResponse
	if err := c.getJSON(ctx, endpoint, &response); err != nil {
		return nil, fmt.Errorf("google books search for %q: %w", query, err)
	}

	return &response, nil
}

// VolumeDetail fetches a single volume by its id.
func (c *Client) VolumeDetail(ctx context.Context, volumeID string) (*Volume, error) {
	params := url.Values{}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	endpoint := fmt.Sprintf("%s/volumes/%s", c.baseURL, url.PathEscape(volumeID))
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var volume Volume
	if err := c.getJSON(ctx, endpoint, &volume); err != nil {
		return nil, fmt.Errorf("google books volume %s: %w", volumeID, err)
	}

	return &volume, nil
}

func prefixQuery(searchType book.SearchType, query string) string {
	switch searchType {
	case book.SearchByTitle:
		return "intitle:" + query
	case book.SearchByAuthor:
		return "inauthor:" + query
	case book.SearchBySubject:
		return "subject:" + query
	default:
		return query
	}
}
