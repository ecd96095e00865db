package openlibrary

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
)

// Search queries /search.json. Pages are 1-based; page 0 means the first page.
func (c *Client) Search(ctx context.Context, query string, limit, page int) (*SearchResponse, error) {
	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("page", strconv.Itoa(page))
	params.Set("fields", searchFields)

	endpoint := fmt.Sprintf("%s/search.json?%s", c.baseURL, params.Encode())

	slog.Debug("Searching Open Library", "query", query, "page", page)

	var response SearchResponse
	if err := c.getJSON(ctx, endpoint, &response); err != nil {
		return nil, fmt.Errorf("open library search for %q: %w", query, err)
	}

	return &response, nil
}

// WorkDetail fetches a work record. A literal "/works/" prefix on the id
// is stripped before the request.
func (c *Client) WorkDetail(ctx context.Context, workID string) (*Work, error) {
	id := StripWorkKey(workID)

	endpoint := fmt.Sprintf("%s/works/%s.json", c.baseURL, url.PathEscape(id))

	var work Work
	if err := c.getJSON(ctx, endpoint, &work); err != nil {
		return nil, fmt.Errorf("open library work %s: %w", id, err)
	}

	return &work, nil
}

// StripWorkKey removes the "/works/" prefix from a work key, if present.
func StripWorkKey(key string) string {
	return strings.TrimPrefix(key, "/works/")
}
