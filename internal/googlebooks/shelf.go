package googlebooks

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
)

// Bookshelves lists the public bookshelves of a user.
func (c *Client) Bookshelves(ctx context.Context, userID string) (*BookshelfList, error) {
	endpoint := fmt.Sprintf("%s/users/%s/bookshelves%s",
		c.baseURL, url.PathEscape(userID), c.keyQuery())

	var list BookshelfList
	if err := c.getJSON(ctx, endpoint, &list); err != nil {
		return nil, fmt.Errorf("listing bookshelves for user %s: %w", userID, err)
	}

	return &list, nil
}

// ShelfVolumes lists the volumes on one bookshelf of a user.
func (c *Client) ShelfVolumes(ctx context.Context, userID, shelf string) (*VolumesResponse, error) {
	endpoint := fmt.Sprintf("%s/users/%s/bookshelves/%s/volumes%s",
		c.baseURL, url.PathEscape(userID), url.PathEscape(shelf), c.keyQuery())

	var response VolumesResponse
	if err := c.getJSON(ctx, endpoint, &response); err != nil {
		return nil, fmt.Errorf("listing shelf %s volumes: %w", shelf, err)
	}

	return &response, nil
}

// AddToShelf adds a volume to a bookshelf of the authenticated library.
// Fire-once: no automatic retry beyond the transport layer.
func (c *Client) AddToShelf(ctx context.Context, shelf, volumeID string) error {
	if err := c.postJSON(ctx, c.mutationEndpoint(shelf, "addVolume", volumeID), nil); err != nil {
		return fmt.Errorf("adding volume %s to shelf %s: %w", volumeID, shelf, err)
	}

	slog.Info("Added volume to bookshelf", "volume", volumeID, "shelf", shelf)
	return nil
}

// RemoveFromShelf removes a volume from a bookshelf of the authenticated library.
func (c *Client) RemoveFromShelf(ctx context.Context, shelf, volumeID string) error {
	if err := c.postJSON(ctx, c.mutationEndpoint(shelf, "removeVolume", volumeID), nil); err != nil {
		return fmt.Errorf("removing volume %s from shelf %s: %w", volumeID, shelf, err)
	}

	slog.Info("Removed volume from bookshelf", "volume", volumeID, "shelf", shelf)
	return nil
}

func (c *Client) mutationEndpoint(shelf, op, volumeID string) string {
	params := url.Values{}
	params.Set("volumeId", volumeID)
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	return fmt.Sprintf("%s/mylibrary/bookshelves/%s/%s?%s",
		c.baseURL, url.PathEscape(shelf), op, params.Encode())
}

func (c *Client) keyQuery() string {
	if c.apiKey == "" {
		return ""
	}
	return "?key=" + url.QueryEscape(c.apiKey)
}
