package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apierrors "github.com/lepinkainen/bookshelf/internal/errors"
)

func (c *Client) getJSON(ctx context.Context, endpoint string, target any) error {
	var lastErr error
	for attempt := 1; attempt <= c.retryAttempts; attempt++ {
		if err := c.doJSONRequest(ctx, http.MethodGet, endpoint, target); err != nil {
			lastErr = err
			if !isRetryable(err) || attempt == c.retryAttempts {
				return err
			}
			time.Sleep(backoffDelay(attempt))
			continue
		}
		return nil
	}
	return lastErr
}

// postJSON sends a mutation exactly once, never through the retry loop.
// A POST is not idempotent: a retried request that reached the server
// before the response was lost would apply the mutation twice.
func (c *Client) postJSON(ctx context.Context, endpoint string, target any) error {
	return c.doJSONRequest(ctx, http.MethodPost, endpoint, target)
}

func (c *Client) doJSONRequest(ctx context.Context, method, endpoint string, target any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apierrors.Classify(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return apierrors.NewNotFound("google books reported no matching resource")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return apierrors.NewHTTPStatus(resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return apierrors.NewMalformed(fmt.Sprintf("decoding google books response: %v", err))
	}
	return nil
}

// Only transport-level failures are worth retrying. Classified HTTP and
// payload errors are final.
func isRetryable(err error) bool {
	return apierrors.KindOf(err) == apierrors.KindNetwork
}

func backoffDelay(attempt int) time.Duration {
	// exponential backoff capped at 10 seconds
	delay := time.Duration(1<<uint(attempt-1)) * time.Second
	if delay > 10*time.Second {
		return 10 * time.Second
	}
	return delay
}
