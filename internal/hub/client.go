// Package hub is the HTTP client for the managed hub appliance. It reads
// the hub's free-memory counter and sample history, and issues reboot
// commands. The hub trusts local-origin requests, so no auth is involved.
// All calls are synchronous with a short timeout; failures are returned
// as wrapped errors for the caller to treat as recoverable.
package hub

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aatumaykin/hubmon/internal/logger"
)

const (
	// Hub endpoint paths.
	pathFreeMemory    = "/hub/advanced/freeOSMemory"
	pathMemoryHistory = "/hub/advanced/freeOSMemoryHistory"
	pathReboot        = "/hub/reboot"
	pathRebootRebuild = "/hub/rebuildDatabaseAndReboot"

	// historyHeaderPrefix starts the first line of the history CSV.
	historyHeaderPrefix = "Date/time"

	// maxResponseBytes bounds how much of a hub response we read.
	maxResponseBytes = 4 << 20
)

// Client talks to one hub over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logger.Logger
}

// NewClient creates a hub client. baseURL is the hub root, e.g.
// "http://192.168.1.10". timeout bounds every request.
func NewClient(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  log,
	}
}

// get fetches a hub endpoint and returns the response body as a string.
func (c *Client) get(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request for %s: %w", path, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("hub request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("hub request %s returned status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read hub response for %s: %w", path, err)
	}

	return string(body), nil
}

// post issues a command to a hub endpoint. The hub acts asynchronously;
// any success-class status means the command was accepted and the body
// is ignored.
func (c *Client) post(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("hub command %s failed: %w", path, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes)) //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("hub command %s returned status %d", path, resp.StatusCode)
	}

	return nil
}
