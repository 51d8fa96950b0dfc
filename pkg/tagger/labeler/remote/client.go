package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cognicore/tagger/pkg/tagger/internalerr"
)

const (
	maxResponseBytes = 32 << 20
	defaultTimeout   = 15 * time.Second
)

// Client posts feature streams to an HTTP tagging service. The service
// accepts the request stream as text/plain and answers with the tagged
// stream in the same layout crf_test -v 1 prints.
type Client struct {
	BaseURL string
	APIKey  string

	HTTPClient *http.Client

	once          sync.Once
	defaultClient *http.Client
}

// Label implements labeler.Labeler.
func (c *Client) Label(ctx context.Context, request string) (string, error) {
	if c.BaseURL == "" {
		return "", fmt.Errorf("remote labeler: base URL required: %w", internalerr.ErrInvalidConfig)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, strings.NewReader(request))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("remote labeler: %v: %w", err, internalerr.ErrLabelerUnavailable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("remote labeler: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("remote labeler: status %d: %s: %w",
			resp.StatusCode, strings.TrimSpace(string(body)), internalerr.ErrLabelerUnavailable)
	}
	return string(body), nil
}

// httpClient returns HTTPClient, or a default client built on first use
// and shared by later calls.
func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	c.once.Do(func() {
		c.defaultClient = &http.Client{Timeout: defaultTimeout}
	})
	return c.defaultClient
}
