package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// browser-like identity headers sent on every upstream request so that
// news sites serve the same markup they serve a real reader
var defaultHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
}

// StatusError reports a non-success upstream response
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s returned status %d", e.URL, e.StatusCode)
}

// Fetcher retrieves upstream documents and images
type Fetcher interface {
	Get(ctx context.Context, url string, headers map[string]string) (*Result, error)
}

// Result holds a successful upstream response
type Result struct {
	Body        []byte
	ContentType string
	StatusCode  int
}

// Client is the production Fetcher backed by net/http
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new upstream fetch client
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Get fetches the URL with browser identity headers. Per-call headers
// override the defaults. Non-2xx responses return a *StatusError.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for k, v := range defaultHeaders {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &Result{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}, nil
}
