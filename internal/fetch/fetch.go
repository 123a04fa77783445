// Package fetch is the outbound I/O boundary: it retrieves paste contents
// and attachment payloads as text. It makes no decisions about what it
// fetched.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

const (
	defaultTimeout = 30 * time.Second

	// maxBodyBytes bounds how much of a log source is read. Anything a
	// paste service or CDN serves past this is not useful log text.
	maxBodyBytes = 8 << 20
)

// SharedHTTPClient returns an HTTP client with connection pooling, reused
// across all outbound fetches. Safe for concurrent use.
func SharedHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	transport := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// Client fetches URL contents as text. It implements domain.Fetcher.
type Client struct {
	http      *http.Client
	userAgent string
}

// NewClient creates a Client around the given HTTP client. A nil client
// gets the shared pooled default.
func NewClient(httpClient *http.Client, userAgent string) *Client {
	if httpClient == nil {
		httpClient = SharedHTTPClient(defaultTimeout)
	}
	return &Client{http: httpClient, userAgent: userAgent}
}

// Text retrieves the body behind url as a string. Non-2xx responses are
// errors. The body is read with a hard size cap.
func (c *Client) Text(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read body of %s: %w", url, err)
	}
	return string(data), nil
}
