// ABOUTME: Shared outbound HTTP client: default headers, hardened transport, one attempt per call
// ABOUTME: Upstream failures are surfaced to the caller as-is; nothing here retries or backs off

package httputil

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds a whole request when the caller passes zero.
const DefaultTimeout = 60 * time.Second

// maxErrorBody caps how much of an error response is read into memory.
const maxErrorBody = 64 << 10

// Client wraps an http.Client with a base URL and default headers.
type Client struct {
	httpClient *http.Client
	baseURL    string
	headers    map[string]string
}

// NewClient creates a client for baseURL. Proxy support comes from the stdlib's
// default transport settings (HTTP_PROXY, HTTPS_PROXY).
func NewClient(baseURL string, headers map[string]string, timeout time.Duration) *Client {
	if headers == nil {
		headers = make(map[string]string)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: timeout,
				MaxIdleConns:          20,
				IdleConnTimeout:       90 * time.Second,
			},
		},
		baseURL: baseURL,
		headers: headers,
	}
}

// BaseURL returns the base URL configured on this client.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends one request. Non-2xx responses are returned, not converted to errors;
// err is only set for transport failures.
func (c *Client) Do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s %s: %w", method, path, err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	return resp, nil
}

// ReadErrorBody drains at most 64 KiB of an error response and returns it trimmed.
func ReadErrorBody(resp *http.Response) string {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return strings.TrimSpace(string(b))
}

// NormalizeBaseURL trims trailing slashes and drops suffix when it is the only
// path segment (http://host/v1 -> http://host), so callers can append their own
// prefixed paths without doubling it. Nested paths are left alone.
func NormalizeBaseURL(baseURL, suffix string) string {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" || suffix == "" {
		return baseURL
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}
	if u.Path == suffix {
		u.Path = ""
		return strings.TrimRight(u.String(), "/")
	}
	return baseURL
}
