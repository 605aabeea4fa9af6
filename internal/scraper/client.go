package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client wraps an HTTP client with the configured user agent and timeout.
// It is shared by all scrapers and by the segment downloader.
type Client struct {
	httpClient *http.Client
	noRedirect *http.Client
	userAgent  string
}

// NewClient builds a client. A zero timeout disables the request deadline.
func NewClient(userAgent string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		noRedirect: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent: userAgent,
	}
}

// UserAgent returns the configured User-Agent header value.
func (c *Client) UserAgent() string {
	return c.userAgent
}

// Get issues a GET request, following redirects.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	return c.do(ctx, c.httpClient, url)
}

// GetNoRedirect issues a GET request and returns the first response even
// when it is a redirect.
func (c *Client) GetNoRedirect(ctx context.Context, url string) (*http.Response, error) {
	return c.do(ctx, c.noRedirect, url)
}

// GetText fetches a URL and returns its body as a string, rejecting
// non-2xx responses.
func (c *Client) GetText(ctx context.Context, url string) (string, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response from %q: %w", url, err)
	}
	return string(body), nil
}

// GetJSON fetches a URL and decodes its JSON body into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %q: %w", url, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, client *http.Client, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %q: %w", url, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", url, err)
	}
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("fetch %q: unexpected status %s", resp.Request.URL, resp.Status)
	}
	return nil
}
