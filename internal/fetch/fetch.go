// Package fetch downloads documents over HTTP for the converter. Every
// failure, transport or status, wraps transponder.ErrFetch.
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/large-farva/flybydb/internal/transponder"
)

// DefaultTimeout bounds a single request when the caller sets none.
const DefaultTimeout = 30 * time.Second

// Client performs plain GET requests.
type Client struct {
	rc *resty.Client
}

// Options configures a Client.
type Options struct {
	Timeout   time.Duration
	UserAgent string
}

// New returns a Client. Zero options fall back to DefaultTimeout and no
// explicit user agent.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	rc := resty.New().SetTimeout(opts.Timeout)
	if opts.UserAgent != "" {
		rc.SetHeader("User-Agent", opts.UserAgent)
	}
	return &Client{rc: rc}
}

// Get returns the body of url. Non-2xx responses are errors.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.rc.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json, text/plain;q=0.9, */*;q=0.1").
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", transponder.ErrFetch, url, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: GET %s returned HTTP %d", transponder.ErrFetch, url, resp.StatusCode())
	}
	return resp.Body(), nil
}
