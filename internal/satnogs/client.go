package satnogs

import (
	"context"

	"github.com/large-farva/flybydb/internal/transponder"
)

// DefaultURL is the public SatNOGS DB transmitter endpoint.
const DefaultURL = "https://db.satnogs.org/api/transmitters/?format=json"

// Getter fetches a document body. *fetch.Client satisfies it.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Client reads transmitters from a SatNOGS DB instance.
type Client struct {
	URL    string
	Getter Getter
}

// NewClient returns a client for url, or DefaultURL when url is empty.
func NewClient(g Getter, url string) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{URL: url, Getter: g}
}

// Transmitters fetches and decodes the full transmitter list.
func (c *Client) Transmitters(ctx context.Context) ([]transponder.Raw, error) {
	body, err := c.Getter.Get(ctx, c.URL)
	if err != nil {
		return nil, err
	}
	return Decode(body)
}
