package doctext

import "context"

// Fetcher retrieves raw markup from URLs.
type Fetcher interface {
	// Fetch issues a single bounded retrieval and returns the response body.
	// Timeouts, transport failures and non-2xx responses return an
	// ENETWORK error. Implementations never retry.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}
