package crawl

import (
	"net/url"
	"sync"

	"github.com/fwojciec/doctext"
	"github.com/fwojciec/doctext/bloom"
)

// Compile-time interface verification.
var _ doctext.Frontier = (*Frontier)(nil)

// Bloom filter sizing for the visited pre-check.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate of the pre-check.
	frontierFalsePositiveRate = 0.01
)

// State is the visited record of a single crawl run together with the
// bounds it enforces. It is owned by one Frontier and discarded when the
// run ends.
type State struct {
	Origin   doctext.Origin
	MaxDepth int

	visited map[string]struct{}
	seen    *bloom.Filter
}

// NewState returns an empty State for the given origin and depth bound.
func NewState(origin doctext.Origin, maxDepth int) *State {
	return &State{
		Origin:   origin,
		MaxDepth: maxDepth,
		visited:  make(map[string]struct{}),
		seen:     bloom.NewFilter(frontierExpectedURLs, frontierFalsePositiveRate),
	}
}

// record adds url to the visited set and reports whether it was new.
// The Bloom filter settles the common "never seen" case; a positive is
// confirmed against the exact set so a false positive never drops a page.
func (s *State) record(url string) bool {
	if s.seen.TestAndAdd(url) {
		if _, ok := s.visited[url]; ok {
			return false
		}
	}
	s.visited[url] = struct{}{}
	return true
}

// Frontier gates admission of (url, depth) pairs against a State.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	state *State
}

// NewFrontier creates a Frontier with a fresh State.
func NewFrontier(origin doctext.Origin, maxDepth int) *Frontier {
	return &Frontier{state: NewState(origin, maxDepth)}
}

// Admit records rawURL as visited and returns true if depth is within
// bounds, the URL belongs to the origin and it was not admitted before.
// URL fragments are stripped before deduplication.
func (f *Frontier) Admit(rawURL string, depth int) bool {
	if depth < 0 || depth > f.state.MaxDepth {
		return false
	}

	normalized, err := doctext.NormalizeURL(rawURL)
	if err != nil {
		return false
	}
	u, err := url.Parse(normalized)
	if err != nil || !f.state.Origin.Contains(u) {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.record(normalized)
}

// Visited returns the number of admitted URLs.
func (f *Frontier) Visited() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.state.visited)
}

// Seen returns true if rawURL has been admitted.
func (f *Frontier) Seen(rawURL string) bool {
	normalized, err := doctext.NormalizeURL(rawURL)
	if err != nil {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.state.seen.MaybeContains(normalized) {
		return false
	}
	_, ok := f.state.visited[normalized]
	return ok
}
