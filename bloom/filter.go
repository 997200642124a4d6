// Package bloom provides a probabilistic pre-check for visited URLs.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter wraps a Bloom filter keyed by normalized URL strings.
// It is not safe for concurrent use; callers hold their own lock.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected URLs
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// MaybeContains returns true if the URL might have been added.
// A false result is definitive.
func (f *Filter) MaybeContains(url string) bool {
	return f.f.TestString(url)
}

// TestAndAdd records the URL and reports whether it might have been
// added before.
func (f *Filter) TestAndAdd(url string) bool {
	return f.f.TestAndAddString(url)
}
