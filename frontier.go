package doctext

// Frontier is the single admission gate for crawl work.
type Frontier interface {
	// Admit records url as visited and returns true when it is in scope,
	// depth does not exceed the maximum and url was never admitted before.
	// It returns false otherwise. Admit is atomic.
	Admit(url string, depth int) bool

	// Visited returns the number of admitted URLs.
	Visited() int
}
