package doctext

import "context"

// Artifact describes one persisted page.
type Artifact struct {
	URL   string `json:"url" yaml:"url"`
	Path  string `json:"path" yaml:"path"`
	Depth int    `json:"depth" yaml:"depth"`
	Bytes int    `json:"bytes" yaml:"bytes"`
	Hash  string `json:"hash" yaml:"hash"`
}

// ArtifactWriter persists extracted text under an output root.
type ArtifactWriter interface {
	// Prepare establishes the output root. A failure here aborts the run.
	Prepare(ctx context.Context) error

	// Save writes text for url and returns the artifact path relative to
	// the output root. The path is a pure function of url; an existing
	// artifact at that path is overwritten.
	Save(ctx context.Context, url string, text string) (path string, err error)

	// Finish writes the index and run metadata artifacts.
	Finish(ctx context.Context, run *Run) error
}
