package doctext

import (
	"context"
	"time"
)

// Run summarizes one crawl.
type Run struct {
	ID         string      `json:"id" yaml:"id"`
	Origin     string      `json:"origin" yaml:"origin"`
	Seeds      []string    `json:"seeds" yaml:"seeds"`
	MaxDepth   int         `json:"maxDepth" yaml:"max_depth"`
	StartedAt  time.Time   `json:"startedAt" yaml:"started_at"`
	FinishedAt time.Time   `json:"finishedAt" yaml:"finished_at"`
	Fetched    int         `json:"fetched" yaml:"fetched"`
	Failed     int         `json:"failed" yaml:"failed"`
	Ignored    int         `json:"ignored" yaml:"ignored"`
	// Unrecorded counts pages the ledger failed to store.
	Unrecorded int         `json:"unrecorded,omitempty" yaml:"unrecorded,omitempty"`
	Artifacts  []*Artifact `json:"artifacts" yaml:"artifacts"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.ID == "" {
		return Errorf(EINVALID, "run ID required")
	}
	if r.Origin == "" {
		return Errorf(EINVALID, "run origin required")
	}
	if r.MaxDepth < 0 {
		return Errorf(EINVALID, "run max depth must not be negative")
	}
	return nil
}

// PageCount returns the number of artifacts written during the run.
func (r *Run) PageCount() int {
	return len(r.Artifacts)
}

// PageStatus is the outcome of one admitted page.
type PageStatus string

// Page statuses recorded in the ledger.
const (
	PageSaved   PageStatus = "saved"
	PageFailed  PageStatus = "failed"
	PageSkipped PageStatus = "skipped" // fetched but not written, or canceled before fetch
)

// PageRecord is one ledger row for an admitted page.
type PageRecord struct {
	RunID  string     `json:"runId"`
	URL    string     `json:"url"`
	Depth  int        `json:"depth"`
	Path   string     `json:"path"`
	Hash   string     `json:"hash"`
	Bytes  int        `json:"bytes"`
	Status PageStatus `json:"status"`
	Error  string     `json:"error,omitempty"`
}

// Validate returns an error if the record contains invalid fields.
func (p *PageRecord) Validate() error {
	if p.RunID == "" {
		return Errorf(EINVALID, "page record run ID required")
	}
	if p.URL == "" {
		return Errorf(EINVALID, "page record URL required")
	}
	switch p.Status {
	case PageSaved, PageFailed, PageSkipped:
	default:
		return Errorf(EINVALID, "unknown page status %q", p.Status)
	}
	return nil
}

// PageFilter represents a filter for FindPages.
type PageFilter struct {
	RunID  *string     `json:"runId"`
	URL    *string     `json:"url"`
	Status *PageStatus `json:"status"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RunLedger records crawl runs and per-page outcomes.
type RunLedger interface {
	// CreateRun stores a new run. The run must carry an ID.
	CreateRun(ctx context.Context, run *Run) error

	// RecordPage stores the outcome of one admitted page.
	RecordPage(ctx context.Context, rec *PageRecord) error

	// FinishRun stores the final counters and finish time of a run.
	// Returns ENOTFOUND if the run does not exist.
	FinishRun(ctx context.Context, run *Run) error

	// FindRunByID retrieves a run with artifacts rebuilt from its saved
	// pages.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindPages retrieves page records matching the filter.
	FindPages(ctx context.Context, filter PageFilter) ([]*PageRecord, error)
}
