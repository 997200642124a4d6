package main

import (
	"time"

	"github.com/fwojciec/doctext/config"
)

// CLI defines the command-line interface structure for Kong.
// Zero values mean "not set" so the config file and defaults can fill
// them in. Depth is a pointer because zero is a valid depth.
type CLI struct {
	Origin      string        `arg:"" optional:"" help:"Documentation origin, e.g. https://docs.example.com"`
	Seeds       []string      `arg:"" optional:"" help:"Seed paths or URLs on the origin (default /)"`
	Output      string        `short:"o" help:"Output root directory (default ./docs)"`
	Depth       *int          `short:"d" help:"Maximum link depth from the seeds (default 3)"`
	Concurrency int           `short:"c" help:"Number of fetch workers (default 1)"`
	Timeout     time.Duration `short:"t" help:"Per-request timeout (default 10s)"`
	UserAgent   string        `name:"user-agent" help:"User-Agent header sent with every request"`
	MaxPages    int           `name:"max-pages" help:"Stop after this many pages (0 means no cap)"`
	Format      string        `help:"Artifact format: text or markdown (default text)"`
	Strict      bool          `help:"Reject malformed markup instead of repairing it"`
	Sitemap     bool          `help:"Also seed from the origin's sitemap.xml"`
	DB          string        `name:"db" help:"Record the run in a SQLite ledger at this path"`
	Config      string        `name:"config" help:"YAML config file; flags override its values"`
	Verbose     bool          `short:"v" help:"Log every fetch and write"`
}

// Overlay returns the settings given on the command line.
func (c *CLI) Overlay() config.Config {
	over := config.Config{
		Origin:      c.Origin,
		Seeds:       c.Seeds,
		Output:      c.Output,
		Concurrency: c.Concurrency,
		Timeout:     c.Timeout,
		UserAgent:   c.UserAgent,
		MaxPages:    c.MaxPages,
		Format:      c.Format,
		Strict:      c.Strict,
		Sitemap:     c.Sitemap,
		DB:          c.DB,
	}
	if c.Depth != nil {
		depth := *c.Depth
		over.Depth = &depth
	}
	return over
}
