// Package config loads crawl settings from a YAML file and merges them with
// command-line values.
package config

import (
	"errors"
	"os"
	"time"

	"github.com/fwojciec/doctext"
	"github.com/fwojciec/doctext/crawl"
	doctexthttp "github.com/fwojciec/doctext/http"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// DefaultOutput is the output root used when none is configured.
const DefaultOutput = "./docs"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Config holds every crawl setting. Zero values mean "not set" so that
// configs can be layered with Merge. Depth is a pointer because zero is a
// meaningful depth.
type Config struct {
	Origin      string        `yaml:"origin"`
	Seeds       []string      `yaml:"seeds"`
	Depth       *int          `yaml:"depth"`
	Output      string        `yaml:"output"`
	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"`
	UserAgent   string        `yaml:"user_agent"`
	MaxPages    int           `yaml:"max_pages"`
	Format      string        `yaml:"format"`
	Strict      bool          `yaml:"strict"`
	Sitemap     bool          `yaml:"sitemap"`
	DB          string        `yaml:"db"`
}

// Default returns the built-in defaults.
func Default() Config {
	depth := crawl.DefaultMaxDepth
	return Config{
		Depth:       &depth,
		Output:      DefaultOutput,
		Concurrency: 1,
		Timeout:     doctexthttp.DefaultFetchTimeout,
		UserAgent:   doctexthttp.DefaultUserAgent,
		Format:      FormatText,
	}
}

// LoadFile loads a Config from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, doctext.Errorf(doctext.EINVALID, "parsing config %s: %v", path, err)
	}
	return &c, nil
}

// Merge returns c with every set field of over applied on top.
func (c Config) Merge(over Config) Config {
	if over.Origin != "" {
		c.Origin = over.Origin
	}
	if len(over.Seeds) > 0 {
		c.Seeds = over.Seeds
	}
	if over.Depth != nil {
		depth := *over.Depth
		c.Depth = &depth
	}
	if over.Output != "" {
		c.Output = over.Output
	}
	if over.Concurrency != 0 {
		c.Concurrency = over.Concurrency
	}
	if over.Timeout != 0 {
		c.Timeout = over.Timeout
	}
	if over.UserAgent != "" {
		c.UserAgent = over.UserAgent
	}
	if over.MaxPages != 0 {
		c.MaxPages = over.MaxPages
	}
	if over.Format != "" {
		c.Format = over.Format
	}
	if over.Strict {
		c.Strict = true
	}
	if over.Sitemap {
		c.Sitemap = true
	}
	if over.DB != "" {
		c.DB = over.DB
	}
	return c
}

// MaxDepth returns the configured depth or crawl.DefaultMaxDepth.
func (c Config) MaxDepth() int {
	if c.Depth == nil {
		return crawl.DefaultMaxDepth
	}
	return *c.Depth
}

// Validate returns an error if the config cannot drive a crawl.
func (c Config) Validate() error {
	if c.Origin == "" {
		return doctext.Errorf(doctext.EINVALID, "origin required")
	}
	if _, err := doctext.ParseOrigin(c.Origin); err != nil {
		return err
	}
	if c.MaxDepth() < 0 {
		return doctext.Errorf(doctext.EINVALID, "depth must not be negative")
	}
	if c.Concurrency < 1 {
		return doctext.Errorf(doctext.EINVALID, "concurrency must be at least 1")
	}
	if c.Timeout < 0 {
		return doctext.Errorf(doctext.EINVALID, "timeout must not be negative")
	}
	if c.MaxPages < 0 {
		return doctext.Errorf(doctext.EINVALID, "max pages must not be negative")
	}
	switch c.Format {
	case FormatText, FormatMarkdown:
	default:
		return doctext.Errorf(doctext.EINVALID, "unknown format %q", c.Format)
	}
	if c.Output == "" {
		return doctext.Errorf(doctext.EINVALID, "output directory required")
	}
	return nil
}
