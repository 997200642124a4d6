package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/doctext"
	"github.com/fwojciec/doctext/config"
	"github.com/fwojciec/doctext/crawl"
	"github.com/fwojciec/doctext/fs"
	"github.com/fwojciec/doctext/goquery"
	"github.com/fwojciec/doctext/htmltomarkdown"
	doctexthttp "github.com/fwojciec/doctext/http"
	docslog "github.com/fwojciec/doctext/slog"
	"github.com/fwojciec/doctext/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("doctext"),
		kong.Description("Crawl a documentation site and save each page as plain text"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	deps, cleanup, err := wire(cfg, logger, stdout, stderr)
	if err != nil {
		return err
	}
	defer cleanup()

	cmd := &CrawlCmd{
		Seeds:  cfg.Seeds,
		Output: cfg.Output,
	}
	return cmd.Run(ctx, deps)
}

// loadConfig layers defaults, the optional config file and the flags, then
// validates the result.
func loadConfig(cli *CLI) (config.Config, error) {
	cfg := config.Default()

	if cli.Config != "" {
		file, err := config.LoadFile(cli.Config)
		if errors.Is(err, config.ErrConfigNotFound) {
			return config.Config{}, fmt.Errorf("config file %s not found", cli.Config)
		} else if err != nil {
			return config.Config{}, err
		}
		cfg = cfg.Merge(*file)
	}

	cfg = cfg.Merge(cli.Overlay())
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %s", doctext.ErrorMessage(err))
	}
	return cfg, nil
}

// wire builds the crawler and its collaborators from cfg. The returned
// cleanup releases the fetcher and the ledger database.
func wire(cfg config.Config, logger *slog.Logger, stdout, stderr io.Writer) (*Dependencies, func(), error) {
	origin, err := doctext.ParseOrigin(cfg.Origin)
	if err != nil {
		return nil, nil, err
	}

	httpFetcher := doctexthttp.NewFetcher(
		doctexthttp.WithTimeout(cfg.Timeout),
		doctexthttp.WithUserAgent(cfg.UserAgent),
	)
	fetcher := docslog.NewLoggingFetcher(httpFetcher, logger)

	parser := goquery.NewParser(cfg.Strict)
	var content doctext.ContentExtractor = goquery.NewContentExtractor(parser)
	if cfg.Format == config.FormatMarkdown {
		content = htmltomarkdown.NewContentExtractor(parser)
	}

	crawler := &crawl.Crawler{
		Origin:      origin,
		Fetcher:     fetcher,
		Content:     content,
		Links:       goquery.NewLinkExtractor(origin, parser),
		Writer:      docslog.NewLoggingWriter(fs.NewWriter(cfg.Output, origin), logger),
		MaxDepth:    cfg.MaxDepth(),
		MaxPages:    cfg.MaxPages,
		Concurrency: cfg.Concurrency,
	}

	cleanup := func() { _ = fetcher.Close() }

	if cfg.DB != "" {
		db := sqlite.NewDB(cfg.DB)
		if err := db.Open(); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("open ledger %s: %w", cfg.DB, err)
		}
		crawler.Ledger = docslog.NewLoggingLedger(sqlite.NewRunLedger(db), logger)
		cleanup = func() {
			_ = fetcher.Close()
			_ = db.Close()
		}
	}

	deps := &Dependencies{
		Stdout:  stdout,
		Stderr:  stderr,
		Logger:  logger,
		Origin:  origin,
		Crawler: crawler,
	}

	if cfg.Sitemap {
		deps.Sitemaps = docslog.NewLoggingSitemapService(
			doctexthttp.NewSitemapService(httpFetcher.Client()),
			logger,
		)
	}

	return deps, cleanup, nil
}
