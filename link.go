package doctext

// Links holds the outcome of scanning one page for hyperlinks.
type Links struct {
	// URLs are absolute, in-origin and fragment-free, sorted and unique.
	URLs []string

	// Ignored are references that were dropped: other origins,
	// fragment targets and non-HTTP schemes.
	Ignored []string
}

// LinkExtractor discovers in-scope hyperlinks in page markup.
type LinkExtractor interface {
	// ExtractLinks resolves every hyperlink on the page against pageURL
	// and filters to the configured origin.
	ExtractLinks(html string, pageURL string) (Links, error)
}
