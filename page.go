package doctext

// PageResult is the outcome of processing one fetched page.
type PageResult struct {
	URL   string
	Depth int
	Text  *Text
	Links Links
}
