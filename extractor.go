package doctext

import "strings"

// BlockKind identifies the type of a text block.
type BlockKind int

// Block kinds emitted by content extraction.
const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockListItem
	BlockCode
)

// Block is one line of an extracted document.
type Block struct {
	Kind BlockKind
	// Level is the heading level (1-6). Zero for other kinds.
	Level int
	Text  string
}

// String renders the block as a single line.
func (b Block) String() string {
	switch b.Kind {
	case BlockHeading:
		return strings.Repeat("#", b.Level) + " " + b.Text
	case BlockListItem:
		return "- " + b.Text
	case BlockCode:
		return "`" + b.Text + "`"
	default:
		return b.Text
	}
}

// Text is the flattened, ordered representation of one page.
type Text struct {
	Title  string
	Blocks []Block
}

// IsEmpty reports whether the text has neither a title nor any blocks.
func (t *Text) IsEmpty() bool {
	return t == nil || (t.Title == "" && len(t.Blocks) == 0)
}

// String renders the document. The title becomes a top-level heading and
// blocks follow in order, separated by blank lines.
func (t *Text) String() string {
	if t.IsEmpty() {
		return ""
	}

	lines := make([]string, 0, len(t.Blocks)+1)
	if t.Title != "" {
		lines = append(lines, "# "+t.Title)
	}
	for _, b := range t.Blocks {
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n\n") + "\n"
}

// ContentExtractor turns page markup into an ordered text document.
type ContentExtractor interface {
	// Extract removes boilerplate regions, selects the main content region
	// and returns its headings, paragraphs, list items and code blocks.
	// Markup that cannot be parsed returns an EPARSE error.
	Extract(html string) (*Text, error)
}
