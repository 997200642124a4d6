// Package goquery implements content and link extraction on top of
// PuerkitoBio/goquery.
package goquery

import (
	"encoding/xml"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/beevik/etree"
	"github.com/fwojciec/doctext"
	"golang.org/x/net/html"
)

// Parser turns page markup into a queryable document.
type Parser interface {
	// Parse parses markup. Implementations that cannot produce a document
	// return an EPARSE error.
	Parse(markup string) (*goquery.Document, error)

	// Name identifies the parser in logs and configuration.
	Name() string
}

// Ensure parsers implement the Parser interface.
var (
	_ Parser = (*LenientParser)(nil)
	_ Parser = (*StrictParser)(nil)
)

// LenientParser parses markup with the HTML5 tree construction algorithm.
// Malformed input is repaired rather than rejected, so Parse never fails.
type LenientParser struct{}

// NewLenientParser creates a LenientParser.
func NewLenientParser() *LenientParser {
	return &LenientParser{}
}

// Name returns "lenient".
func (p *LenientParser) Name() string {
	return "lenient"
}

// Parse builds a best-effort document. If the tokenizer gives up, an empty
// document is returned.
func (p *LenientParser) Parse(markup string) (*goquery.Document, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		root = &html.Node{Type: html.DocumentNode}
	}
	return goquery.NewDocumentFromNode(root), nil
}

// StrictParser accepts only well-formed markup. Unclosed or mismatched
// elements return an EPARSE error instead of being repaired.
type StrictParser struct{}

// NewStrictParser creates a StrictParser.
func NewStrictParser() *StrictParser {
	return &StrictParser{}
}

// Name returns "strict".
func (p *StrictParser) Name() string {
	return "strict"
}

// Parse checks well-formedness with an XML reader and then builds the
// document with the HTML parser so selectors behave the same for both
// variants.
func (p *StrictParser) Parse(markup string) (*goquery.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.Entity = xml.HTMLEntity
	if err := doc.ReadFromString(markup); err != nil {
		return nil, doctext.Errorf(doctext.EPARSE, "malformed markup: %v", err)
	}
	if doc.Root() == nil {
		return nil, doctext.Errorf(doctext.EPARSE, "markup has no root element")
	}

	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, doctext.Errorf(doctext.EPARSE, "failed to parse HTML: %v", err)
	}
	return goquery.NewDocumentFromNode(root), nil
}

// NewParser returns the strict parser when strict is set and the lenient
// parser otherwise.
func NewParser(strict bool) Parser {
	if strict {
		return NewStrictParser()
	}
	return NewLenientParser()
}
