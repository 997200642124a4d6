package goquery_test

import (
	"testing"

	"github.com/fwojciec/doctext"
	"github.com/fwojciec/doctext/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const malformedHTML = `<html><body><main><h1>Guide</h1><p>Unclosed paragraph</main></body></html>`

const wellFormedHTML = `<!DOCTYPE html>
<html>
<head><title>Guide</title></head>
<body><main><h1>Guide</h1><p>Some&nbsp;text</p></main></body>
</html>`

func TestLenientParser_Parse(t *testing.T) {
	t.Parallel()

	t.Run("repairs malformed markup", func(t *testing.T) {
		t.Parallel()

		doc, err := goquery.NewLenientParser().Parse(malformedHTML)

		require.NoError(t, err)
		assert.Equal(t, "Unclosed paragraph", doc.Find("main p").Text())
	})

	t.Run("accepts empty input", func(t *testing.T) {
		t.Parallel()

		doc, err := goquery.NewLenientParser().Parse("")

		require.NoError(t, err)
		assert.NotNil(t, doc)
	})

	t.Run("has a name", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "lenient", goquery.NewLenientParser().Name())
	})
}

func TestStrictParser_Parse(t *testing.T) {
	t.Parallel()

	t.Run("parses well-formed markup with HTML entities", func(t *testing.T) {
		t.Parallel()

		doc, err := goquery.NewStrictParser().Parse(wellFormedHTML)

		require.NoError(t, err)
		assert.Equal(t, "Guide", doc.Find("title").Text())
		assert.Equal(t, 1, doc.Find("main p").Length())
	})

	t.Run("rejects unclosed elements", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewStrictParser().Parse(malformedHTML)

		require.Error(t, err)
		assert.Equal(t, doctext.EPARSE, doctext.ErrorCode(err))
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewStrictParser().Parse("")

		assert.Equal(t, doctext.EPARSE, doctext.ErrorCode(err))
	})
}

func TestNewParser(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "strict", goquery.NewParser(true).Name())
	assert.Equal(t, "lenient", goquery.NewParser(false).Name())
}
