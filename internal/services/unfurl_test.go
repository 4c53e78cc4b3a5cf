package services

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstURL(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"check out https://example.com/venue tonight", "https://example.com/venue"},
		{"http://a.test and https://b.test", "http://a.test"},
		{"no links here", ""},
		{"", ""},
		{"trailing punctuation stays out of quotes \"https://x.test\"", "https://x.test"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FirstURL(tt.text), "text: %q", tt.text)
	}
}

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractPreviewOpenGraph(t *testing.T) {
	doc := mustDoc(t, `<html><head>
		<meta property="og:title" content="Summer BBQ">
		<meta property="og:description" content="Annual team cookout">
		<meta property="og:image" content="https://example.com/bbq.jpg">
		<title>fallback title</title>
	</head></html>`)

	preview := extractPreview(doc, "https://example.com/bbq")

	assert.Equal(t, "https://example.com/bbq", preview.URL)
	require.NotNil(t, preview.Title)
	assert.Equal(t, "Summer BBQ", *preview.Title)
	require.NotNil(t, preview.Description)
	assert.Equal(t, "Annual team cookout", *preview.Description)
	require.NotNil(t, preview.ImageURL)
	assert.Equal(t, "https://example.com/bbq.jpg", *preview.ImageURL)
}

func TestExtractPreviewFallbacks(t *testing.T) {
	doc := mustDoc(t, `<html><head>
		<title>  Plain Page  </title>
		<meta name="description" content="a page without open graph tags">
	</head></html>`)

	preview := extractPreview(doc, "https://example.com/plain")

	require.NotNil(t, preview.Title)
	assert.Equal(t, "Plain Page", *preview.Title)
	require.NotNil(t, preview.Description)
	assert.Equal(t, "a page without open graph tags", *preview.Description)
	assert.Nil(t, preview.ImageURL)
}

func TestExtractPreviewEmptyPage(t *testing.T) {
	doc := mustDoc(t, `<html><head></head><body></body></html>`)

	preview := extractPreview(doc, "https://example.com/empty")

	assert.Equal(t, "https://example.com/empty", preview.URL)
	assert.Nil(t, preview.Title)
	assert.Nil(t, preview.Description)
	assert.Nil(t, preview.ImageURL)
}
