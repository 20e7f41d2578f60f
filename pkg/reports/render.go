package reports

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// RenderHTML converts a report's Markdown body to HTML.
func RenderHTML(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(md))
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	return string(markdown.Render(doc, renderer))
}

// RenderText converts a report's Markdown body to plain terminal text by
// rendering it to HTML and extracting the text per block element.
func RenderText(md string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(RenderHTML(md)))
	if err != nil {
		// Markdown without markup is still readable as-is.
		return md
	}

	var b strings.Builder
	doc.Find("h1, h2, h3, h4, h5, h6, p, li, pre, blockquote").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		if goquery.NodeName(s) == "li" {
			b.WriteString("  - ")
		}
		b.WriteString(text)
		b.WriteString("\n")
	})

	out := strings.TrimSpace(b.String())
	if out == "" {
		return strings.TrimSpace(md)
	}
	return out
}
