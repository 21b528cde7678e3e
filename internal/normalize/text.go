// Package normalize maps raw provider payloads into the canonical catalog
// records. Every function is pure: no I/O, no logging, and no placeholder
// values baked into optional fields.
package normalize

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StripHTML removes markup from scraped text, turning <br> and paragraph
// breaks into newlines and decoding entities. Plain text is returned as is.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return strings.TrimSpace(s)
	}

	body := doc.Find("body")
	body.Find("br").ReplaceWithHtml("\n")
	body.Find("p").Each(func(_ int, p *goquery.Selection) {
		p.AppendHtml("\n\n")
	})

	return strings.TrimSpace(body.Text())
}

func joinParagraphs(paragraphs []string) string {
	parts := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		if p = StripHTML(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "\n\n")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
