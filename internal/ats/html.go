package ats

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// CleanDescription converts an HTML (possibly entity-escaped) job description
// into plain text. Script, style and noscript content is dropped, and blank
// lines are collapsed. Plain-text input passes through with whitespace
// normalization only.
func CleanDescription(raw string) string {
	if raw == "" {
		return ""
	}

	// Greenhouse ships descriptions entity-escaped ("&lt;p&gt;...").
	if strings.Contains(raw, "&lt;") || strings.Contains(raw, "&amp;") {
		raw = html.UnescapeString(raw)
	}
	if !strings.Contains(raw, "<") {
		return collapseLines(raw)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		// Fallback: strip tags mechanically.
		return collapseLines(tagPattern.ReplaceAllString(raw, " "))
	}

	doc.Find("script, style, noscript").Remove()

	// Force line breaks at block boundaries before extracting text.
	doc.Find("p, div, li, br, h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return collapseLines(doc.Text())
}

// collapseLines trims every line and drops empty ones.
func collapseLines(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
