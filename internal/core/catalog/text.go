package catalog

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText 將目錄回傳的 HTML 片段轉為純文字，清單項目各佔一行
func PlainText(html string) string {
	if !strings.ContainsAny(html, "<&") {
		return strings.TrimSpace(html)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}

	items := doc.Find("li")
	if items.Length() > 0 {
		lines := make([]string, 0, items.Length())
		items.Each(func(_ int, s *goquery.Selection) {
			if line := collapse(s.Text()); line != "" {
				lines = append(lines, line)
			}
		})
		return strings.Join(lines, "\n")
	}

	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if line = collapse(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
