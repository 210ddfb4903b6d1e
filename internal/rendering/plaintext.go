package rendering

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// textSelector matches every element the layouts use to carry a line of text.
const textSelector = "h1, h2, h3, p, li"

// PlainText extracts an ATS-friendly plain-text rendition of a rendered document: one line
// per heading, paragraph or list item, with a blank line before each section heading.
func PlainText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", &ExtractError{Message: "failed to parse document", Cause: err}
	}

	var lines []string
	doc.Find(".resume").Find(textSelector).Each(func(_ int, s *goquery.Selection) {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text == "" {
			return
		}
		if goquery.NodeName(s) == "h2" && len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, text)
	})

	if len(lines) == 0 {
		return "", &ExtractError{Message: "document has no resume content"}
	}
	return strings.Join(lines, "\n") + "\n", nil
}
