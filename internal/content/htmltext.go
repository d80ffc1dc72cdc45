package content

import (
	"strings"

	"golang.org/x/net/html"
)

// HTMLText extracts the readable text from HTML markup, skipping script and
// style blocks. Used both when importing .html posts and when a post body
// needs a plain-text excerpt.
func HTMLText(markup string) string {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		// html.Parse is extremely tolerant; on the rare failure, fall back
		// to the raw input.
		return markup
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		case html.TextNode:
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return b.String()
}
