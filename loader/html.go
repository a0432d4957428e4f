package loader

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

var skipElements = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
	"head": true, "nav": true, "footer": true, "svg": true,
}

var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true, "section": true, "article": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true, "blockquote": true,
}

// HTMLParser keeps the visible text of a page, one block element per line.
type HTMLParser struct{}

func (HTMLParser) Parse(data []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				sb.WriteString(t)
				sb.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && skipElements[c.Data] {
				continue
			}
			walk(c)
			if c.Type == html.ElementNode && blockElements[c.Data] {
				sb.WriteString("\n")
			}
		}
	}
	walk(doc)
	return strings.TrimSpace(sb.String()), nil
}
