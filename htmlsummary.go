package webpdf

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// htmlSummary describes a DOM dump well enough to tell a blank render
// from a populated one.
type htmlSummary struct {
	Title     string
	TextChars int
}

// summarizeHTML parses doc and counts the non-space characters of text
// that would be rendered inside <body>.
func summarizeHTML(doc string) (htmlSummary, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return htmlSummary{}, err
	}

	var sum htmlSummary
	var walk func(n *html.Node, inBody bool)
	walk = func(n *html.Node, inBody bool) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Title:
				if sum.Title == "" {
					sum.Title = strings.TrimSpace(nodeText(n))
				}
				return
			case atom.Script, atom.Style, atom.Noscript, atom.Template:
				return
			case atom.Body:
				inBody = true
			}
		}
		if n.Type == html.TextNode && inBody {
			sum.TextChars += visibleChars(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inBody)
		}
	}
	walk(root, false)
	return sum, nil
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

func visibleChars(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// runeCount is the length reported in the journal for the HTML dump.
func runeCount(s string) int {
	return utf8.RuneCountInString(s)
}
