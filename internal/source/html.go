package source

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLFormat implements Format for HTML and XHTML files.
type HTMLFormat struct{}

func init() {
	Register(&HTMLFormat{})
}

func (f *HTMLFormat) Name() string         { return "HTML" }
func (f *HTMLFormat) Extensions() []string { return []string{".html", ".htm", ".xhtml"} }

func (f *HTMLFormat) Extract(filename string) (Document, error) {
	file, err := os.Open(filename)
	if err != nil {
		return Document{}, err
	}
	defer file.Close()
	return extractHTML(file)
}

// skipped elements contribute no text. Ruby readings (rt, rp) are dropped
// so that furigana is not read twice.
var skipped = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Rt:       true,
	atom.Rp:       true,
}

var blocks = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true, atom.Figcaption: true,
	atom.Figure: true, atom.Footer: true, atom.Header: true, atom.Hr: true, atom.Li: true,
	atom.Main: true, atom.Nav: true, atom.Ol: true, atom.P: true, atom.Pre: true,
	atom.Section: true, atom.Table: true, atom.Td: true, atom.Th: true, atom.Tr: true,
	atom.Ul: true,
}

var headings = map[atom.Atom]int{
	atom.H1: 0, atom.H2: 1, atom.H3: 2, atom.H4: 3, atom.H5: 4, atom.H6: 5,
}

// extractHTML returns the visible text of an HTML document, one line per
// block element, with h1 to h6 as sections.
func extractHTML(r io.Reader) (Document, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return Document{}, fmt.Errorf("failed to parse html: %w", err)
	}

	var b textBuffer
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.write(n.Data)
			return
		case html.ElementNode:
			if skipped[n.DataAtom] {
				return
			}
			if n.DataAtom == atom.Br {
				b.newline()
				return
			}
			if level, ok := headings[n.DataAtom]; ok {
				start := b.mark()
				walkChildren(n, walk)
				b.section(start, level)
				b.newline()
				return
			}
			if blocks[n.DataAtom] {
				b.newline()
				walkChildren(n, walk)
				b.newline()
				return
			}
		}
		walkChildren(n, walk)
	}
	walk(doc)
	return b.document(), nil
}

func walkChildren(n *html.Node, walk func(*html.Node)) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
}
