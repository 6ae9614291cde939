package source

import (
	"os"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownFormat implements Format for Markdown files. Markup is stripped
// and headings become sections.
type MarkdownFormat struct{}

func init() {
	Register(&MarkdownFormat{})
}

func (f *MarkdownFormat) Name() string         { return "Markdown" }
func (f *MarkdownFormat) Extensions() []string { return []string{".md", ".markdown"} }

func (f *MarkdownFormat) Extract(filename string) (Document, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Document{}, err
	}
	return extractMarkdown(data), nil
}

func extractMarkdown(src []byte) Document {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var b textBuffer
	var headingStart int
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch n := n.(type) {
		case *ast.Heading:
			if entering {
				headingStart = b.mark()
			} else {
				b.section(headingStart, n.Level-1)
				b.newline()
			}
			return ast.WalkContinue, nil
		case *ast.Text:
			if entering {
				b.write(string(n.Value(src)))
				if n.SoftLineBreak() {
					b.space()
				} else if n.HardLineBreak() {
					b.newline()
				}
			}
			return ast.WalkContinue, nil
		case *ast.String:
			if entering {
				b.write(string(n.Value))
			}
			return ast.WalkContinue, nil
		case *ast.AutoLink:
			if entering {
				b.write(string(n.Label(src)))
			}
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			if entering {
				b.newline()
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					b.writeRaw(string(seg.Value(src)))
				}
				b.newline()
			}
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		if n.Type() == ast.TypeBlock {
			b.newline()
		}
		return ast.WalkContinue, nil
	})
	return b.document()
}
