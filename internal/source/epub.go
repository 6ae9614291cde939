package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/taylorskalyo/goreader/epub"
)

// EPUBFormat implements Format for EPUB files.
type EPUBFormat struct{}

func init() {
	Register(&EPUBFormat{})
}

func (f *EPUBFormat) Name() string         { return "EPUB" }
func (f *EPUBFormat) Extensions() []string { return []string{".epub"} }

// Extract joins the text of every spine item, one item per line. Sections
// come from the NCX table of contents when the book has one, otherwise
// from the headings inside each item.
func (f *EPUBFormat) Extract(filename string) (Document, error) {
	rc, err := epub.OpenReader(filename)
	if err != nil {
		return Document{}, fmt.Errorf("failed to open epub: %w", err)
	}
	defer rc.Close()

	if len(rc.Rootfiles) == 0 {
		return Document{}, errors.New("no rootfiles found in epub")
	}
	book := rc.Rootfiles[0]
	toc := buildTOCHrefMap(filename, book)

	var b textBuffer
	for _, ref := range book.Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		data, err := readItem(ref.Item)
		if err != nil {
			continue
		}
		item, err := extractHTML(bytes.NewReader(data))
		if err != nil || item.Text == "" {
			continue
		}

		start := b.mark()
		b.writeRaw(item.Text)
		if entry, ok := lookupTOC(toc, ref.Item.HREF); ok {
			b.sections = append(b.sections, Section{Title: entry.title, Level: entry.level, Offset: start})
			continue
		}
		for _, s := range item.Sections {
			s.Offset += start
			b.sections = append(b.sections, s)
		}
	}
	return b.document(), nil
}

func readItem(item *epub.Item) ([]byte, error) {
	r, err := item.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func lookupTOC(toc map[string]tocEntry, href string) (tocEntry, bool) {
	if href == "" {
		return tocEntry{}, false
	}
	if e, ok := toc[href]; ok {
		return e, true
	}
	e, ok := toc[path.Base(href)]
	return e, ok
}
