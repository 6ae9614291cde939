package source

import (
	"strings"
	"unicode"
)

// textBuffer accumulates extracted text. Runs of whitespace collapse to a
// single space and lines carry no leading or trailing spaces, so offsets
// taken with mark stay valid in the final text.
type textBuffer struct {
	buf      []byte
	sections []Section
}

func (b *textBuffer) write(s string) {
	if s == "" {
		return
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		b.space()
		return
	}
	if startsWithSpace(s) {
		b.space()
	}
	b.buf = append(b.buf, strings.Join(fields, " ")...)
	if endsWithSpace(s) {
		b.space()
	}
}

// writeRaw appends s verbatim, for preformatted text.
func (b *textBuffer) writeRaw(s string) {
	b.buf = append(b.buf, s...)
}

func (b *textBuffer) space() {
	if n := len(b.buf); n > 0 && b.buf[n-1] != ' ' && b.buf[n-1] != '\n' {
		b.buf = append(b.buf, ' ')
	}
}

func (b *textBuffer) newline() {
	b.trimSpace()
	if n := len(b.buf); n > 0 && b.buf[n-1] != '\n' {
		b.buf = append(b.buf, '\n')
	}
}

func (b *textBuffer) trimSpace() {
	for n := len(b.buf); n > 0 && b.buf[n-1] == ' '; n-- {
		b.buf = b.buf[:n-1]
	}
}

// mark starts a block and returns its offset.
func (b *textBuffer) mark() int {
	b.newline()
	return len(b.buf)
}

// section records a heading that began at start, titled with the text
// written since.
func (b *textBuffer) section(start, level int) {
	title := strings.TrimSpace(string(b.buf[start:]))
	if title == "" {
		return
	}
	b.sections = append(b.sections, Section{Title: title, Level: level, Offset: start})
}

func (b *textBuffer) String() string {
	return strings.TrimRight(string(b.buf), " \n")
}

func (b *textBuffer) document() Document {
	return Document{Text: b.String(), Sections: b.sections}
}

func startsWithSpace(s string) bool {
	return strings.TrimLeftFunc(s, unicode.IsSpace) != s
}

func endsWithSpace(s string) bool {
	return strings.TrimRightFunc(s, unicode.IsSpace) != s
}
