// Package source loads raw text for the reader from files on disk. Each
// supported format yields a Document: the text to be chunked and the
// sections (chapters, headings) found in it.
package source

import (
	"os"
	"path/filepath"
	"strings"
)

// Section is a titled position in a Document.
type Section struct {
	Title string `json:"title"`
	// Level is the nesting depth, 0 for top-level sections.
	Level int `json:"level"`
	// Offset is the byte offset of the section start in Document.Text.
	Offset int `json:"offset"`
}

// Document is extracted text with its table of contents.
type Document struct {
	Text     string
	Sections []Section
}

// Format defines a file format reader for extracting text.
type Format interface {
	Name() string
	Extensions() []string
	Extract(filename string) (Document, error)
}

var registry []Format

// Register adds a format reader to the registry.
func Register(f Format) {
	registry = append(registry, f)
}

// Lookup returns the format registered for filename's extension.
func Lookup(filename string) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, f := range registry {
		for _, e := range f.Extensions() {
			if ext == e {
				return f, true
			}
		}
	}
	return nil, false
}

// Extract reads a file, using a registered format or plain text fallback.
func Extract(filename string) (Document, error) {
	if f, ok := Lookup(filename); ok {
		return f.Extract(filename)
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return Document{}, err
	}
	return Document{Text: string(data)}, nil
}

// SupportedFormats returns registered format names with their extensions.
func SupportedFormats() []string {
	var out []string
	for _, f := range registry {
		out = append(out, f.Name()+" ("+strings.Join(f.Extensions(), ", ")+")")
	}
	return out
}
