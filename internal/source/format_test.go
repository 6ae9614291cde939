package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExtract(t *testing.T) {
	t.Run("plain text", func(t *testing.T) {
		content := "「こんにちは」と母は言った。\n"
		got, err := Extract(writeFile(t, "test.txt", content))
		require.NoError(t, err)
		assert.Equal(t, content, got.Text)
		assert.Empty(t, got.Sections)
	})

	t.Run("unknown extension", func(t *testing.T) {
		content := "**not parsed**"
		got, err := Extract(writeFile(t, "test.rst", content))
		require.NoError(t, err)
		assert.Equal(t, content, got.Text)
	})

	t.Run("markdown by extension", func(t *testing.T) {
		got, err := Extract(writeFile(t, "test.MD", "# 題\n\n本文"))
		require.NoError(t, err)
		assert.Equal(t, "題\n本文", got.Text)
	})

	t.Run("nonexistent file", func(t *testing.T) {
		_, err := Extract(filepath.Join(t.TempDir(), "nonexistent.txt"))
		assert.Error(t, err)
	})
}

func TestLookup(t *testing.T) {
	f, ok := Lookup("book.epub")
	require.True(t, ok)
	assert.Equal(t, "EPUB", f.Name())

	f, ok = Lookup("page.XHTML")
	require.True(t, ok)
	assert.Equal(t, "HTML", f.Name())

	_, ok = Lookup("notes.txt")
	assert.False(t, ok)
}

func TestSupportedFormats(t *testing.T) {
	formats := SupportedFormats()
	assert.Contains(t, formats, "EPUB (.epub)")
	assert.Contains(t, formats, "Markdown (.md, .markdown)")
	assert.Contains(t, formats, "HTML (.html, .htm, .xhtml)")
}

func TestTextBuffer(t *testing.T) {
	var b textBuffer
	b.write("  leading")
	b.write("\n\t spaced   out ")
	b.write("   ")
	b.newline()
	start := b.mark()
	b.write("見出し ")
	b.section(start, 2)
	b.newline()
	b.write("　")
	b.write("本文")

	assert.Equal(t, "leading spaced out\n見出し\n本文", b.String())
	assert.Equal(t, []Section{{Title: "見出し", Level: 2, Offset: len("leading spaced out\n")}}, b.sections)
}
