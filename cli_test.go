package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/metcalfc/jrr/internal/chunk"
	"github.com/metcalfc/jrr/internal/reader"
	"github.com/metcalfc/jrr/internal/segment"
	"github.com/metcalfc/jrr/internal/source"
)

// isolate points config and state lookups at an empty directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	for _, e := range os.Environ() {
		if name, _, _ := strings.Cut(e, "="); strings.HasPrefix(name, "JRR_") {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestReadInput(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "night.txt")
	require.NoError(t, os.WriteFile(file, []byte("銀河鉄道の夜"), 0o644))
	blank := filepath.Join(dir, "blank.txt")
	require.NoError(t, os.WriteFile(blank, []byte(" \n　"), 0o644))

	tests := []struct {
		name    string
		args    []string
		stdin   string
		piped   bool
		want    string
		wantErr error
	}{
		{name: "file", args: []string{file}, want: "銀河鉄道の夜"},
		{name: "stdin", stdin: "こんにちは", piped: true, want: "こんにちは"},
		{name: "file wins over stdin", args: []string{file}, stdin: "ignored", piped: true, want: "銀河鉄道の夜"},
		{name: "terminal stdin", wantErr: errNoInput},
		{name: "blank file", args: []string{blank}, wantErr: errNoText},
		{name: "blank stdin", stdin: "\n\n", piped: true, wantErr: errNoText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := readInput(tt.args, strings.NewReader(tt.stdin), tt.piped)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.Text)
		})
	}
}

func TestReadInputMissingFile(t *testing.T) {
	_, err := readInput([]string{filepath.Join(t.TempDir(), "absent.txt")}, nil, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, err.Error(), "absent.txt")
}

func TestReadInputMarkdownSections(t *testing.T) {
	file := filepath.Join(t.TempDir(), "book.md")
	require.NoError(t, os.WriteFile(file, []byte("# 一\n\n本文。\n"), 0o644))

	doc, err := readInput([]string{file}, nil, false)
	require.NoError(t, err)
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, "一", doc.Sections[0].Title)
}

func TestWriteChunks(t *testing.T) {
	chunks := []chunk.Chunk{
		{Surface: "一。", Start: 0, End: 6},
		{Surface: "二。", Start: 6, End: 12},
	}

	var plain bytes.Buffer
	require.NoError(t, writeChunks(&plain, chunks, false))
	assert.Equal(t, "一。\n二。\n", plain.String())

	var buf bytes.Buffer
	require.NoError(t, writeChunks(&buf, chunks, true))
	var got []struct {
		Index   int    `json:"index"`
		Surface string `json:"surface"`
		Start   int    `json:"start"`
		End     int    `json:"end"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[1].Index)
	assert.Equal(t, "二。", got[1].Surface)
	assert.Equal(t, 6, got[1].Start)
	assert.Equal(t, 12, got[1].End)
}

func TestNewSegmenterFallback(t *testing.T) {
	seg := newSegmenter("mecab", zap.NewNop())
	assert.Equal(t, segment.ScriptName, seg.Name())

	seg = newSegmenter(segment.WhitespaceName, zap.NewNop())
	assert.Equal(t, segment.WhitespaceName, seg.Name())
}

func TestChunksCommand(t *testing.T) {
	dir := isolate(t)
	file := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(file, []byte("一。二。三。"), 0o644))

	out, err := execute(t, "chunks", file, "--segmenter", "script", "--json=false")
	require.NoError(t, err)
	assert.Equal(t, "一。\n二。\n三。\n", out)

	out, err = execute(t, "chunks", file, "--segmenter", "script", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"surface": "三。"`)
	assert.Contains(t, out, `"start": 12`)
}

func TestConfigInitCommand(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "jrr.yaml")

	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "max_chunk_length: 4")

	_, err = execute(t, "config", "init", path)
	assert.ErrorIs(t, err, os.ErrExist)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "jrr dev (commit: none, built: unknown)\n", out)
}

func TestStepRate(t *testing.T) {
	tests := []struct {
		rate, delta, want float64
	}{
		{300, 50, 350},
		{300, -50, 250},
		{1500, 50, 1500},
		{100, -50, 100},
		{120, -50, 100},
		{2000, -50, 1500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stepRate(tt.rate, tt.delta), "stepRate(%v, %v)", tt.rate, tt.delta)
	}
}

func TestGroupingControls(t *testing.T) {
	g := chunk.DefaultGroupingConfig()

	assert.Equal(t, chunk.ModeAtomic, toggleMode(g).Mode)
	assert.Equal(t, chunk.ModeGrouped, toggleMode(toggleMode(g)).Mode)

	assert.Equal(t, 5, stepMaxLength(g, 1).MaxChunkLength)
	assert.Equal(t, 1, stepMaxLength(chunk.NewGroupingConfig(chunk.ModeGrouped, 1), -1).MaxChunkLength)
	assert.Equal(t, maxChunkKeys, stepMaxLength(chunk.NewGroupingConfig(chunk.ModeGrouped, maxChunkKeys), 1).MaxChunkLength)
}

func TestRegroupKeepsPosition(t *testing.T) {
	r := reader.New("一。二。三。", reader.WithSegmenter(segment.Script{}))
	require.Len(t, r.Chunks(), 3)
	r.Seek(2)

	assert.True(t, regroup(r, toggleMode(r.Grouping())))
	assert.Len(t, r.Chunks(), 6)
	assert.Equal(t, "三", r.CurrentChunk().Surface)

	assert.False(t, regroup(r, r.Grouping()))
}

func TestSectionAt(t *testing.T) {
	sections := []source.Section{
		{Title: "一", Offset: 0},
		{Title: "二", Offset: 30},
	}

	_, ok := sectionAt(nil, 10)
	assert.False(t, ok)

	s, ok := sectionAt(sections, 29)
	require.True(t, ok)
	assert.Equal(t, "一", s.Title)

	s, ok = sectionAt(sections, 30)
	require.True(t, ok)
	assert.Equal(t, "二", s.Title)

	_, ok = sectionAt([]source.Section{{Title: "late", Offset: 5}}, 0)
	assert.False(t, ok)
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "00:00", formatElapsed(0))
	assert.Equal(t, "01:05", formatElapsed(65*time.Second+400*time.Millisecond))
	assert.Equal(t, "61:00", formatElapsed(61*time.Minute))
}
