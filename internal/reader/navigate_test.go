package reader

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/metcalfc/jrr/internal/chunk"
	"github.com/metcalfc/jrr/internal/segment"
)

func newAtomicReader(text string) *Reader {
	return New(text, WithSegmenter(segment.Whitespace{}),
		WithGrouping(chunk.NewGroupingConfig(chunk.ModeAtomic, 1)))
}

func TestFindSentenceStarts(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []int
	}{
		{"empty", "", nil},
		{"single sentence", "一 二 三。", []int{0}},
		{"japanese marks", "一。 二 三！ 四？ 五", []int{0, 1, 3, 4}},
		{"ascii marks", "One. Two! Three? four", []int{0, 1, 2, 3}},
		{"closing bracket after mark", "「一。」 二 『三？』 四", []int{0, 1, 3}},
		{"comma is not an end", "一、 二", []int{0}},
		{"bare bracket", "」 二", []int{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newAtomicReader(tt.text)
			assert.Equal(t, tt.want, r.SentenceStarts())
		})
	}
}

func TestJumpToSentence(t *testing.T) {
	r := newAtomicReader("一。 二 三。 四")
	assert.Equal(t, []int{0, 1, 3}, r.SentenceStarts())

	r.JumpToNextSentence()
	assert.Equal(t, 1, r.CurrentIndex())
	r.JumpToNextSentence()
	assert.Equal(t, 3, r.CurrentIndex())
	r.JumpToNextSentence()
	assert.Equal(t, 3, r.CurrentIndex(), "stays on the last chunk")

	r.JumpToPrevSentence()
	assert.Equal(t, 1, r.CurrentIndex())
	r.Seek(2)
	r.JumpToPrevSentence()
	assert.Equal(t, 1, r.CurrentIndex(), "mid-sentence goes to its start")
	r.JumpToPrevSentence()
	assert.Equal(t, 0, r.CurrentIndex())
	r.JumpToPrevSentence()
	assert.Equal(t, 0, r.CurrentIndex())
}

func TestJumpStopsPlayback(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	r := New("一。 二。 三。", WithClock(clk), WithSegmenter(segment.Whitespace{}),
		WithGrouping(chunk.NewGroupingConfig(chunk.ModeAtomic, 1)))
	assert.True(t, r.Start())
	clk.Advance(50 * time.Millisecond)
	r.Step()

	r.JumpToNextSentence()
	assert.False(t, r.IsPlaying())
	assert.Equal(t, 1, r.CurrentIndex())
	assert.Zero(t, r.Elapsed())
}

func TestJumpOnEmptyReader(t *testing.T) {
	r := New("")
	r.JumpToNextSentence()
	r.JumpToPrevSentence()
	assert.Equal(t, 0, r.CurrentIndex())
}
