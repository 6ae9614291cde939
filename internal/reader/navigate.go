package reader

import (
	"strings"

	"github.com/metcalfc/jrr/internal/chunk"
)

// sentenceEnds terminate a sentence when they end a chunk, ignoring any
// closing brackets after them.
const sentenceEnds = "。！？!?."

// findSentenceStarts returns indices of chunks that start sentences.
func findSentenceStarts(chunks []chunk.Chunk) []int {
	if len(chunks) == 0 {
		return nil
	}
	starts := []int{0}
	for i, c := range chunks {
		if endsSentence(c.Surface) && i+1 < len(chunks) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func endsSentence(s string) bool {
	s = strings.TrimRightFunc(s, chunk.IsClosingBracket)
	return s != "" && strings.ContainsRune(sentenceEnds, lastRune(s))
}

func lastRune(s string) rune {
	var last rune
	for _, r := range s {
		last = r
	}
	return last
}

// JumpToPrevSentence moves to the start of the previous sentence.
// Like Seek, it stops playback.
func (r *Reader) JumpToPrevSentence() {
	cur := r.CurrentIndex()
	for i := len(r.sentenceStarts) - 1; i >= 0; i-- {
		if r.sentenceStarts[i] < cur {
			r.Seek(r.sentenceStarts[i])
			return
		}
	}
	r.Seek(0)
}

// JumpToNextSentence moves to the start of the next sentence, or to the
// last chunk when there is none. Like Seek, it stops playback.
func (r *Reader) JumpToNextSentence() {
	cur := r.CurrentIndex()
	for _, start := range r.sentenceStarts {
		if start > cur {
			r.Seek(start)
			return
		}
	}
	r.Seek(len(r.Chunks()) - 1)
}

// SentenceStarts returns indices of chunks that start sentences.
func (r *Reader) SentenceStarts() []int {
	return append([]int(nil), r.sentenceStarts...)
}
