// Package chunk converts segmented text into display-sized chunks for rapid
// serial visual presentation.
//
// Compose groups atomic tokens into chunks according to Japanese grouping
// rules and a character budget, and Protect then merges chunks so that
// configured vocabulary is never split across a boundary. Both are pure
// functions and safe for concurrent use.
package chunk

import (
	"strings"
)

// Chunk is one display unit. Start and End are byte offsets of the first
// and last characters it was built from in the source text; whitespace that
// was filtered out between its tokens is not part of Surface.
type Chunk struct {
	Surface string `json:"surface"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

// Len returns the number of runes in the chunk.
func (c Chunk) Len() int { return Length(c.Surface) }

// join appends next to c.
func (c Chunk) join(next Chunk) Chunk {
	if c.Surface == "" {
		return next
	}
	return Chunk{Surface: c.Surface + next.Surface, Start: c.Start, End: max(c.End, next.End)}
}

// Surfaces returns the surface strings of chunks.
func Surfaces(chunks []Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Surface
	}
	return out
}

// Join concatenates the surfaces of chunks.
func Join(chunks []Chunk) string {
	var sb strings.Builder
	for _, c := range chunks {
		sb.WriteString(c.Surface)
	}
	return sb.String()
}

// piece is a trimmed token: its text and the byte offset of that text.
type piece struct {
	text  string
	start int
}

func (p piece) end() int { return p.start + len(p.text) }

// run is the chunk being accumulated.
type run []piece

func (r run) empty() bool { return len(r) == 0 }

func (r run) surface() string {
	if len(r) == 1 {
		return r[0].text
	}
	var sb strings.Builder
	for _, p := range r {
		sb.WriteString(p.text)
	}
	return sb.String()
}

func (r run) chunk() Chunk {
	return Chunk{Surface: r.surface(), Start: r[0].start, End: r[len(r)-1].end()}
}

// split cuts the run at byte offset at of its surface.
func (r run) split(at int) (head, tail run) {
	off := 0
	for i, p := range r {
		if at >= off+len(p.text) {
			off += len(p.text)
			continue
		}
		cut := at - off
		head = append(head, r[:i]...)
		if cut > 0 {
			head = append(head, piece{text: p.text[:cut], start: p.start})
		}
		tail = append(tail, piece{text: p.text[cut:], start: p.start + cut})
		tail = append(tail, r[i+1:]...)
		return head, tail
	}
	return append(head, r...), nil
}
