// Package segment defines the contract between the chunking engine and the
// text segmentation strategies that feed it.
//
// A Segmenter turns raw text into an ordered sequence of atomic tokens that
// cover the text exactly: no gaps, no overlaps, and concatenating every
// token's Surface reconstructs the input.
package segment

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable reports that a provider could not process the input,
	// e.g. its dictionary failed to load or the input is not valid UTF-8.
	ErrUnavailable = errors.New("segmentation unavailable")

	// ErrCoverage reports tokens that do not span the source text exactly.
	ErrCoverage = errors.New("tokens do not cover text")

	// ErrUnknownProvider is returned by New for unregistered names.
	ErrUnknownProvider = errors.New("unknown segmenter")
)

// Class is a provider's hint about the grammatical role of a token.
type Class int

const (
	// ClassUnknown leaves classification to the chunk composer.
	ClassUnknown Class = iota
	// ClassContent marks an independent word.
	ClassContent
	// ClassDependent marks a particle, auxiliary or suffix that cannot
	// stand alone as a display chunk.
	ClassDependent
)

func (c Class) String() string {
	switch c {
	case ClassContent:
		return "content"
	case ClassDependent:
		return "dependent"
	default:
		return "unknown"
	}
}

// Token is an atomic span of the source text. Start and End are byte
// offsets, so text[t.Start:t.End] == t.Surface.
type Token struct {
	Surface string `json:"surface"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Class   Class  `json:"class,omitempty"`
}

// Segmenter splits text into tokens that tile it: in order, without gaps
// or overlaps, from the first byte to the last.
type Segmenter interface {
	Name() string
	Segment(text string) ([]Token, error)
}

// Validate reports ErrCoverage unless tokens tile text exactly.
func Validate(text string, tokens []Token) error {
	if len(tokens) == 0 {
		if text == "" {
			return nil
		}
		return fmt.Errorf("%w: no tokens for %d bytes", ErrCoverage, len(text))
	}
	pos := 0
	for i, t := range tokens {
		if t.Surface == "" {
			return fmt.Errorf("%w: token %d is empty", ErrCoverage, i)
		}
		if t.Start != pos || t.End != t.Start+len(t.Surface) || t.End > len(text) {
			return fmt.Errorf("%w: token %d spans [%d:%d], want start %d", ErrCoverage, i, t.Start, t.End, pos)
		}
		if text[t.Start:t.End] != t.Surface {
			return fmt.Errorf("%w: token %d surface %q does not match text", ErrCoverage, i, t.Surface)
		}
		pos = t.End
	}
	if pos != len(text) {
		return fmt.Errorf("%w: tokens end at %d, text has %d bytes", ErrCoverage, pos, len(text))
	}
	return nil
}

// fromBounds builds tokens from consecutive [start, end) byte ranges,
// filling any gap between ranges with a token of its own.
func fromBounds(text string, bounds [][]int, class func(string) Class) []Token {
	tokens := make([]Token, 0, len(bounds))
	pos := 0
	add := func(start, end int) {
		if start >= end {
			return
		}
		s := text[start:end]
		c := ClassUnknown
		if class != nil {
			c = class(s)
		}
		tokens = append(tokens, Token{Surface: s, Start: start, End: end, Class: c})
	}
	for _, b := range bounds {
		if b[0] < pos {
			continue
		}
		add(pos, b[0])
		add(b[0], b[1])
		pos = b[1]
	}
	add(pos, len(text))
	return tokens
}
