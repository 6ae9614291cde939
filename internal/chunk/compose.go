package chunk

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/metcalfc/jrr/internal/segment"
)

// Compose builds the chunk sequence for tokens. It never fails: tokens
// that do not line up with any rule simply become chunks of their own.
//
// In atomic mode every non-blank token is a chunk. In grouped mode tokens
// are merged as follows, earlier rules winning over later ones:
//
//   - blank tokens are dropped;
//   - particles, auxiliaries and suffixes attach to the chunk before them;
//   - closing brackets and sentence marks attach to the chunk before them,
//     which then accepts nothing but further closing punctuation;
//   - opening brackets start a new chunk, and a chunk holding only opening
//     brackets absorbs whatever comes next;
//   - otherwise a token joins the current chunk only while the combined
//     length, brackets and marks included, stays within MaxChunkLength. A single token longer than the
//     budget is never cut;
//   - an opening bracket inside a chunk, or text following a closing
//     bracket inside a chunk, starts a new chunk;
//   - a chunk ending in a small tsu takes the first character of the next.
func Compose(tokens []segment.Token, cfg GroupingConfig) []Chunk {
	cfg = cfg.Normalize()
	pieces := trimTokens(tokens)

	if cfg.Mode == ModeAtomic {
		out := make([]Chunk, 0, len(pieces))
		for _, p := range pieces {
			out = append(out, run{p.piece}.chunk())
		}
		return out
	}

	c := composer{max: cfg.MaxChunkLength}
	for _, p := range pieces {
		c.push(p)
	}
	c.flush()
	return carrySmallTsu(c.out)
}

type classified struct {
	piece
	dependent bool
}

// trimTokens drops blank tokens and trims surrounding space from the rest.
func trimTokens(tokens []segment.Token) []classified {
	out := make([]classified, 0, len(tokens))
	for _, t := range tokens {
		if isBlank(t.Surface) {
			continue
		}
		lead := len(t.Surface) - len(strings.TrimLeftFunc(t.Surface, unicode.IsSpace))
		text := strings.TrimSpace(t.Surface)
		p := piece{text: text, start: t.Start + lead}
		out = append(out, classified{piece: p, dependent: isDependent(t, text)})
	}
	return out
}

type composer struct {
	max    int
	acc    run
	closed bool
	out    []run
}

func (c *composer) push(t classified) {
	s := t.text
	switch {
	case c.acc.empty():
	case isClosing(s):
		// absorbed regardless of budget
	case isOpening(c.acc.surface()):
		// a bare bracket waits for its content
	case isOpening(s), c.closed:
		c.flush()
	case t.dependent:
		// absorbed regardless of budget
	case Length(c.acc.surface())+Length(s) > c.max:
		c.flush()
	}
	c.acc = append(c.acc, t.piece)
	if isClosing(s) {
		c.closed = true
	}
	c.resplit()
}

// resplit cuts the accumulator at interior brackets.
func (c *composer) resplit() {
	for {
		s := c.acc.surface()
		at := openingSplit(s)
		if at < 0 {
			at = closingSplit(s)
		}
		if at < 0 {
			return
		}
		head, tail := c.acc.split(at)
		c.out = append(c.out, head)
		c.acc = tail
		c.closed = isClosing(lastRune(tail.surface()))
	}
}

func (c *composer) flush() {
	if !c.acc.empty() {
		c.out = append(c.out, c.acc)
	}
	c.acc = nil
	c.closed = false
}

// carrySmallTsu moves the first character of a run onto the end of a
// preceding run that ends in a small tsu, so the geminate is not shown
// apart from the sound it doubles.
//
// Unlike a literal one-character move, a leading punctuation character is
// left where it is: あっ followed by 「え」 stays as is rather than becoming
// あっ「 and え」, which would strand the bracket from its content.
func carrySmallTsu(runs []run) []Chunk {
	out := make([]Chunk, 0, len(runs))
	for i := 0; i < len(runs); i++ {
		if runs[i].empty() {
			continue
		}
		cur := runs[i].chunk()
		if i+1 < len(runs) && !runs[i+1].empty() && endsWithSmallTsu(cur.Surface) {
			head := &runs[i+1][0]
			first, rest, _, _ := uniseg.FirstGraphemeClusterInString(head.text, -1)
			if first != "" && !allRunes(first, isPunctRune) {
				cur.Surface += first
				cur.End = head.start + len(first)
				head.text, head.start = rest, head.start+len(first)
				if rest == "" {
					runs[i+1] = runs[i+1][1:]
				}
			}
		}
		out = append(out, cur)
	}
	return out
}

func endsWithSmallTsu(s string) bool {
	return strings.HasSuffix(s, "っ") || strings.HasSuffix(s, "ッ")
}

func lastRune(s string) string {
	_, size := utf8.DecodeLastRuneInString(s)
	return s[len(s)-size:]
}
