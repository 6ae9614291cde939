package chunk

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// span is a half-open byte range in the source text.
type span struct {
	start, end int
}

// Protect merges chunks so that no occurrence of a protected term in text
// straddles a chunk boundary. Terms match literally (no case or width
// folding). Occurrences of one term never overlap each other; occurrences
// of different terms that overlap are treated as one protected range
// running from the leftmost start to the rightmost end.
//
// Chunks must carry offsets into text, as Compose produces.
func Protect(chunks []Chunk, terms []string, text string) []Chunk {
	spans := termSpans(terms, text)
	if len(spans) == 0 || len(chunks) == 0 {
		return chunks
	}

	out := make([]Chunk, 0, len(chunks))
	for i := 0; i < len(chunks); {
		c := chunks[i]
		end, ok := reach(spans, c)
		i++
		if !ok {
			out = append(out, c)
			continue
		}
		for i < len(chunks) && chunks[i].Start < end {
			c = c.join(chunks[i])
			i++
			if e, ok := reach(spans, c); ok && e > end {
				end = e
			}
		}
		out = append(out, c)
	}
	return out
}

// termSpans finds every accepted occurrence of every term, sorted and with
// overlapping ranges coalesced.
func termSpans(terms []string, text string) []span {
	var spans []span
	seen := make(map[string]bool, len(terms))
	for _, term := range terms {
		if term == "" || seen[term] {
			continue
		}
		seen[term] = true
		accepted := 0
		for from := 0; from < len(text); {
			i := strings.Index(text[from:], term)
			if i < 0 {
				break
			}
			start := from + i
			if start >= accepted {
				spans = append(spans, span{start, start + len(term)})
				accepted = start + len(term)
			}
			_, size := utf8.DecodeRuneInString(text[start:])
			from = start + size
		}
	}
	if len(spans) == 0 {
		return nil
	}

	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end > spans[j].end
	})
	merged := spans[:1]
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.start < last.end {
			last.end = max(last.end, s.end)
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// reach returns the end of the furthest protected span overlapping c.
func reach(spans []span, c Chunk) (int, bool) {
	i := sort.Search(len(spans), func(i int) bool { return spans[i].end > c.Start })
	end, ok := 0, false
	for ; i < len(spans) && spans[i].start < c.End; i++ {
		end, ok = max(end, spans[i].end), true
	}
	return end, ok
}
