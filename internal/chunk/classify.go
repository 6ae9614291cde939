package chunk

import (
	"strings"
	"unicode/utf8"

	"github.com/metcalfc/jrr/internal/segment"
)

// Opening brackets always begin a chunk.
var openingBrackets = runeSet("「『（(【［[｛{〈《〔<＜")

// Closing brackets attach to the chunk before them.
var closingBrackets = runeSet("」』）)】］]｝}〉》〕>＞")

// Sentence and clause marks attach to the chunk before them.
var closingMarks = runeSet("、。，．,.！？!?…‥・：:；;")

// Particles, auxiliaries and suffixes that never start a chunk when the
// segmenter gives no part-of-speech hint.
var dependentWords = map[string]bool{
	// particles
	"は": true, "が": true, "を": true, "に": true, "へ": true, "と": true,
	"で": true, "から": true, "より": true, "まで": true, "や": true,
	"の": true, "も": true, "ね": true, "よ": true, "か": true, "な": true,
	"ば": true, "て": true, "ても": true, "けど": true, "けれど": true,
	"ので": true, "のに": true, "には": true, "では": true, "とは": true,
	"など": true, "だけ": true, "しか": true, "ほど": true, "さえ": true,
	// auxiliaries
	"た": true, "だ": true, "です": true, "ます": true, "ない": true,
	"ぬ": true, "れる": true, "られる": true, "せる": true, "させる": true,
	"たい": true, "ました": true, "でした": true, "だった": true,
	// suffixes
	"さん": true, "ちゃん": true, "くん": true, "様": true, "たち": true,
	"達": true, "等": true, "的": true,
}

func runeSet(s string) map[rune]bool {
	m := make(map[rune]bool, utf8.RuneCountInString(s))
	for _, r := range s {
		m[r] = true
	}
	return m
}

func isClosingRune(r rune) bool { return closingBrackets[r] || closingMarks[r] }

// IsOpening reports whether r is an opening bracket.
func IsOpening(r rune) bool { return openingBrackets[r] }

// IsClosing reports whether r is a closing bracket or a sentence or clause
// mark.
func IsClosing(r rune) bool { return isClosingRune(r) }

// IsClosingBracket reports whether r is a closing bracket.
func IsClosingBracket(r rune) bool { return closingBrackets[r] }

func isPunctRune(r rune) bool { return openingBrackets[r] || isClosingRune(r) }

// allRunes reports whether s is non-empty and every rune satisfies f.
func allRunes(s string, f func(rune) bool) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !f(r) {
			return false
		}
	}
	return true
}

// isOpening reports whether s consists solely of opening brackets.
func isOpening(s string) bool {
	return allRunes(s, func(r rune) bool { return openingBrackets[r] })
}

// isClosing reports whether s consists solely of closing punctuation.
func isClosing(s string) bool { return allRunes(s, isClosingRune) }

// isDependent reports whether t must attach to the preceding chunk.
func isDependent(t segment.Token, s string) bool {
	switch t.Class {
	case segment.ClassDependent:
		return true
	case segment.ClassContent:
		return false
	}
	return dependentWords[s]
}

// Length returns the number of runes in s.
func Length(s string) int { return utf8.RuneCountInString(s) }

// openingSplit returns the byte index of the first opening bracket in s
// that is preceded by something other than opening brackets, or -1.
func openingSplit(s string) int {
	for i, r := range s {
		if i > 0 && openingBrackets[r] && !isOpening(s[:i]) {
			return i
		}
	}
	return -1
}

// closingSplit returns the byte index just past the first closing bracket
// in s that is followed by something other than closing punctuation, or -1.
func closingSplit(s string) int {
	for i, r := range s {
		if !closingBrackets[r] {
			continue
		}
		end := i + utf8.RuneLen(r)
		if end < len(s) && !isClosing(s[end:]) {
			return end
		}
	}
	return -1
}

// isBlank reports whether s trims to nothing.
func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
