package segment

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// ScriptName is the registry name of the script-run segmenter.
const ScriptName = "script"

// A kanji run keeps the hiragana that follows it (okurigana and particles);
// otherwise hiragana, katakana (with the prolonged sound mark), Latin words
// and numbers each form runs, whitespace runs are kept whole and every
// other character stands alone.
var scriptRegex = regexp.MustCompile(`[\p{Han}々〆]+\p{Hiragana}*|\p{Hiragana}+|[\p{Katakana}ー]+|[\p{Latin}\p{N}]+|[\p{Z}\s]+|.`)

// Script is a dictionary-free segmenter that breaks text wherever the
// writing system changes. It needs no resources and is deterministic, but
// it cannot tell particles apart from the hiragana around them, so a kanji
// word and whatever kana follows it come out as one token.
type Script struct{}

func init() {
	Register(ScriptName, func() (Segmenter, error) { return Script{}, nil })
}

func (Script) Name() string { return ScriptName }

func (Script) Segment(text string) ([]Token, error) {
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("%w: invalid UTF-8", ErrUnavailable)
	}
	return fromBounds(text, scriptRegex.FindAllStringIndex(text, -1), nil), nil
}
