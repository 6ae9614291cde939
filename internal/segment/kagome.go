package segment

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// KagomeName is the registry name of the dictionary segmenter.
const KagomeName = "kagome"

var (
	kagomeOnce sync.Once
	kagomeTok  *tokenizer.Tokenizer
	kagomeErr  error
)

// sharedTokenizer loads the IPA dictionary once per process.
func sharedTokenizer() (*tokenizer.Tokenizer, error) {
	kagomeOnce.Do(func() {
		kagomeTok, kagomeErr = tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	})
	return kagomeTok, kagomeErr
}

// Kagome segments Japanese text with the kagome morphological analyzer and
// the IPA dictionary. Part-of-speech tags are mapped onto token classes so
// the composer can attach particles and auxiliaries to the word before them.
type Kagome struct {
	t *tokenizer.Tokenizer
}

func init() {
	Register(KagomeName, func() (Segmenter, error) { return NewKagome() })
}

// NewKagome returns a Kagome segmenter sharing the process-wide dictionary.
func NewKagome() (*Kagome, error) {
	t, err := sharedTokenizer()
	if err != nil {
		return nil, fmt.Errorf("%w: load ipa dictionary: %v", ErrUnavailable, err)
	}
	return &Kagome{t: t}, nil
}

func (k *Kagome) Name() string { return KagomeName }

func (k *Kagome) Segment(text string) ([]Token, error) {
	if k == nil || k.t == nil {
		return nil, fmt.Errorf("%w: tokenizer not initialized", ErrUnavailable)
	}
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("%w: invalid UTF-8", ErrUnavailable)
	}

	morphs := k.t.Tokenize(text)
	bounds := make([][]int, 0, len(morphs))
	classes := make(map[int]Class, len(morphs))
	pos := 0
	for _, m := range morphs {
		if m.Surface == "" {
			continue
		}
		i := strings.Index(text[pos:], m.Surface)
		if i < 0 {
			return nil, fmt.Errorf("%w: morpheme %q not found after byte %d", ErrUnavailable, m.Surface, pos)
		}
		start := pos + i
		bounds = append(bounds, []int{start, start + len(m.Surface)})
		classes[start] = classifyPOS(m.POS())
		pos = start + len(m.Surface)
	}

	tokens := fromBounds(text, bounds, nil)
	for i := range tokens {
		tokens[i].Class = classes[tokens[i].Start]
	}
	return tokens, nil
}

// classifyPOS maps IPA part-of-speech features to a token class.
func classifyPOS(pos []string) Class {
	if len(pos) == 0 {
		return ClassUnknown
	}
	sub := ""
	if len(pos) > 1 {
		sub = pos[1]
	}
	switch pos[0] {
	case "助詞", "助動詞":
		return ClassDependent
	case "名詞":
		if sub == "接尾" {
			return ClassDependent
		}
	case "動詞", "形容詞":
		if sub == "非自立" || sub == "接尾" {
			return ClassDependent
		}
	case "記号":
		return ClassUnknown
	}
	return ClassContent
}
