package segment

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// WhitespaceName is the registry name of the whitespace segmenter.
const WhitespaceName = "whitespace"

// runs of ASCII or ideographic space, or runs of anything else
var whitespaceRegex = regexp.MustCompile(`[\p{Z}\s]+|[^\p{Z}\s]+`)

// Whitespace splits text at runs of whitespace, including the ideographic
// space. It never fails on valid UTF-8 and is the fallback used when a
// richer provider is unavailable.
type Whitespace struct{}

func init() {
	Register(WhitespaceName, func() (Segmenter, error) { return Whitespace{}, nil })
}

func (Whitespace) Name() string { return WhitespaceName }

func (Whitespace) Segment(text string) ([]Token, error) {
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("%w: invalid UTF-8", ErrUnavailable)
	}
	return fromBounds(text, whitespaceRegex.FindAllStringIndex(text, -1), nil), nil
}
