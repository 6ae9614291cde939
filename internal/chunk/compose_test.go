package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metcalfc/jrr/internal/segment"
)

func TestComposeGrouped(t *testing.T) {
	tests := []struct {
		name  string
		max   int
		parts []string
		want  []string
	}{
		{
			name:  "greeting in brackets",
			max:   4,
			parts: []string{"「", "こんにちは", "」", "と", "母", "は", "言っ", "た", "。"},
			want:  []string{"「こんにちは」", "と母は", "言った。"},
		},
		{
			name:  "long token kept whole with its particle",
			max:   2,
			parts: []string{"カムパネルラ", "は", "来た"},
			want:  []string{"カムパネルラは", "来た"},
		},
		{
			name:  "budget flush",
			max:   3,
			parts: []string{"雪", "の", "上", "から", "陽"},
			want:  []string{"雪の上から", "陽"},
		},
		{
			name:  "sentence mark closes chunk",
			max:   10,
			parts: []string{"寒い", "。", "冬"},
			want:  []string{"寒い。", "冬"},
		},
		{
			name:  "closing run stays together",
			max:   10,
			parts: []string{"言った", "。", "」"},
			want:  []string{"言った。」"},
		},
		{
			name:  "opening bracket inside token",
			max:   10,
			parts: []string{"母は", "言った「あ", "」"},
			want:  []string{"母は言った", "「あ」"},
		},
		{
			name:  "text after closing bracket inside token",
			max:   10,
			parts: []string{"「あっ」と", "母"},
			want:  []string{"「あっ」", "と母"},
		},
		{
			name:  "closing bracket before sentence mark",
			max:   10,
			parts: []string{"「こんにちは」。"},
			want:  []string{"「こんにちは」。"},
		},
		{
			name:  "nested brackets",
			max:   4,
			parts: []string{"「", "『", "雪", "』", "」"},
			want:  []string{"「『雪』」"},
		},
		{
			name:  "opening bracket starts a chunk",
			max:   10,
			parts: []string{"雪", "（", "ゆき", "）"},
			want:  []string{"雪", "（ゆき）"},
		},
		{
			name:  "blank tokens dropped",
			max:   4,
			parts: []string{"雪", " ", "\n", "　", "朝"},
			want:  []string{"雪朝"},
		},
		{
			name:  "opening bracket counts toward budget",
			max:   4,
			parts: []string{"「", "あい", "うえ"},
			want:  []string{"「あい", "うえ"},
		},
		{
			name:  "bracketed compound",
			max:   4,
			parts: []string{"「", "銀河", "鉄道", "」"},
			want:  []string{"「銀河", "鉄道」"},
		},
		{
			name:  "bare bracket takes a long token",
			max:   2,
			parts: []string{"「", "白鳥座", "は"},
			want:  []string{"「白鳥座は"},
		},
		{
			name:  "first token dependent",
			max:   4,
			parts: []string{"は", "雪"},
			want:  []string{"は雪"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, toks := tokens(tt.parts...)
			got := Compose(toks, NewGroupingConfig(ModeGrouped, tt.max))
			assert.Equal(t, tt.want, Surfaces(got))
		})
	}
}

func TestComposeEmpty(t *testing.T) {
	assert.Empty(t, Compose(nil, DefaultGroupingConfig()))
	_, toks := tokens(" ", "\n")
	assert.Empty(t, Compose(toks, DefaultGroupingConfig()))
	assert.Empty(t, Compose(toks, NewGroupingConfig(ModeAtomic, 4)))
}

func TestComposeAtomic(t *testing.T) {
	_, toks := tokens("「", "こんにちは", "」", " ", "と", "っ", "た")
	got := Compose(toks, NewGroupingConfig(ModeAtomic, 1))
	assert.Equal(t, []string{"「", "こんにちは", "」", "と", "っ", "た"}, Surfaces(got))
}

func TestComposeClassHints(t *testing.T) {
	got := Compose(append(classed(segment.ClassContent, "雪"), classed(segment.ClassDependent, "ぞ")...),
		NewGroupingConfig(ModeGrouped, 1))
	assert.Equal(t, []string{"雪ぞ"}, Surfaces(got))

	got = Compose(classed(segment.ClassContent, "雪", "は"), NewGroupingConfig(ModeGrouped, 1))
	assert.Equal(t, []string{"雪", "は"}, Surfaces(got))
}

func TestComposeSmallTsu(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
		want  []string
	}{
		{"carries one character", []string{"はっ", "きり"}, []string{"はっき", "り"}},
		{"drops emptied chunk", []string{"はっ", "き"}, []string{"はっき"}},
		{"katakana", []string{"ドッ", "グ"}, []string{"ドッグ"}},
		{"last chunk", []string{"あの", "はっ"}, []string{"あの", "はっ"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compose(classed(segment.ClassContent, tt.parts...), NewGroupingConfig(ModeGrouped, 2))
			assert.Equal(t, tt.want, Surfaces(got))
		})
	}

	t.Run("punctuation is not carried", func(t *testing.T) {
		_, toks := tokens("あっ", "「", "え", "」")
		got := Compose(toks, NewGroupingConfig(ModeGrouped, 4))
		assert.Equal(t, []string{"あっ", "「え」"}, Surfaces(got))
	})

	t.Run("offsets follow the carried character", func(t *testing.T) {
		text, _ := tokens("はっ", "きり")
		got := Compose(classed(segment.ClassContent, "はっ", "きり"), NewGroupingConfig(ModeGrouped, 2))
		require.Len(t, got, 2)
		assert.Equal(t, "はっき", text[got[0].Start:got[0].End])
		assert.Equal(t, "り", text[got[1].Start:got[1].End])
	})
}

func TestComposeOffsetsSkipWhitespace(t *testing.T) {
	text := "雪　の朝"
	toks, err := segment.Whitespace{}.Segment(text)
	require.NoError(t, err)

	got := Compose(toks, DefaultGroupingConfig())
	require.Len(t, got, 1)
	assert.Equal(t, Chunk{Surface: "雪の朝", Start: 0, End: len(text)}, got[0])
}

func TestComposeIsPure(t *testing.T) {
	_, toks := tokens("「", "あっ", "」", "と", "はっ", "きり", "言っ", "た", "。")
	before := append([]segment.Token(nil), toks...)
	cfg := NewGroupingConfig(ModeGrouped, 3)

	first := Compose(toks, cfg)
	second := Compose(toks, cfg)
	assert.Equal(t, first, second)
	assert.Equal(t, before, toks)
}

// Chunks built from two or more content tokens never exceed the budget,
// counting any opening bracket in front of them; a lone token may.
func TestComposeLengthBudget(t *testing.T) {
	words := []string{"雪", "銀河", "鉄道", "夜", "天気輪", "柱", "北十字星", "白鳥座停車場"}
	for _, lead := range []string{"", "「"} {
		for max := 1; max <= 6; max++ {
			for start := range words {
				parts := append(append([]string(nil), words[start:]...), words[:start]...)
				if lead != "" {
					parts = append([]string{lead}, parts...)
				}
				toks := classed(segment.ClassContent, parts...)
				for _, c := range Compose(toks, NewGroupingConfig(ModeGrouped, max)) {
					n := 0
					for _, tok := range toks {
						if tok.Surface != lead && tok.Start >= c.Start && tok.End <= c.End {
							n++
						}
					}
					if n >= 2 {
						assert.LessOrEqual(t, c.Len(), max, "chunk %q from %d tokens", c.Surface, n)
					}
				}
			}
		}
	}
}

func BenchmarkCompose(b *testing.B) {
	text := "ではみなさんは、そういうふうに川だと云われたり、乳の流れたあとだと云われたりしていたこのぼんやりと白いものがほんとうは何かご承知ですか。"
	toks, err := segment.Script{}.Segment(text)
	if err != nil {
		b.Fatal(err)
	}
	cfg := DefaultGroupingConfig()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Compose(toks, cfg)
	}
}
