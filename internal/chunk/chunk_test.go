package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/metcalfc/jrr/internal/segment"
)

// tokens lays parts end to end and returns the text and its tokens.
func tokens(parts ...string) (string, []segment.Token) {
	var text string
	out := make([]segment.Token, 0, len(parts))
	for _, p := range parts {
		out = append(out, segment.Token{Surface: p, Start: len(text), End: len(text) + len(p)})
		text += p
	}
	return text, out
}

// classed is like tokens but marks every token with class c.
func classed(c segment.Class, parts ...string) []segment.Token {
	_, out := tokens(parts...)
	for i := range out {
		out[i].Class = c
	}
	return out
}

func TestRunSplit(t *testing.T) {
	r := run{{text: "母は", start: 0}, {text: "言った「あ", start: 7}}
	head, tail := r.split(len("母は言った"))
	assert.Equal(t, "母は言った", head.surface())
	assert.Equal(t, "「あ", tail.surface())
	assert.Equal(t, Chunk{Surface: "母は言った", Start: 0, End: 7 + len("言った")}, head.chunk())
	assert.Equal(t, 7+len("言った"), tail.chunk().Start)

	head, tail = r.split(len("母は"))
	assert.Equal(t, "母は", head.surface())
	assert.Equal(t, "言った「あ", tail.surface())
}

func TestJoinAndSurfaces(t *testing.T) {
	chunks := []Chunk{{Surface: "雪の"}, {Surface: "朝"}}
	assert.Equal(t, "雪の朝", Join(chunks))
	assert.Equal(t, []string{"雪の", "朝"}, Surfaces(chunks))
	assert.Equal(t, 2, chunks[0].Len())
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"atomic", ModeAtomic, false},
		{"word", ModeAtomic, false},
		{"Grouped", ModeGrouped, false},
		{"bunsetsu", ModeGrouped, false},
		{"", ModeGrouped, false},
		{"sentence", ModeGrouped, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidMode)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGroupingConfigNormalize(t *testing.T) {
	assert.Equal(t, GroupingConfig{Mode: ModeGrouped, MaxChunkLength: 1}, NewGroupingConfig(ModeGrouped, 0))
	assert.Equal(t, GroupingConfig{Mode: ModeGrouped, MaxChunkLength: 1}, NewGroupingConfig(Mode(7), -3))
	assert.Equal(t, GroupingConfig{Mode: ModeAtomic, MaxChunkLength: 6}, NewGroupingConfig(ModeAtomic, 6))
	assert.True(t, DefaultGroupingConfig().Valid())
	assert.False(t, GroupingConfig{}.Valid())
	assert.Equal(t, "grouped/4", DefaultGroupingConfig().String())
}
