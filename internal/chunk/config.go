package chunk

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidMode is returned by ParseMode for unrecognized mode names.
var ErrInvalidMode = errors.New("invalid grouping mode")

// Mode selects how tokens are combined into chunks.
type Mode int

const (
	// ModeGrouped merges tokens per the composition rules.
	ModeGrouped Mode = iota
	// ModeAtomic emits every non-blank token as its own chunk.
	ModeAtomic
)

const (
	// DefaultMaxChunkLength is the character budget used when none is set.
	DefaultMaxChunkLength = 4
	// MinMaxChunkLength is the smallest accepted budget.
	MinMaxChunkLength = 1
)

func (m Mode) String() string {
	if m == ModeAtomic {
		return "atomic"
	}
	return "grouped"
}

// ParseMode parses "atomic" or "grouped". The aliases "word" and
// "bunsetsu" are accepted for the same two modes.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "atomic", "word":
		return ModeAtomic, nil
	case "grouped", "bunsetsu", "":
		return ModeGrouped, nil
	}
	return ModeGrouped, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// GroupingConfig controls composition. Build it with NewGroupingConfig so
// that MaxChunkLength is always valid.
type GroupingConfig struct {
	Mode           Mode
	MaxChunkLength int
}

// NewGroupingConfig returns a config with maxLen clamped to at least
// MinMaxChunkLength and unknown modes mapped to ModeGrouped.
func NewGroupingConfig(mode Mode, maxLen int) GroupingConfig {
	return GroupingConfig{Mode: mode, MaxChunkLength: maxLen}.Normalize()
}

// DefaultGroupingConfig is grouped mode with a budget of four characters.
func DefaultGroupingConfig() GroupingConfig {
	return GroupingConfig{Mode: ModeGrouped, MaxChunkLength: DefaultMaxChunkLength}
}

// Normalize clamps out-of-range fields.
func (c GroupingConfig) Normalize() GroupingConfig {
	if c.Mode != ModeAtomic {
		c.Mode = ModeGrouped
	}
	if c.MaxChunkLength < MinMaxChunkLength {
		c.MaxChunkLength = MinMaxChunkLength
	}
	return c
}

// Valid reports whether c is already normalized.
func (c GroupingConfig) Valid() bool {
	return c == c.Normalize()
}

func (c GroupingConfig) String() string {
	return fmt.Sprintf("%s/%d", c.Mode, c.MaxChunkLength)
}
