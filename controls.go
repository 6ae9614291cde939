package main

import (
	"fmt"
	"time"

	"github.com/metcalfc/jrr/internal/chunk"
	"github.com/metcalfc/jrr/internal/reader"
	"github.com/metcalfc/jrr/internal/source"
)

// Limits for the interactive controls. The reader itself accepts any
// positive rate and chunk length.
const (
	rateStep     = 50
	minStepRate  = 100
	maxStepRate  = 1500
	maxChunkKeys = 12
)

// stepRate moves rate by delta within the range the keys allow.
func stepRate(rate, delta float64) float64 {
	return min(max(rate+delta, minStepRate), maxStepRate)
}

func toggleMode(g chunk.GroupingConfig) chunk.GroupingConfig {
	if g.Mode == chunk.ModeAtomic {
		g.Mode = chunk.ModeGrouped
	} else {
		g.Mode = chunk.ModeAtomic
	}
	return g
}

func stepMaxLength(g chunk.GroupingConfig, delta int) chunk.GroupingConfig {
	g.MaxChunkLength = min(max(g.MaxChunkLength+delta, chunk.MinMaxChunkLength), maxChunkKeys)
	return g
}

// regroup rebuilds the chunks of r with g and seeks to the chunk holding
// the text that was on display. It reports whether anything changed.
func regroup(r *reader.Reader, g chunk.GroupingConfig) bool {
	if g == r.Grouping() {
		return false
	}
	offset := r.CurrentChunk().Start
	r.SetGroupingConfig(g)
	r.Seek(r.ChunkIndexAt(offset))
	return true
}

// sectionAt returns the last section starting at or before offset.
func sectionAt(sections []source.Section, offset int) (source.Section, bool) {
	var found source.Section
	ok := false
	for _, s := range sections {
		if s.Offset > offset {
			break
		}
		found, ok = s, true
	}
	return found, ok
}

func formatElapsed(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
