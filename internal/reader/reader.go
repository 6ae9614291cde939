// Package reader provides core RSVP (Rapid Serial Visual Presentation) speed
// reading logic for Japanese text: it turns raw text into display chunks and
// plays them back at a fixed rate.
package reader

import (
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/metcalfc/jrr/internal/chunk"
	"github.com/metcalfc/jrr/internal/playback"
	"github.com/metcalfc/jrr/internal/segment"
)

// Reader holds the state for an RSVP speed reading session. Any change to
// the text, the grouping or the protected terms rebuilds the chunk sequence
// and resets playback.
//
// A Reader is not safe for concurrent use. Hosts that step it from a
// goroutine wrap it in a playback.Driver.
type Reader struct {
	log      *zap.Logger
	seg      segment.Segmenter
	grouping chunk.GroupingConfig
	terms    []string
	text     string

	clock playback.Clock
	rate  float64
	sched *playback.Scheduler

	sentenceStarts []int
}

// Option configures a Reader.
type Option func(*Reader)

// WithSegmenter sets the segmentation provider. The default is the
// dictionary-free script segmenter.
func WithSegmenter(s segment.Segmenter) Option {
	return func(r *Reader) {
		if s != nil {
			r.seg = s
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.log = l
		}
	}
}

// WithClock sets the playback clock.
func WithClock(c playback.Clock) Option {
	return func(r *Reader) { r.clock = c }
}

// WithGrouping sets the initial grouping config.
func WithGrouping(cfg chunk.GroupingConfig) Option {
	return func(r *Reader) { r.grouping = cfg }
}

// WithRate sets the initial rate in chunks per minute.
func WithRate(rate float64) Option {
	return func(r *Reader) { r.rate = rate }
}

// WithProtectedTerms sets the initial protected terms.
func WithProtectedTerms(terms []string) Option {
	return func(r *Reader) { r.terms = append([]string(nil), terms...) }
}

// New creates a Reader for text.
func New(text string, opts ...Option) *Reader {
	r := &Reader{
		log:      zap.NewNop(),
		seg:      segment.Script{},
		grouping: chunk.DefaultGroupingConfig(),
		rate:     playback.DefaultRate,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.grouping = r.normalizeGrouping(r.grouping)
	r.sched = playback.NewScheduler(r.clock, r.normalizeRate(r.rate))
	r.SetText(text)
	return r
}

// SetText replaces the text. Invalid UTF-8 is replaced with U+FFFD.
func (r *Reader) SetText(raw string) {
	if !utf8.ValidString(raw) {
		r.log.Warn("input is not valid UTF-8, replacing invalid bytes")
		raw = strings.ToValidUTF8(raw, "\uFFFD")
	}
	r.text = raw
	r.rebuild()
}

// SetGroupingConfig replaces the grouping config, clamping invalid values.
func (r *Reader) SetGroupingConfig(cfg chunk.GroupingConfig) {
	r.grouping = r.normalizeGrouping(cfg)
	r.rebuild()
}

// SetProtectedTerms replaces the protected terms.
func (r *Reader) SetProtectedTerms(terms []string) {
	r.terms = append([]string(nil), terms...)
	r.rebuild()
}

func (r *Reader) normalizeGrouping(cfg chunk.GroupingConfig) chunk.GroupingConfig {
	n := cfg.Normalize()
	if n != cfg {
		r.log.Warn("invalid grouping config, clamped",
			zap.Int("mode", int(cfg.Mode)),
			zap.Int("max_chunk_length", cfg.MaxChunkLength),
			zap.Stringer("grouping", n))
	}
	return n
}

func (r *Reader) normalizeRate(rate float64) float64 {
	n := playback.ClampRate(rate)
	if n != rate {
		r.log.Warn("invalid rate, clamped", zap.Float64("rate", rate), zap.Float64("clamped", n))
	}
	return n
}

func (r *Reader) rebuild() {
	r.sched.Stop()
	tokens := r.segment(r.text)
	chunks := chunk.Compose(tokens, r.grouping)
	chunks = chunk.Protect(chunks, r.terms, r.text)
	r.sched.Load(chunks)
	r.sentenceStarts = findSentenceStarts(chunks)

	r.log.Debug("rebuilt chunks",
		zap.String("segmenter", r.seg.Name()),
		zap.Stringer("grouping", r.grouping),
		zap.Int("terms", len(r.terms)),
		zap.Int("tokens", len(tokens)),
		zap.Int("chunks", len(chunks)))
}

// segment runs the configured segmenter, falling back to a whitespace split
// when it fails or returns tokens that do not cover the text.
func (r *Reader) segment(text string) []segment.Token {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	tokens, err := r.seg.Segment(text)
	if err == nil {
		err = segment.Validate(text, tokens)
	}
	if err == nil {
		return tokens
	}

	r.log.Warn("segmentation unavailable, falling back to whitespace",
		zap.String("segmenter", r.seg.Name()), zap.Error(err))
	tokens, err = segment.Whitespace{}.Segment(text)
	if err != nil {
		r.log.Error("whitespace segmentation failed", zap.Error(err))
		return nil
	}
	return tokens
}

// Start begins playback. It reports false when there is nothing to play.
func (r *Reader) Start() bool { return r.sched.Start() }

// Stop pauses playback.
func (r *Reader) Stop() { r.sched.Stop() }

// TogglePlay pauses a playing reader or starts a paused one. It reports
// whether the reader is now playing.
func (r *Reader) TogglePlay() bool {
	if r.sched.IsPlaying() {
		r.sched.Stop()
		return false
	}
	return r.sched.Start()
}

// Seek stops playback and moves to chunk index, clamped to the sequence.
func (r *Reader) Seek(index int) { r.sched.Seek(index) }

// SetRate sets the rate in chunks per minute, clamping invalid values.
func (r *Reader) SetRate(rate float64) { r.sched.SetRate(r.normalizeRate(rate)) }

// Step runs one scheduling step. Hosts call it once per frame.
func (r *Reader) Step() playback.Event { return r.sched.Step() }

// Chunks returns the chunk sequence. Callers must not modify it.
func (r *Reader) Chunks() []chunk.Chunk { return r.sched.Chunks() }

// CurrentIndex returns the index of the chunk on display.
func (r *Reader) CurrentIndex() int { return r.sched.Index() }

// CurrentChunk returns the chunk on display, or the zero Chunk when there
// is none.
func (r *Reader) CurrentChunk() chunk.Chunk {
	c, _ := r.sched.Current()
	return c
}

func (r *Reader) IsPlaying() bool         { return r.sched.IsPlaying() }
func (r *Reader) Rate() float64           { return r.sched.Rate() }
func (r *Reader) Elapsed() time.Duration  { return r.sched.Elapsed() }
func (r *Reader) State() playback.State   { return r.sched.Snapshot() }
func (r *Reader) Interval() time.Duration { return r.sched.Interval() }

// ElapsedSeconds returns the playing time since the last reset.
func (r *Reader) ElapsedSeconds() float64 { return r.sched.Elapsed().Seconds() }

// TotalCharacterCount returns the length of the raw text in characters.
func (r *Reader) TotalCharacterCount() int { return utf8.RuneCountInString(r.text) }

// Text returns the raw text.
func (r *Reader) Text() string { return r.text }

// Grouping returns the grouping config in effect.
func (r *Reader) Grouping() chunk.GroupingConfig { return r.grouping }

// ProtectedTerms returns the protected terms.
func (r *Reader) ProtectedTerms() []string { return append([]string(nil), r.terms...) }

// SegmenterName returns the name of the configured segmenter.
func (r *Reader) SegmenterName() string { return r.seg.Name() }

// Progress returns the current position and total chunk count.
func (r *Reader) Progress() (current, total int) {
	n := len(r.sched.Chunks())
	if n == 0 {
		return 0, 0
	}
	return r.sched.Index() + 1, n
}

// ChunkIndexAt returns the index of the chunk containing, or first
// following, byte offset in the text.
func (r *Reader) ChunkIndexAt(offset int) int {
	chunks := r.sched.Chunks()
	for i, c := range chunks {
		if c.End > offset {
			return i
		}
	}
	return max(0, len(chunks)-1)
}
