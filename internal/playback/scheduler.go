// Package playback advances a cursor over a chunk sequence at a fixed
// rate. Timing is anchored to absolute timestamps from a monotonic clock,
// so the cadence does not drift with the frequency or jitter of the
// caller's frame loop.
package playback

import (
	"math"
	"time"

	"github.com/metcalfc/jrr/internal/chunk"
)

// Rate limits, in chunks per minute.
const (
	MinRate     = 1.0
	MaxRate     = 60000.0
	DefaultRate = 300.0
)

// Event reports what a call to Step did.
type Event int

const (
	// EventNone means no advance was due.
	EventNone Event = iota
	// EventAdvanced means the cursor moved to the next chunk.
	EventAdvanced
	// EventFinished means the sequence ran out. Playback stopped and the
	// cursor rewound to the first chunk.
	EventFinished
)

func (e Event) String() string {
	switch e {
	case EventAdvanced:
		return "advanced"
	case EventFinished:
		return "finished"
	default:
		return "none"
	}
}

// State is a read-only snapshot of a Scheduler.
type State struct {
	Index   int
	Length  int
	Rate    float64
	Playing bool
	Elapsed time.Duration
}

// Scheduler owns the playback cursor. It is not safe for concurrent use;
// callers serialize access (see Driver).
type Scheduler struct {
	clock  Clock
	chunks []chunk.Chunk
	index  int
	rate   float64

	playing     bool
	accumulated time.Duration // elapsed time of finished runs
	runStart    time.Time
	nextDue     time.Time
	elapsed     time.Duration // as of the last state change or step
}

// NewScheduler returns a stopped scheduler with no chunks. A nil clock
// means SystemClock.
func NewScheduler(clock Clock, rate float64) *Scheduler {
	if clock == nil {
		clock = SystemClock
	}
	return &Scheduler{clock: clock, rate: ClampRate(rate)}
}

// ClampRate maps a malformed or out-of-range rate into [MinRate, MaxRate].
func ClampRate(rate float64) float64 {
	switch {
	case math.IsNaN(rate), rate < MinRate:
		return MinRate
	case rate > MaxRate:
		return MaxRate
	}
	return rate
}

// Interval is the display time of one chunk at rate.
func Interval(rate float64) time.Duration {
	return time.Duration(float64(time.Minute) / ClampRate(rate))
}

// Load replaces the chunk sequence. Playback stops and the cursor and
// elapsed time reset.
func (s *Scheduler) Load(chunks []chunk.Chunk) {
	s.Stop()
	s.chunks = chunks
	s.index = 0
	s.resetElapsed()
}

// Start begins playback from the current chunk. It reports false, and does
// nothing, when there is nothing left to play.
func (s *Scheduler) Start() bool {
	if s.playing {
		return true
	}
	if len(s.chunks) == 0 || s.index >= len(s.chunks) {
		return false
	}
	now := s.clock.Now()
	s.playing = true
	s.runStart = now
	s.nextDue = now.Add(s.interval())
	return true
}

// Stop pauses playback, keeping the cursor and the elapsed time.
func (s *Scheduler) Stop() {
	if !s.playing {
		return
	}
	s.accumulated += s.clock.Now().Sub(s.runStart)
	s.elapsed = s.accumulated
	s.playing = false
	s.runStart = time.Time{}
	s.nextDue = time.Time{}
}

// Seek stops playback and moves the cursor to index, clamped to the
// sequence. Elapsed time resets.
func (s *Scheduler) Seek(index int) {
	s.Stop()
	s.index = max(0, min(index, len(s.chunks)-1))
	s.resetElapsed()
}

// SetRate changes the rate. While playing, the share of the current
// interval that has already passed carries over to the new interval.
func (s *Scheduler) SetRate(rate float64) {
	rate = ClampRate(rate)
	if !s.playing {
		s.rate = rate
		return
	}
	now := s.clock.Now()
	old := s.interval()
	left := float64(s.nextDue.Sub(now)) / float64(old)
	left = max(0, min(left, 1))
	s.rate = rate
	s.nextDue = now.Add(time.Duration(left * float64(s.interval())))
}

// Step performs one scheduling step and advances at most one chunk.
// A caller that fell more than an interval behind, because it was
// suspended, resumes from now instead of catching up in a burst.
func (s *Scheduler) Step() Event {
	if !s.playing {
		return EventNone
	}
	now := s.clock.Now()
	s.elapsed = s.accumulated + now.Sub(s.runStart)
	if now.Before(s.nextDue) {
		return EventNone
	}

	next := s.index + 1
	if next >= len(s.chunks) {
		s.playing = false
		s.runStart = time.Time{}
		s.nextDue = time.Time{}
		s.index = 0
		s.resetElapsed()
		return EventFinished
	}
	s.index = next

	interval := s.interval()
	s.nextDue = s.nextDue.Add(interval)
	if now.Sub(s.nextDue) > interval {
		s.nextDue = now.Add(interval)
	}
	return EventAdvanced
}

func (s *Scheduler) interval() time.Duration { return Interval(s.rate) }

func (s *Scheduler) resetElapsed() {
	s.accumulated = 0
	s.elapsed = 0
}

// Snapshot returns the current state.
func (s *Scheduler) Snapshot() State {
	return State{
		Index:   s.index,
		Length:  len(s.chunks),
		Rate:    s.rate,
		Playing: s.playing,
		Elapsed: s.elapsed,
	}
}

// Chunks returns the loaded sequence. Callers must not modify it.
func (s *Scheduler) Chunks() []chunk.Chunk { return s.chunks }

// Current returns the chunk under the cursor.
func (s *Scheduler) Current() (chunk.Chunk, bool) {
	if s.index < 0 || s.index >= len(s.chunks) {
		return chunk.Chunk{}, false
	}
	return s.chunks[s.index], true
}

func (s *Scheduler) Index() int              { return s.index }
func (s *Scheduler) Rate() float64           { return s.rate }
func (s *Scheduler) IsPlaying() bool         { return s.playing }
func (s *Scheduler) Elapsed() time.Duration  { return s.elapsed }
func (s *Scheduler) Interval() time.Duration { return s.interval() }
