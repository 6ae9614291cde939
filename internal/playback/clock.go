package playback

import "time"

// Clock supplies the current time. Values returned by Now must carry a
// monotonic reading so that differences are immune to wall-clock jumps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the process monotonic clock.
var SystemClock Clock = systemClock{}
