package playback

import (
	"sync"
	"time"
)

// DefaultFrameRate is the number of scheduling steps per second a Driver
// runs when none is given.
const DefaultFrameRate = 60

// Player is what a Driver steps. Scheduler satisfies it, as does any
// facade that wraps one.
type Player interface {
	Start() bool
	Stop()
	Step() Event
	IsPlaying() bool
}

// Driver runs a Player's step function from a goroutine at a fixed frame
// rate, for hosts that have no frame callback of their own. All access to
// the Player while a Driver owns it must go through Do.
type Driver struct {
	mu      sync.Mutex
	p       Player
	frame   time.Duration
	onFrame func(Event)

	stop chan struct{}
	done chan struct{}
}

// NewDriver returns a stopped driver. onFrame, if set, is called from the
// loop goroutine after every step, outside the lock. It must not call Stop
// or Do.
func NewDriver(p Player, fps int, onFrame func(Event)) *Driver {
	if fps <= 0 {
		fps = DefaultFrameRate
	}
	return &Driver{p: p, frame: time.Second / time.Duration(fps), onFrame: onFrame}
}

// Start starts the player and the frame loop. It reports whether the
// player is playing.
func (d *Driver) Start() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		return true
	}
	if !d.p.Start() {
		return false
	}
	d.stop = make(chan struct{})
	d.done = make(chan struct{})
	go d.loop(d.stop, d.done)
	return true
}

// Stop stops the player. When it returns, no further step will run.
func (d *Driver) Stop() {
	d.Do(d.p.Stop)
}

// Toggle starts a stopped player or stops a playing one.
func (d *Driver) Toggle() {
	if d.Running() {
		d.Stop()
		return
	}
	d.Start()
}

// Do runs fn with exclusive access to the player. If fn leaves the player
// stopped, the frame loop is shut down before Do returns.
func (d *Driver) Do(fn func()) {
	d.mu.Lock()
	fn()
	var done chan struct{}
	if d.stop != nil && !d.p.IsPlaying() {
		close(d.stop)
		done = d.done
		d.stop, d.done = nil, nil
	}
	d.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Running reports whether the frame loop is active.
func (d *Driver) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stop != nil
}

func (d *Driver) loop(stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(d.frame)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		d.mu.Lock()
		select {
		case <-stop:
			d.mu.Unlock()
			return
		default:
		}
		ev := d.p.Step()
		playing := d.p.IsPlaying()
		if !playing && d.stop == stop {
			d.stop, d.done = nil, nil
		}
		d.mu.Unlock()

		if d.onFrame != nil {
			d.onFrame(ev)
		}
		if !playing {
			return
		}
	}
}
