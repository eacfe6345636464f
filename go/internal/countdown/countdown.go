// Package countdown drives the visible round timer.
//
// A Countdown is owned by a single event loop. Start, Stop and Apply must all be
// called from that loop; the only background activity is the ticker goroutine,
// which forwards each tick to the sink tagged with the generation it was armed for.
package countdown

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Placeholder is displayed while no round timer is armed
const Placeholder = "--"

// Tick is delivered to the sink once per second while a countdown runs
type Tick struct {
	Gen uint64
}

// Countdown counts down whole seconds on an injectable clock
type Countdown struct {
	clock    clockwork.Clock
	interval time.Duration
	sink     func(Tick)

	remaining int
	armed     bool // a value is shown, including a frozen 0
	running   bool
	gen       uint64
	stopCh    chan struct{}
}

// New creates a countdown that reports ticks to sink
func New(clock clockwork.Clock, sink func(Tick)) *Countdown {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Countdown{
		clock:    clock,
		interval: time.Second,
		sink:     sink,
	}
}

// Start cancels any live countdown and begins a new one from seconds
func (c *Countdown) Start(seconds int) {
	c.Stop()
	if seconds < 0 {
		seconds = 0
	}

	c.gen++
	c.remaining = seconds
	c.armed = true
	if seconds == 0 {
		return
	}

	c.running = true
	c.stopCh = make(chan struct{})
	ticker := c.clock.NewTicker(c.interval)

	go func(gen uint64, stop <-chan struct{}) {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.Chan():
				c.sink(Tick{Gen: gen})
			}
		}
	}(c.gen, c.stopCh)

	log.Debug().Int("seconds", seconds).Uint64("gen", c.gen).Msg("countdown started")
}

// Stop cancels the live countdown and resets the display to the placeholder.
// Calling it when nothing runs is a no-op.
func (c *Countdown) Stop() {
	c.halt()
	if c.armed {
		c.gen++
	}
	c.armed = false
	c.remaining = 0
}

// Apply consumes a tick from the sink. Stale ticks from a cancelled countdown
// are ignored and report ok=false. expired is true exactly once, on the tick
// that reaches zero; the display then stays at 0 until Stop or Start.
func (c *Countdown) Apply(t Tick) (remaining int, expired bool, ok bool) {
	if !c.running || t.Gen != c.gen {
		return c.remaining, false, false
	}

	c.remaining--
	if c.remaining <= 0 {
		c.remaining = 0
		c.halt()
		log.Debug().Uint64("gen", c.gen).Msg("countdown expired")
		return 0, true, true
	}
	return c.remaining, false, true
}

// Remaining returns the seconds left
func (c *Countdown) Remaining() int {
	return c.remaining
}

// Running reports whether ticks are still being produced
func (c *Countdown) Running() bool {
	return c.running
}

// Display renders the timer for the viewer
func (c *Countdown) Display() string {
	if !c.armed {
		return Placeholder
	}
	return fmt.Sprintf("%02d", c.remaining)
}

func (c *Countdown) halt() {
	if c.running {
		close(c.stopCh)
		c.stopCh = nil
		c.running = false
	}
}
