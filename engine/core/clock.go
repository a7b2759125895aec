package core

import "time"

// Clock tracks the time since Initialize and the length of the previous
// frame. It only advances when OnNewFrame is called.
type Clock struct {
	now      func() time.Time
	start    time.Time
	current  time.Time
	previous time.Time
	started  bool
}

func NewClock() *Clock {
	return NewClockWithSource(time.Now)
}

// NewClockWithSource lets tests drive the clock by hand.
func NewClockWithSource(now func() time.Time) *Clock {
	return &Clock{now: now}
}

// Initialize starts the clock. Calling it again restarts it.
func (c *Clock) Initialize() error {
	t := c.now()
	c.start = t
	c.current = t
	c.previous = t
	c.started = true
	return nil
}

// OnNewFrame has no effect on a clock that wasn't initialized.
func (c *Clock) OnNewFrame() {
	if !c.started {
		return
	}
	c.previous = c.current
	t := c.now()
	// A source going backwards must not break previous <= current.
	if t.Before(c.previous) {
		t = c.previous
	}
	c.current = t
}

func (c *Clock) ElapsedSecondCountTotal() float64 {
	if !c.started {
		return 0
	}
	return c.current.Sub(c.start).Seconds()
}

func (c *Clock) ElapsedSecondCountPreviousFrame() float64 {
	if !c.started {
		return 0
	}
	return c.current.Sub(c.previous).Seconds()
}

func (c *Clock) IsStarted() bool {
	return c.started
}

func (c *Clock) CleanUp() error {
	c.started = false
	return nil
}
