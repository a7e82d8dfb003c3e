package mocks

import (
	"sync"
	"time"

	"github.com/user/recstream/pkg/ports"
)

// Clock is a manually advanced ports.Clock.
type Clock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*Ticker
}

// NewClock creates a clock set to start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) NewTicker(d time.Duration) ports.Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &Ticker{
		clock:  c,
		period: d,
		next:   c.now.Add(d),
		ch:     make(chan time.Time, 1),
	}
	c.tickers = append(c.tickers, t)
	return t
}

// Set moves the clock to t without firing tickers.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d. Each active ticker whose deadline
// passes gets one tick; like time.Ticker, missed ticks are dropped when the
// channel is full.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	for _, t := range c.tickers {
		if t.stopped || t.next.After(c.now) {
			continue
		}
		for !t.next.After(c.now) {
			t.next = t.next.Add(t.period)
		}
		select {
		case t.ch <- c.now:
		default:
		}
	}
}

// ActiveTickers returns the number of tickers not yet stopped.
func (c *Clock) ActiveTickers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.tickers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Ticker is the ports.Ticker handed out by Clock.
type Ticker struct {
	clock   *Clock
	period  time.Duration
	next    time.Time
	ch      chan time.Time
	stopped bool
}

func (t *Ticker) C() <-chan time.Time {
	return t.ch
}

func (t *Ticker) Stop() {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	t.stopped = true
}

var _ ports.Clock = (*Clock)(nil)
