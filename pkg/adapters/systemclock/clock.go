// Package systemclock provides the wall-clock ports.Clock.
package systemclock

import (
	"time"

	"github.com/user/recstream/pkg/ports"
)

// Clock implements ports.Clock with the time package.
type Clock struct{}

// New creates a new Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current time.
func (Clock) Now() time.Time {
	return time.Now()
}

// NewTicker returns a ticker backed by time.Ticker.
func (Clock) NewTicker(d time.Duration) ports.Ticker {
	return &ticker{t: time.NewTicker(d)}
}

type ticker struct {
	t *time.Ticker
}

func (t *ticker) C() <-chan time.Time { return t.t.C }
func (t *ticker) Stop()               { t.t.Stop() }

var _ ports.Clock = Clock{}
