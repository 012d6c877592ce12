package clock

import (
	"sync"
	"time"
)

// Clock stamps saved lineups; tests swap in a Fake.
type Clock interface {
	Now() time.Time
}

type Real struct{}

func (Real) Now() time.Time { return time.Now().UTC() }

type Fake struct {
	mu      sync.Mutex
	current time.Time
}

func NewFake(t time.Time) *Fake {
	return &Fake{current: t}
}

func (c *Fake) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Fake) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}
