package testfixtures

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// Clock is a manually driven time source. Services take their clock as a
// func() time.Time, so tests hand out NowFunc and steer the instant with Set
// and Advance.
type Clock struct {
	mu sync.Mutex
	at time.Time
}

// NewClock starts a clock at the given instant. A zero start falls back to
// ReferenceTime so fixtures and clock agree on a baseline.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{at: start}
}

// Now reports the instant the clock currently points at.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.at
}

// NowFunc adapts the clock to the func() time.Time dependency the services
// expect. A nil clock degrades to the real time.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

// Set points the clock at an absolute instant.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.at = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.at = c.at.Add(d)
	c.mu.Unlock()
}

// IDGenerator yields "prefix-1", "prefix-2", ... so tests can predict the
// identifiers a service will assign.
type IDGenerator struct {
	prefix string
	n      atomic.Uint64
}

// NewIDGenerator creates a generator for the given prefix, defaulting to
// "id" when the prefix is blank.
func NewIDGenerator(prefix string) *IDGenerator {
	if prefix == "" {
		prefix = "id"
	}
	return &IDGenerator{prefix: prefix}
}

// Next returns the next identifier in the sequence.
func (g *IDGenerator) Next() string {
	return g.prefix + "-" + strconv.FormatUint(g.n.Add(1), 10)
}

// NextFunc adapts the generator to the func() string dependency the
// services expect. A nil generator yields empty identifiers.
func (g *IDGenerator) NextFunc() func() string {
	if g == nil {
		return func() string { return "" }
	}
	return g.Next
}
