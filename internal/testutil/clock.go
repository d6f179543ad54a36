package testutil

import (
	"strconv"
	"sync"
	"time"

	"goodgood/internal/gg"
)

// StubClock is a gg.Clock that only moves when Advance is called.
type StubClock struct {
	mu  sync.Mutex
	now time.Time
}

var _ gg.Clock = (*StubClock)(nil)

// NewStubClock creates a StubClock reading t.
func NewStubClock(t time.Time) *StubClock {
	return &StubClock{now: t}
}

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *StubClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// StubIDGenerator hands out "id-1", "id-2", ... so run and archive IDs are
// predictable in assertions.
type StubIDGenerator struct {
	mu sync.Mutex
	n  int
}

var _ gg.IDGenerator = (*StubIDGenerator)(nil)

func NewStubIDGenerator() *StubIDGenerator {
	return &StubIDGenerator{}
}

func (g *StubIDGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return "id-" + strconv.Itoa(g.n)
}
