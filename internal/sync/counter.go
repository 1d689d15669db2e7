package sync

import "sync/atomic"

// Counter is a monotonically increasing count that is safe for concurrent use.
type Counter interface {
	Get() uint64
	Inc() uint64
}

type atomicCounter struct {
	value atomic.Uint64
}

func NewCounter() Counter {
	return &atomicCounter{}
}

func (c *atomicCounter) Get() uint64 {
	return c.value.Load()
}

// Inc adds one and returns the new count.
func (c *atomicCounter) Inc() uint64 {
	return c.value.Add(1)
}
