package influxdb

import "sync/atomic"

// Counter accumulates events between two flushes to the metrics backend.
type Counter struct {
	n int64
}

func NewCounter() *Counter {
	return &Counter{}
}

func (c *Counter) Inc() {
	atomic.AddInt64(&c.n, 1)
}

func (c *Counter) Add(delta int) {
	atomic.AddInt64(&c.n, int64(delta))
}

func (c *Counter) Get() int {
	return int(atomic.LoadInt64(&c.n))
}

// Flush returns the count and starts over from zero.
func (c *Counter) Flush() int {
	return int(atomic.SwapInt64(&c.n, 0))
}
