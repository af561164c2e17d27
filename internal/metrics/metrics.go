package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// HTTPMetrics tracks the request totals the logging middleware feeds.
type HTTPMetrics struct {
	Requests     Counter
	ClientErrors Counter
	ServerErrors Counter
}

func (m *HTTPMetrics) Observe(status int) {
	m.Requests.Inc()
	switch {
	case status >= 500:
		m.ServerErrors.Inc()
	case status >= 400:
		m.ClientErrors.Inc()
	}
}

var HTTP = &HTTPMetrics{}
