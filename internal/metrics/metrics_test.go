package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounter_Concurrent(t *testing.T) {
	var c Counter
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Inc()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(5000), c.Load())
}

func TestHTTPMetrics_Observe(t *testing.T) {
	var m HTTPMetrics

	for _, status := range []int{200, 201, 404, 409, 500, 502} {
		m.Observe(status)
	}

	assert.Equal(t, uint64(6), m.Requests.Load())
	assert.Equal(t, uint64(2), m.ClientErrors.Load())
	assert.Equal(t, uint64(2), m.ServerErrors.Load())
}
