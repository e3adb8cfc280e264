package metrics

import (
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"
)

type Collector struct {
	requests     atomic.Int64
	inFlight     atomic.Int64
	status2xx    atomic.Int64
	status4xx    atomic.Int64
	status5xx    atomic.Int64
	errors       atomic.Int64
	durationMsec atomic.Int64
	rateLimited  atomic.Int64
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Start() {
	c.inFlight.Add(1)
}

func (c *Collector) Observe(status int, elapsed time.Duration) {
	c.inFlight.Add(-1)
	c.requests.Add(1)
	c.durationMsec.Add(elapsed.Milliseconds())
	switch {
	case status >= 500:
		c.status5xx.Add(1)
	case status >= 400:
		c.status4xx.Add(1)
		if status == http.StatusTooManyRequests {
			c.rateLimited.Add(1)
		}
	default:
		c.status2xx.Add(1)
	}
}

func (c *Collector) IncError() {
	c.errors.Add(1)
}

// WriteTo renders the counters in the Prometheus text format.
func (c *Collector) WriteTo(w io.Writer) (int64, error) {
	lines := []struct {
		name, help, kind string
		value            int64
		labels           string
	}{
		{"http_requests_total", "Handled HTTP requests.", "counter", c.requests.Load(), ""},
		{"http_requests_in_flight", "Requests currently being served.", "gauge", c.inFlight.Load(), ""},
		{"http_responses_total", "Responses by status class.", "counter", c.status2xx.Load(), `{class="2xx"}`},
		{"http_responses_total", "", "", c.status4xx.Load(), `{class="4xx"}`},
		{"http_responses_total", "", "", c.status5xx.Load(), `{class="5xx"}`},
		{"http_rate_limited_total", "Requests rejected by a rate limit.", "counter", c.rateLimited.Load(), ""},
		{"http_errors_total", "Internal errors written to clients.", "counter", c.errors.Load(), ""},
		{"http_request_duration_milliseconds_sum", "Total time spent serving requests.", "counter", c.durationMsec.Load(), ""},
	}
	var total int64
	for _, line := range lines {
		if line.help != "" {
			n, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n", line.name, line.help, line.name, line.kind)
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
		n, err := fmt.Fprintf(w, "%s%s %d\n", line.name, line.labels, line.value)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (c *Collector) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		_, _ = c.WriteTo(w)
	})
}
