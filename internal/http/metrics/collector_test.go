package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCollectorCountsByClass(t *testing.T) {
	c := NewCollector()
	for _, status := range []int{200, 201, 404, 429, 500} {
		c.Start()
		c.Observe(status, 5*time.Millisecond)
	}
	c.IncError()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{
		"http_requests_total 5",
		"http_requests_in_flight 0",
		`http_responses_total{class="2xx"} 2`,
		`http_responses_total{class="4xx"} 2`,
		`http_responses_total{class="5xx"} 1`,
		"http_rate_limited_total 1",
		"http_errors_total 1",
		"http_request_duration_milliseconds_sum 25",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in:\n%s", want, body)
		}
	}
}
