package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"placementcell/internal/domain/user"
	"placementcell/internal/http/metrics"
	"placementcell/internal/observability"
	"placementcell/internal/security"
)

func TestRateLimiterWindow(t *testing.T) {
	limiter := NewRateLimiter()
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	for i := 0; i < 3; i++ {
		if !limiter.Allow("apply:s1", 3, time.Minute) {
			t.Fatalf("call %d should pass", i)
		}
	}
	if limiter.Allow("apply:s1", 3, time.Minute) {
		t.Fatalf("fourth call should be limited")
	}
	if !limiter.Allow("apply:s2", 3, time.Minute) {
		t.Fatalf("other keys are independent")
	}
	now = now.Add(61 * time.Second)
	if !limiter.Allow("apply:s1", 3, time.Minute) {
		t.Fatalf("new window should pass")
	}
}

func TestRedisLimiterFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer client.Close()
	limiter := NewRedisLimiter(client)
	if !limiter.Allow("login:1.2.3.4", 1, time.Minute) {
		t.Fatalf("unreachable redis should not block requests")
	}
	var nilLimiter *RedisLimiter
	if !nilLimiter.Allow("k", 1, time.Minute) {
		t.Fatalf("nil limiter should allow")
	}
}

func TestRateLimitMiddlewareReturns429(t *testing.T) {
	limiter := NewRateLimiter()
	handler := RateLimit(limiter, ClientIP, 1, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	for i, want := range []int{http.StatusNoContent, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("request %d: expected %d, got %d", i, want, rec.Code)
		}
	}
}

func TestAuthenticateAndRequireRole(t *testing.T) {
	provider := security.NewJWTProvider("secret")
	token, _, err := provider.Generate(user.Identity{SubjectID: "c1", Role: user.RoleRecruiter, Name: "Rita"}, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	auth := NewAuthMiddleware(provider)
	var seen user.Identity
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	cases := []struct {
		name   string
		header string
		roles  []user.Role
		want   int
	}{
		{"missing header", "", []user.Role{user.RoleRecruiter}, http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, []user.Role{user.RoleRecruiter}, http.StatusUnauthorized},
		{"garbage token", "Bearer nope", []user.Role{user.RoleRecruiter}, http.StatusUnauthorized},
		{"wrong role", "Bearer " + token, []user.Role{user.RoleAdmin}, http.StatusForbidden},
		{"one of roles", "Bearer " + token, []user.Role{user.RoleAdmin, user.RoleRecruiter}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := auth.Authenticate(RequireRole(tc.roles...)(inner))
			req := httptest.NewRequest(http.MethodGet, "/drives/x/candidates", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
	if seen.SubjectID != "c1" || seen.Role != user.RoleRecruiter {
		t.Fatalf("identity not propagated: %+v", seen)
	}
}

func TestChainRecoversAndCounts(t *testing.T) {
	collector := metrics.NewCollector()
	var requestID string
	handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = observability.RequestIDFromContext(r.Context())
		panic("boom")
	}), RequestID, Logging(nil), BodyLimit(1024), Recover(nil), Metrics(collector), Timeout(time.Second))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if requestID == "" || rec.Header().Get(RequestIDHeader) != requestID {
		t.Fatalf("request id not propagated: ctx=%q header=%q", requestID, rec.Header().Get(RequestIDHeader))
	}
	var out strings.Builder
	if _, err := collector.WriteTo(&out); err != nil {
		t.Fatalf("write metrics: %v", err)
	}
	if !strings.Contains(out.String(), "http_requests_total 1") {
		t.Fatalf("expected the panicking request to be observed:\n%s", out.String())
	}
}
