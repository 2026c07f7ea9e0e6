package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestLimiter(t *testing.T) {
	t.Run("zero rate is unlimited", func(t *testing.T) {
		l := NewLimiter(0)
		for range 1000 {
			if !l.Allow("10.0.0.1") {
				t.Fatal("unlimited limiter refused")
			}
		}
	})

	t.Run("burst exhausts the bucket", func(t *testing.T) {
		l := NewLimiter(5)
		for i := range 5 {
			if !l.Allow("10.0.0.1") {
				t.Fatalf("request %d refused within burst", i)
			}
		}
		if l.Allow("10.0.0.1") {
			t.Error("request beyond burst allowed")
		}
	})

	t.Run("clients limited independently", func(t *testing.T) {
		l := NewLimiter(2)
		l.Allow("10.0.0.1")
		l.Allow("10.0.0.1")
		if l.Allow("10.0.0.1") {
			t.Error("first client not limited")
		}
		if !l.Allow("10.0.0.2") {
			t.Error("second client limited by first client's budget")
		}
	})
}

func TestLimiterCleanup(t *testing.T) {
	fullBucket := func(age time.Duration) *bucket {
		return &bucket{
			limiter:  rate.NewLimiter(rate.Every(time.Minute/5), 5),
			lastSeen: time.Now().Add(-age),
		}
	}

	t.Run("evicts idle full buckets", func(t *testing.T) {
		l := NewLimiter(5)
		defer l.Close()
		l.Allow("10.0.0.1")
		l.mu.Lock()
		l.buckets["10.0.0.99"] = fullBucket(time.Hour)
		l.mu.Unlock()

		l.cleanup(time.Now())

		l.mu.Lock()
		defer l.mu.Unlock()
		if _, ok := l.buckets["10.0.0.99"]; ok {
			t.Error("idle bucket not evicted")
		}
		if _, ok := l.buckets["10.0.0.1"]; !ok {
			t.Error("active bucket evicted")
		}
	})

	t.Run("keeps stale buckets still paying off a burst", func(t *testing.T) {
		l := NewLimiter(5)
		defer l.Close()
		b := fullBucket(time.Hour)
		for b.limiter.Allow() {
		}
		l.mu.Lock()
		l.buckets["10.0.0.99"] = b
		l.mu.Unlock()

		l.cleanup(time.Now())

		l.mu.Lock()
		defer l.mu.Unlock()
		if _, ok := l.buckets["10.0.0.99"]; !ok {
			t.Error("drained bucket evicted before tokens replenished")
		}
	})
}

func TestLimitMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := Limit(NewLimiter(1))(next)

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	if first.Code != http.StatusNoContent {
		t.Fatalf("first status = %d", first.Code)
	}

	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("second status = %d", second.Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		remote string
		fwd    string
		want   string
	}{
		{"remote addr", "192.0.2.1:5000", "", "192.0.2.1"},
		{"forwarded single", "10.0.0.1:80", "203.0.113.7", "203.0.113.7"},
		{"forwarded chain uses first hop", "10.0.0.1:80", "203.0.113.7, 70.41.3.18", "203.0.113.7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			if tt.fwd != "" {
				r.Header.Set("X-Forwarded-For", tt.fwd)
			}
			if got := clientIP(r); got != tt.want {
				t.Errorf("clientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
