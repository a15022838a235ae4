package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterAllowAndRefill(t *testing.T) {
	current := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return current })
	rule := RateLimitRule{Rate: 1, Burst: 2}

	for i := 0; i < 2; i++ {
		if ok, _ := limiter.Allow("s1|ORACLE", rule); !ok {
			t.Fatalf("request %d should be allowed within burst", i+1)
		}
	}
	ok, retryAfter := limiter.Allow("s1|ORACLE", rule)
	if ok {
		t.Fatal("expected limit after burst exhausted")
	}
	if retryAfter <= 0 {
		t.Fatalf("expected positive retry-after, got %v", retryAfter)
	}

	current = current.Add(2 * time.Second)
	if ok, _ := limiter.Allow("s1|ORACLE", rule); !ok {
		t.Fatal("expected refill after waiting")
	}
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	current := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return current })
	rule := RateLimitRule{Rate: 1, Burst: 1}

	if ok, _ := limiter.Allow("s1|ORACLE", rule); !ok {
		t.Fatal("first key should pass")
	}
	if ok, _ := limiter.Allow("s2|ORACLE", rule); !ok {
		t.Fatal("second key should pass independently")
	}
	if ok, _ := limiter.Allow("s1|ORACLE", rule); ok {
		t.Fatal("first key should be exhausted")
	}
}

func TestRateLimiterZeroRuleAlwaysAllows(t *testing.T) {
	limiter := NewRateLimiter(nil)
	if ok, _ := limiter.Allow("any", RateLimitRule{}); !ok {
		t.Fatal("zero rule should allow")
	}
}
