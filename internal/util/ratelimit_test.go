package util

import (
	"context"
	"testing"
	"time"
)

func TestHostLimiterThrottles(t *testing.T) {
	l := NewHostLimiter(10, 1) // 1 burst, then 100ms per request

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := l.Wait(context.Background(), "https://example.com/page"); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Errorf("3 requests at 10/s took %v, expected throttling", elapsed)
	}
}

func TestHostLimiterIndependentHosts(t *testing.T) {
	l := NewHostLimiter(1, 1)

	start := time.Now()
	hosts := []string{"https://a.example/x", "https://b.example/x", "https://c.example/x"}
	for _, u := range hosts {
		if err := l.Wait(context.Background(), u); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("distinct hosts should not throttle each other, took %v", elapsed)
	}
}

func TestHostLimiterContextCancel(t *testing.T) {
	l := NewHostLimiter(0.1, 1) // One request per 10s after the burst
	if err := l.Wait(context.Background(), "https://slow.example/x"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx, "https://slow.example/x"); err == nil {
		t.Error("expected a context error while throttled")
	}
}

func TestHostLimiterSetHostRate(t *testing.T) {
	l := NewHostLimiter(0.1, 1)
	l.SetHostRate("fast.example", 1000, 1000)

	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := l.Wait(context.Background(), "https://fast.example/x"); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("raised host rate not applied, took %v", elapsed)
	}
}
