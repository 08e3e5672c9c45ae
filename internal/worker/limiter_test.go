package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_FirstRequestImmediate(t *testing.T) {
	limiter := NewLimiter(time.Hour)

	start := time.Now()
	if err := limiter.Wait(context.Background(), "https://store.example.com/item"); err != nil {
		t.Fatalf("wait failed: %v", err)
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Errorf("expected first wait to return immediately, took %v", time.Since(start))
	}
}

func TestLimiter_SpacesRequests(t *testing.T) {
	limiter := NewLimiter(50 * time.Millisecond)
	ctx := context.Background()
	url := "https://store.example.com/item"

	if err := limiter.Wait(ctx, url); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	start := time.Now()
	if err := limiter.Wait(ctx, url); err != nil {
		t.Fatalf("second wait failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("expected second wait to be delayed, got %v", elapsed)
	}
}

func TestLimiter_PerHost(t *testing.T) {
	limiter := NewLimiter(time.Hour)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "https://store.example.com/item"); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	start := time.Now()
	if err := limiter.Wait(ctx, "https://other.example.com/"); err != nil {
		t.Fatalf("wait on other host failed: %v", err)
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Errorf("expected a different host to have its own budget, took %v", time.Since(start))
	}
}

func TestLimiter_ContextCancelled(t *testing.T) {
	limiter := NewLimiter(time.Hour)
	url := "https://store.example.com/item"
	if err := limiter.Wait(context.Background(), url); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, url); err == nil {
		t.Error("expected error when context ends before the next slot")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(0)
	url := "https://store.example.com/item"

	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := limiter.Wait(context.Background(), url); err != nil {
			t.Fatalf("request %d: wait failed: %v", i, err)
		}
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Errorf("expected unlimited requests, took %v", time.Since(start))
	}
}

func TestLimiter_InvalidURL(t *testing.T) {
	limiter := NewLimiter(time.Second)
	if err := limiter.Wait(context.Background(), "://bad"); err == nil {
		t.Error("expected error for invalid URL")
	}
}
