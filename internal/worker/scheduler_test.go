package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/restock/internal/logger"
)

func TestScheduler_Validate(t *testing.T) {
	s := NewScheduler(logger.NewNop())

	valid := []string{"*/15 * * * *", "0 9 * * 1-5", "@hourly", "@every 10m"}
	for _, expr := range valid {
		if err := s.Validate(expr); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", expr, err)
		}
	}

	invalid := []string{"", "* * *", "every five minutes", "61 * * * *"}
	for _, expr := range invalid {
		if err := s.Validate(expr); err == nil {
			t.Errorf("Validate(%q) = nil, want error", expr)
		}
	}
}

func TestScheduler_RunNow(t *testing.T) {
	s := NewScheduler(logger.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var runs atomic.Int32
	err := s.Run(ctx, "@every 1h", true, func(ctx context.Context) {
		runs.Add(1)
		cancel()
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if runs.Load() != 1 {
		t.Errorf("Expected exactly one immediate run, got %d", runs.Load())
	}
}

func TestScheduler_RunsOnSchedule(t *testing.T) {
	s := NewScheduler(logger.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var runs atomic.Int32
	err := s.Run(ctx, "@every 1s", false, func(ctx context.Context) {
		if runs.Add(1) == 2 {
			cancel()
		}
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if runs.Load() < 2 {
		t.Errorf("Expected at least two scheduled runs, got %d", runs.Load())
	}
}

func TestScheduler_StopsWithoutRunning(t *testing.T) {
	s := NewScheduler(logger.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var runs atomic.Int32
	if err := s.Run(ctx, "@every 1h", false, func(ctx context.Context) { runs.Add(1) }); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if runs.Load() != 0 {
		t.Errorf("Expected no runs, got %d", runs.Load())
	}
}

func TestScheduler_InvalidExpression(t *testing.T) {
	s := NewScheduler(logger.NewNop())
	if err := s.Run(context.Background(), "not a schedule", false, func(context.Context) {}); err == nil {
		t.Error("Expected error for invalid schedule")
	}
}
