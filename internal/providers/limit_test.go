package providers

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLimiterSpacesCalls(t *testing.T) {
	l := NewLimiter(10 * time.Millisecond)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := l.Wait(context.Background()); err != nil {
			t.Fatalf("unexpected error %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Fatalf("expected at least 20ms for three calls, got %s", elapsed)
	}
}

func TestLimiterFirstCallDoesNotBlock(t *testing.T) {
	l := NewLimiter(time.Hour)
	done := make(chan error, 1)
	go func() { done <- l.Wait(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("first call should not wait")
	}
}

func TestLimiterRespectsCanceledContext(t *testing.T) {
	l := NewLimiter(time.Hour)
	_ = l.Wait(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestNilLimiterNeverBlocks(t *testing.T) {
	var l *Limiter
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}
