package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestTokenBucketBurst(t *testing.T) {
	tb := NewTokenBucket(time.Hour, 3)

	for i := 0; i < 3; i++ {
		if !tb.Allow() {
			t.Errorf("Expected token %d to be available", i+1)
		}
	}

	if tb.Allow() {
		t.Error("Expected no more tokens to be available")
	}

	tb.Reset()
	if !tb.Allow() {
		t.Error("Expected tokens to be available after reset")
	}
}

func TestTokenBucketPacing(t *testing.T) {
	tb := NewTokenBucket(20*time.Millisecond, 1)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := tb.Wait(ctx); err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
	}

	// First token is immediate, the other four are paced
	if elapsed := time.Since(start); elapsed < 70*time.Millisecond {
		t.Errorf("Expected at least 70ms of pacing, got %s", elapsed)
	}
}

func TestTokenBucketZeroIntervalIsUnlimited(t *testing.T) {
	tb := NewTokenBucket(0, 1)

	for i := 0; i < 1000; i++ {
		if !tb.Allow() {
			t.Fatalf("Expected unlimited bucket to allow event %d", i)
		}
	}
}

func TestTokenBucketWaitCancelled(t *testing.T) {
	tb := NewTokenBucket(time.Hour, 1)
	tb.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := tb.Wait(ctx); err == nil {
		t.Error("Expected Wait to fail when the context ends before a token")
	}
}

func TestNewTokenBucketClampsBurst(t *testing.T) {
	tb := NewTokenBucket(time.Hour, 0)

	if !tb.Allow() {
		t.Error("Expected burst to be clamped to one token")
	}
	if tb.Interval() != time.Hour {
		t.Errorf("Unexpected interval %s", tb.Interval())
	}
}
