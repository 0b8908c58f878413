package app

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFixedBackoff_Constant(t *testing.T) {
	b := NewFixedBackoff(5 * time.Millisecond)
	for i := 0; i < 3; i++ {
		if err := b.Wait(context.Background()); err != nil {
			t.Fatalf("Wait: %v", err)
		}
		if got := b.Current(); got != 5*time.Millisecond {
			t.Errorf("Current() after %d waits = %v, want 5ms", i+1, got)
		}
	}
}

func TestFixedBackoff_Default(t *testing.T) {
	if got := NewFixedBackoff(0).Current(); got != DefaultRetryInterval {
		t.Errorf("Current() = %v, want %v", got, DefaultRetryInterval)
	}
}

func TestBackoff_Growth(t *testing.T) {
	b := NewBackoff(time.Millisecond, 4*time.Millisecond)
	want := []time.Duration{2 * time.Millisecond, 4 * time.Millisecond, 4 * time.Millisecond}
	for i, w := range want {
		if err := b.Wait(context.Background()); err != nil {
			t.Fatalf("Wait: %v", err)
		}
		if got := b.Current(); got != w {
			t.Errorf("Current() after %d waits = %v, want %v", i+1, got, w)
		}
	}

	b.Reset()
	if got := b.Current(); got != time.Millisecond {
		t.Errorf("Current() after Reset = %v, want 1ms", got)
	}
}

func TestBackoff_JitterBounds(t *testing.T) {
	b := NewBackoff(100*time.Millisecond, 100*time.Millisecond)
	for i := 0; i < 50; i++ {
		d := b.next()
		if d < 80*time.Millisecond || d > 120*time.Millisecond {
			t.Fatalf("next() = %v, want within ±20%% of 100ms", d)
		}
	}
}

func TestBackoff_WaitCancelled(t *testing.T) {
	b := NewFixedBackoff(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- b.Wait(ctx) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Wait() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after cancel")
	}
}
