package relay

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNew_Capacity(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{8, 8},
		{1, 1},
		{32, 32},
		{0, DefaultCapacity},
		{-3, DefaultCapacity},
	}
	for _, tt := range tests {
		if got := New[int](tt.in).Cap(); got != tt.want {
			t.Errorf("New(%d).Cap() = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRelay_FIFO(t *testing.T) {
	ctx := context.Background()
	r := New[int](4)

	done := make(chan []int)
	go func() {
		var got []int
		for {
			v, err := r.Pop(ctx)
			if err != nil {
				done <- got
				return
			}
			got = append(got, v)
		}
	}()

	for i := 0; i < 100; i++ {
		if err := r.Push(ctx, i); err != nil {
			t.Fatalf("Push(%d): %v", i, err)
		}
	}
	r.CloseProducer()

	got := <-done
	if len(got) != 100 {
		t.Fatalf("received %d items, want 100", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("item %d = %d, want %d", i, v, i)
		}
	}
}

func TestRelay_Backpressure(t *testing.T) {
	ctx := context.Background()
	r := New[int](DefaultCapacity)

	for i := 0; i < 8; i++ {
		pushed := make(chan error, 1)
		go func(v int) { pushed <- r.Push(ctx, v) }(i)
		select {
		case err := <-pushed:
			if err != nil {
				t.Fatalf("Push(%d): %v", i, err)
			}
		case <-time.After(time.Second):
			t.Fatalf("Push(%d) blocked below capacity", i)
		}
	}

	ninth := make(chan error, 1)
	go func() { ninth <- r.Push(ctx, 8) }()

	select {
	case err := <-ninth:
		t.Fatalf("9th Push returned %v while relay was full", err)
	case <-time.After(50 * time.Millisecond):
	}

	v, err := r.Pop(ctx)
	if err != nil || v != 0 {
		t.Fatalf("Pop() = %d, %v; want 0, nil", v, err)
	}

	select {
	case err := <-ninth:
		if err != nil {
			t.Fatalf("9th Push: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("9th Push still blocked after Pop")
	}

	if r.Len() != 8 {
		t.Errorf("Len() = %d, want 8", r.Len())
	}
}

func TestRelay_ConsumerGoneUnblocksPush(t *testing.T) {
	ctx := context.Background()
	r := New[int](1)
	if err := r.Push(ctx, 1); err != nil {
		t.Fatalf("Push: %v", err)
	}

	blocked := make(chan error, 1)
	go func() { blocked <- r.Push(ctx, 2) }()

	time.Sleep(20 * time.Millisecond)
	r.CloseConsumer()

	select {
	case err := <-blocked:
		if !errors.Is(err, ErrPeerGone) {
			t.Fatalf("Push() error = %v, want ErrPeerGone", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Push still blocked after CloseConsumer")
	}

	if err := r.Push(ctx, 3); !errors.Is(err, ErrPeerGone) {
		t.Errorf("Push after CloseConsumer = %v, want ErrPeerGone", err)
	}
}

func TestRelay_ProducerGoneUnblocksPop(t *testing.T) {
	ctx := context.Background()
	r := New[string](2)

	blocked := make(chan error, 1)
	go func() {
		_, err := r.Pop(ctx)
		blocked <- err
	}()

	time.Sleep(20 * time.Millisecond)
	r.CloseProducer()

	select {
	case err := <-blocked:
		if !errors.Is(err, ErrPeerGone) {
			t.Fatalf("Pop() error = %v, want ErrPeerGone", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Pop still blocked after CloseProducer")
	}
}

func TestRelay_DrainsAfterProducerGone(t *testing.T) {
	ctx := context.Background()
	r := New[string](4)
	for _, s := range []string{"a", "b", "c"} {
		if err := r.Push(ctx, s); err != nil {
			t.Fatalf("Push(%s): %v", s, err)
		}
	}
	r.CloseProducer()

	for _, want := range []string{"a", "b", "c"} {
		got, err := r.Pop(ctx)
		if err != nil {
			t.Fatalf("Pop: %v", err)
		}
		if got != want {
			t.Errorf("Pop() = %s, want %s", got, want)
		}
	}
	if _, err := r.Pop(ctx); !errors.Is(err, ErrPeerGone) {
		t.Errorf("Pop on drained relay = %v, want ErrPeerGone", err)
	}
}

func TestRelay_OwnEndClosed(t *testing.T) {
	ctx := context.Background()

	r := New[int](1)
	r.CloseProducer()
	r.CloseProducer()
	if err := r.Push(ctx, 1); !errors.Is(err, ErrClosed) {
		t.Errorf("Push after own close = %v, want ErrClosed", err)
	}

	r = New[int](1)
	r.CloseConsumer()
	r.CloseConsumer()
	if _, err := r.Pop(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("Pop after own close = %v, want ErrClosed", err)
	}
}

func TestRelay_ContextCancel(t *testing.T) {
	r := New[int](1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := r.Pop(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Pop() error = %v, want DeadlineExceeded", err)
	}

	if err := r.Push(context.Background(), 1); err != nil {
		t.Fatalf("Push: %v", err)
	}
	ctx2, cancel2 := context.WithCancel(context.Background())
	cancel2()
	if err := r.Push(ctx2, 2); !errors.Is(err, context.Canceled) {
		t.Errorf("Push() error = %v, want Canceled", err)
	}
}

func TestRelay_ConcurrentOrder(t *testing.T) {
	ctx := context.Background()
	r := New[int](3)
	const n = 2000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer r.CloseProducer()
		for i := 0; i < n; i++ {
			if err := r.Push(ctx, i); err != nil {
				t.Errorf("Push(%d): %v", i, err)
				return
			}
		}
	}()

	next := 0
	for {
		v, err := r.Pop(ctx)
		if errors.Is(err, ErrPeerGone) {
			break
		}
		if err != nil {
			t.Fatalf("Pop: %v", err)
		}
		if v != next {
			t.Fatalf("Pop() = %d, want %d", v, next)
		}
		next++
	}
	wg.Wait()

	if next != n {
		t.Errorf("received %d items, want %d", next, n)
	}
}
