package stdio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/bft-labs/padship/internal/domain"
	"github.com/bft-labs/padship/pkg/log"
)

// sampleUntil polls s until cond holds or the deadline passes.
func sampleUntil(t *testing.T, s *Sampler, cond func(domain.GamepadState, domain.MouseState, error) bool) (domain.GamepadState, domain.MouseState, error) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		gp, m, err := s.Sample(context.Background())
		if cond(gp, m, err) {
			return gp, m, err
		}
		if time.Now().After(deadline) {
			t.Fatalf("condition not met; last sample %v %v %v", gp, m, err)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestSampler_AccumulatesUntilSampled(t *testing.T) {
	input := strings.Join([]string{
		`{"gamepad":{"buttons":4096,"thumb_lx":100,"thumb_ly":-100}}`,
		`{"mouse":{"x":100,"y":-2,"buttons":1}}`,
		``,
		`not json`,
		`{"mouse":{"x":100,"y":-1,"buttons":1,"scroll":2}}`,
	}, "\n")
	s := NewSampler(strings.NewReader(input), log.Discard)

	// Wait until the whole stream has been read, so everything above has
	// been folded into a single sample.
	s.start.Do(func() { go s.read() })
	deadline := time.Now().Add(2 * time.Second)
	for {
		s.mu.Lock()
		done := s.err != nil
		s.mu.Unlock()
		if done {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("reader did not finish")
		}
		time.Sleep(time.Millisecond)
	}

	gp, m, err := s.Sample(context.Background())
	if err != nil {
		t.Fatalf("Sample() = %v", err)
	}
	if want := (domain.GamepadState{Buttons: 0x1000, ThumbLX: 100, ThumbLY: -100}); gp != want {
		t.Errorf("gamepad = %v, want %v", gp, want)
	}
	if want := (domain.MouseState{X: 127, Y: -3, Buttons: 1, Scroll: 2}); m != want {
		t.Errorf("mouse = %v, want %v", m, want)
	}

	if _, _, err := s.Sample(context.Background()); !errors.Is(err, io.EOF) {
		t.Errorf("Sample() after drain = %v, want io.EOF", err)
	}
}

func TestSampler_DeltasResetButtonsStick(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	s := NewSampler(pr, log.Discard)

	go func() { _, _ = io.WriteString(pw, `{"mouse":{"x":4,"buttons":2}}`+"\n") }()
	sampleUntil(t, s, func(_ domain.GamepadState, m domain.MouseState, _ error) bool {
		return m.X == 4
	})

	_, m, err := s.Sample(context.Background())
	if err != nil {
		t.Fatalf("Sample() = %v", err)
	}
	if want := (domain.MouseState{Buttons: 2}); m != want {
		t.Errorf("second sample = %v, want %v", m, want)
	}
}

func TestSampler_ReadError(t *testing.T) {
	boom := errors.New("boom")
	s := NewSampler(iotest.ErrReader(boom), log.Discard)

	_, _, err := sampleUntil(t, s, func(_ domain.GamepadState, _ domain.MouseState, err error) bool {
		return err != nil
	})
	if !errors.Is(err, io.EOF) || !errors.Is(err, boom) {
		t.Errorf("Sample() = %v, want io.EOF wrapping boom", err)
	}
}

func TestSampler_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewSampler(strings.NewReader(""), log.Discard)
	if _, _, err := s.Sample(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Sample() = %v, want context.Canceled", err)
	}
}

func TestSink_Deliver(t *testing.T) {
	var buf bytes.Buffer
	s := NewSink(&buf)
	ctx := context.Background()

	events := []domain.Event{
		domain.TimestampEvent(1700000000000),
		domain.GamepadEvent(domain.GamepadState{Buttons: domain.ButtonA, LeftTrigger: 255}),
		domain.MouseEvent(domain.MouseState{X: 3, Y: -2, Buttons: 1}),
	}
	for _, ev := range events {
		if err := s.Deliver(ctx, ev); err != nil {
			t.Fatalf("Deliver(%v) = %v", ev, err)
		}
	}

	want := `{"kind":"timestamp","timestamp":1700000000000}
{"kind":"gamepad","gamepad":{"buttons":4096,"left_trigger":255,"right_trigger":0,"thumb_lx":0,"thumb_ly":0,"thumb_rx":0,"thumb_ry":0}}
{"kind":"mouse","mouse":{"x":3,"y":-2,"buttons":1,"scroll":0}}
`
	if got := buf.String(); got != want {
		t.Errorf("output =\n%s\nwant\n%s", got, want)
	}
}

func TestSink_WriteError(t *testing.T) {
	s := NewSink(errWriter{})
	if err := s.Deliver(context.Background(), domain.TimestampEvent(1)); err == nil {
		t.Error("Deliver() to a failing writer succeeded")
	}
}

type errWriter struct{}

func (errWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }
