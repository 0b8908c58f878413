package padship_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bft-labs/padship/pkg/padship"
)

// orderedPlugin records Initialize and Shutdown calls into a shared log.
type orderedPlugin struct {
	padship.BasePlugin
	name      string
	calls     *callLog
	initErr   error
	initPanic bool
	initState padship.State
}

type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (c *callLog) add(s string) {
	c.mu.Lock()
	c.calls = append(c.calls, s)
	c.mu.Unlock()
}

func (c *callLog) list() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func (p *orderedPlugin) Name() string { return p.name }

func (p *orderedPlugin) Initialize(ctx context.Context, cfg padship.PluginConfig) error {
	if p.initPanic {
		panic("boom")
	}
	p.calls.add("init:" + p.name)
	p.initState = cfg.Host.Status()
	return p.initErr
}

func (p *orderedPlugin) Shutdown(ctx context.Context) error {
	p.calls.add("shutdown:" + p.name)
	return nil
}

func idleServer(t *testing.T, opts ...padship.Option) *padship.Padship {
	t.Helper()
	idle := padship.SamplerFunc(func(context.Context) (padship.GamepadState, padship.MouseState, error) {
		return padship.GamepadState{}, padship.MouseState{}, nil
	})
	p, err := padship.New(padship.Config{Role: padship.RoleServer, Addr: "127.0.0.1:0"},
		append([]padship.Option{padship.WithSampler(idle)}, opts...)...)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	return p
}

func TestPlugins_InitAndShutdownOrder(t *testing.T) {
	calls := &callLog{}
	first := &orderedPlugin{name: "first", calls: calls}
	second := &orderedPlugin{name: "second", calls: calls}

	p := idleServer(t, padship.WithPlugin(first), padship.WithPlugin(second))
	if err := p.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if first.initState != padship.StateStarting {
		t.Errorf("state during Initialize = %v, want Starting", first.initState)
	}
	if err := p.Stop(); err != nil {
		t.Fatal(err)
	}

	want := []string{"init:first", "init:second", "shutdown:second", "shutdown:first"}
	got := calls.list()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestPlugins_InitFailure(t *testing.T) {
	calls := &callLog{}
	errInit := errors.New("init failed")
	ok := &orderedPlugin{name: "ok", calls: calls}
	bad := &orderedPlugin{name: "bad", calls: calls, initErr: errInit}
	never := &orderedPlugin{name: "never", calls: calls}

	p := idleServer(t, padship.WithPlugin(ok), padship.WithPlugin(bad), padship.WithPlugin(never))
	if err := p.Start(context.Background()); !errors.Is(err, errInit) {
		t.Fatalf("Start() = %v, want %v", err, errInit)
	}
	if p.Status() != padship.StateCrashed {
		t.Errorf("Status() = %v, want Crashed", p.Status())
	}

	want := []string{"init:ok", "init:bad", "shutdown:ok"}
	got := calls.list()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestPlugins_PanicRecovered(t *testing.T) {
	logger := &testLogger{}
	p := idleServer(t,
		padship.WithLogger(logger),
		padship.WithPlugin(&orderedPlugin{name: "panicky", calls: &callLog{}, initPanic: true}),
	)

	err := p.Start(context.Background())
	if err == nil || !strings.Contains(err.Error(), "panicked") {
		t.Fatalf("Start() = %v, want panic error", err)
	}

	found := false
	for _, m := range logger.Messages() {
		if m == "ERROR: plugin initialization failed" {
			found = true
		}
	}
	if !found {
		t.Errorf("missing init failure log, got %v", logger.Messages())
	}
}

func TestPlugins_ShutdownOnSelfStop(t *testing.T) {
	calls := &callLog{}
	sampler := padship.SamplerFunc(func(context.Context) (padship.GamepadState, padship.MouseState, error) {
		return padship.GamepadState{}, padship.MouseState{}, errEOF
	})
	p, err := padship.New(padship.Config{Role: padship.RoleServer, Addr: "127.0.0.1:0"},
		padship.WithSampler(sampler),
		padship.WithPlugin(&orderedPlugin{name: "watch", calls: calls}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	conn, err := dialLocal(p.Session().Addr)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	waitDone(t, p)
	deadline := time.Now().Add(2 * time.Second)
	for p.Status() != padship.StateStopped {
		if time.Now().After(deadline) {
			t.Fatalf("Status() = %v, want Stopped", p.Status())
		}
		time.Sleep(5 * time.Millisecond)
	}

	want := []string{"init:watch", "shutdown:watch"}
	if got := calls.list(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestEventHandler_StateChanges(t *testing.T) {
	tracker := &sessionTracker{}
	p := idleServer(t, padship.WithEventHandler(tracker))

	if err := p.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := p.Stop(); err != nil {
		t.Fatal(err)
	}

	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	want := []padship.State{padship.StateStarting, padship.StateRunning, padship.StateStopping, padship.StateStopped}
	if len(tracker.states) != len(want) {
		t.Fatalf("got %d state changes, want %d", len(tracker.states), len(want))
	}
	for i, ev := range tracker.states {
		if ev.Current != want[i] {
			t.Errorf("state change %d = %v, want %v", i, ev.Current, want[i])
		}
	}
	if len(tracker.sessions) == 0 || tracker.sessions[0].Current != "Listening" {
		t.Errorf("first session change = %+v, want Listening", tracker.sessions)
	}
}
