package configwatcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bft-labs/padship/pkg/log"
	"github.com/bft-labs/padship/pkg/padship"
)

// fakeHost records SetSampleInterval calls.
type fakeHost struct {
	mu        sync.Mutex
	intervals []time.Duration
}

func (h *fakeHost) Status() padship.State        { return padship.StateRunning }
func (h *fakeHost) Session() padship.SessionInfo { return padship.SessionInfo{} }

func (h *fakeHost) SetSampleInterval(d time.Duration) {
	h.mu.Lock()
	h.intervals = append(h.intervals, d)
	h.mu.Unlock()
}

func (h *fakeHost) last() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.intervals) == 0 {
		return 0
	}
	return h.intervals[len(h.intervals)-1]
}

func (h *fakeHost) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.intervals)
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func startPlugin(t *testing.T, path string) (*Plugin, *fakeHost) {
	t.Helper()
	host := &fakeHost{}
	p := New(Config{Path: path, DebounceDelay: 10 * time.Millisecond})
	err := p.Initialize(context.Background(), padship.PluginConfig{
		Logger: log.Discard,
		Host:   host,
	})
	if err != nil {
		t.Fatalf("Initialize() = %v", err)
	}
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })
	return p, host
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPlugin_ReloadsSampleInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, path, "sample_interval = \"3ms\"\n")

	p, host := startPlugin(t, path)

	writeConfig(t, path, "sample_interval = \"8ms\"\n")
	waitFor(t, "reload", func() bool { return host.last() == 8*time.Millisecond })

	if p.Reloads() == 0 {
		t.Error("Reloads() = 0 after a change")
	}
}

func TestPlugin_UnchangedIntervalNotReapplied(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, path, "sample_interval = \"3ms\"\n")

	p, host := startPlugin(t, path)

	writeConfig(t, path, "sample_interval = \"3ms\"\nlog_level = \"debug\"\n")
	waitFor(t, "reload", func() bool { return p.Reloads() > 0 })

	if host.count() != 0 {
		t.Errorf("SetSampleInterval called %d times, want 0", host.count())
	}
}

func TestPlugin_InvalidFileKeepsSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, path, "sample_interval = \"3ms\"\n")

	p, host := startPlugin(t, path)

	writeConfig(t, path, "sample_interval = [\n")
	time.Sleep(100 * time.Millisecond)
	if p.Reloads() != 0 || host.count() != 0 {
		t.Errorf("broken file applied: reloads=%d calls=%d", p.Reloads(), host.count())
	}

	writeConfig(t, path, "sample_interval = \"nonsense\"\n")
	waitFor(t, "reload", func() bool { return p.Reloads() > 0 })
	if host.count() != 0 {
		t.Errorf("invalid duration applied: %v", host.last())
	}
}

func TestPlugin_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	writeConfig(t, path, "sample_interval = \"3ms\"\n")

	p, _ := startPlugin(t, path)

	writeConfig(t, filepath.Join(dir, "other.toml"), "sample_interval = \"9ms\"\n")
	time.Sleep(100 * time.Millisecond)
	if p.Reloads() != 0 {
		t.Errorf("Reloads() = %d after unrelated write", p.Reloads())
	}
}

func TestPlugin_MissingFileDisables(t *testing.T) {
	p := New(Config{Path: filepath.Join(t.TempDir(), "absent.toml")})
	if err := p.Initialize(context.Background(), padship.PluginConfig{Logger: log.Discard}); err != nil {
		t.Fatalf("Initialize() = %v", err)
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() = %v", err)
	}
}

func TestPlugin_Defaults(t *testing.T) {
	p := New(Config{})
	if p.debounceDelay != 100*time.Millisecond {
		t.Errorf("debounceDelay = %v, want 100ms", p.debounceDelay)
	}
	if p.Name() != "configwatcher" {
		t.Errorf("Name() = %q", p.Name())
	}
}
