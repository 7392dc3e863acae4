package core

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lumo-app/lumo/internal/process"
)

// recordHandler is a slog.Handler that keeps every record for inspection.
type recordHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *recordHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordHandler) WithGroup(string) slog.Handler      { return h }

// count returns how many records were logged at level.
func (h *recordHandler) count(level slog.Level) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, r := range h.records {
		if r.Level == level {
			n++
		}
	}
	return n
}

// has reports whether a record with msg was logged at level.
func (h *recordHandler) has(level slog.Level, msg string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, r := range h.records {
		if r.Level == level && r.Message == msg {
			return true
		}
	}
	return false
}

// captureLogs routes the package logger into a recordHandler for the rest
// of the test. Tests calling it must not be parallel.
func captureLogs(t *testing.T) *recordHandler {
	t.Helper()
	h := &recordHandler{}
	SetLogger(slog.New(h))
	t.Cleanup(func() { SetLogger(nil) })
	return h
}

type fakeChild struct {
	pid     int
	port    int
	exited  chan struct{}
	killErr error
	kills   atomic.Int32
}

func newFakeChild(pid int) *fakeChild {
	return &fakeChild{pid: pid, exited: make(chan struct{})}
}

func (c *fakeChild) PID() int                { return c.pid }
func (c *fakeChild) Port() int               { return c.port }
func (c *fakeChild) Exited() <-chan struct{} { return c.exited }

func (c *fakeChild) Kill() error {
	c.kills.Add(1)
	return c.killErr
}

type fakeSpawner struct {
	mu    sync.Mutex
	reqs  []process.Request
	child *fakeChild
	err   error
}

func (s *fakeSpawner) Spawn(_ context.Context, req process.Request) (process.Child, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reqs = append(s.reqs, req)
	if s.err != nil {
		return nil, s.err
	}
	return s.child, nil
}

func (s *fakeSpawner) requests() []process.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]process.Request(nil), s.reqs...)
}

func testConfig() SupervisorConfig {
	return SupervisorConfig{
		SidecarName:     "lumo-server",
		DBFileName:      "lumo.db",
		DBPathEnv:       "LUMO_DB_PATH",
		FallbackDirName: ".lumo",
		AppIdentifier:   "app.lumo.test",
		Policy:          SpawnAlways,
		StopTimeout:     time.Second,
	}
}

func fixedDir(dir string) DataDirFunc {
	return func() (string, error) { return dir, nil }
}

// waitStartTask blocks until the background start task launched by OnStart
// has finished.
func waitStartTask(t *testing.T, s *Supervisor) {
	t.Helper()
	done := s.startTask()
	if done == nil {
		t.Fatal("no start task was launched")
	}
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("start task did not finish")
	}
}
