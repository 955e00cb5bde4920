package mgr

import (
	"errors"
	"testing"
	"time"
)

func TestGoAndWaitForWorkers(t *testing.T) {
	t.Parallel()

	m := New("test")
	defer m.Cancel()

	done := make(chan struct{})
	m.Go("test worker", func(w *WorkerCtx) error {
		select {
		case <-time.After(50 * time.Millisecond):
		case <-w.Done():
		}
		close(done)
		return nil
	})

	<-done
	if !m.WaitForWorkers(time.Second) {
		t.Fatal("worker did not finish in time")
	}
}

func TestDoPropagatesError(t *testing.T) {
	t.Parallel()

	m := New("test")
	defer m.Cancel()

	boom := errors.New("boom")
	err := m.Do("failing worker", func(_ *WorkerCtx) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

type testModule struct {
	mgr     *Manager
	started bool
	stopped bool
	failAt  error
}

func (t *testModule) Manager() *Manager { return t.mgr }

func (t *testModule) Start() error {
	if t.failAt != nil {
		return t.failAt
	}
	t.started = true
	return nil
}

func (t *testModule) Stop() error {
	t.stopped = true
	return nil
}

func TestGroupStartStop(t *testing.T) {
	t.Parallel()

	a := &testModule{mgr: New("a")}
	b := &testModule{mgr: New("b")}

	g := NewGroup(a, b)
	if err := g.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if !a.started || !b.started {
		t.Fatal("expected both modules to start")
	}
	if !g.Ready() {
		t.Fatal("expected group to be ready")
	}

	if err := g.Stop(); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if !a.stopped || !b.stopped {
		t.Fatal("expected both modules to stop")
	}
}

func TestGroupStopsStartedModulesOnFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	a := &testModule{mgr: New("a")}
	b := &testModule{mgr: New("b"), failAt: boom}

	g := NewGroup(a, b)
	err := g.Start()
	if err == nil {
		t.Fatal("expected start to fail")
	}
	if !a.stopped {
		t.Fatal("expected already-started module to be rolled back")
	}
}
