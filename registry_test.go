package failover

import (
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

func TestRegistry_LazyCreation(t *testing.T) {
	r := NewRegistry(BreakerConfig{})

	if got := len(r.States()); got != 0 {
		t.Errorf("new registry has %d breakers, want 0", got)
	}

	b := r.For("gpt-4")
	if b == nil {
		t.Fatal("For() returned nil")
	}
	if got := len(r.States()); got != 1 {
		t.Errorf("registry has %d breakers after For, want 1", got)
	}
}

func TestRegistry_SameInstancePerID(t *testing.T) {
	r := NewRegistry(BreakerConfig{})

	if r.For("a") != r.For("a") {
		t.Error("For() returned different breakers for the same id")
	}
	if r.For("a") == r.For("b") {
		t.Error("For() returned the same breaker for different ids")
	}
}

func TestRegistry_ConcurrentForNoLostUpdates(t *testing.T) {
	r := NewRegistry(BreakerConfig{})

	breakers := make([]*Breaker, 50)
	var g errgroup.Group
	for i := 0; i < 50; i++ {
		g.Go(func() error {
			breakers[i] = r.For("shared")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	for i := 1; i < len(breakers); i++ {
		if breakers[i] != breakers[0] {
			t.Fatal("concurrent For() created more than one breaker for one id")
		}
	}
}

func TestRegistry_States(t *testing.T) {
	clock := newFakeClock()
	r := NewRegistry(BreakerConfig{FailureThreshold: 1, Cooldown: time.Minute, Clock: clock})

	r.For("healthy")
	r.For("broken").RecordFailure()

	states := r.States()
	if states["healthy"] != StateClosed {
		t.Errorf("States()[healthy] = %v, want closed", states["healthy"])
	}
	if states["broken"] != StateOpen {
		t.Errorf("States()[broken] = %v, want open", states["broken"])
	}
}

func TestRegistry_ResetAll(t *testing.T) {
	clock := newFakeClock()
	r := NewRegistry(BreakerConfig{FailureThreshold: 1, Cooldown: time.Minute, Clock: clock})

	r.For("a").RecordFailure()
	r.For("b").RecordFailure()

	r.ResetAll()

	for id, state := range r.States() {
		if state != StateClosed {
			t.Errorf("States()[%s] = %v after ResetAll, want closed", id, state)
		}
	}
}

func TestRegistry_SharedStateAcrossExecutions(t *testing.T) {
	clock := newFakeClock()
	r := NewRegistry(BreakerConfig{FailureThreshold: 2, Cooldown: time.Minute, Clock: clock})

	// Two "executions" fail the same backend once each; the breaker
	// opens because state is shared per backend id.
	r.For("shared").RecordFailure()
	r.For("shared").RecordFailure()

	if !r.For("other").Allow() {
		t.Error("unrelated backend affected by shared backend failures")
	}
	if r.For("shared").Allow() {
		t.Error("shared breaker should be open after threshold failures")
	}
}
