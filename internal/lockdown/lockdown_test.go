package lockdown

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeTimer struct {
	stopped bool
	fn      func()
}

func (t *fakeTimer) Stop() bool {
	t.stopped = true
	return true
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
	delays []time.Duration
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTimer{fn: fn}
	f.timers = append(f.timers, t)
	f.delays = append(f.delays, d)
	return t
}

// Advance fires every pending timer that was not stopped.
func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	pending := append([]*fakeTimer{}, f.timers...)
	f.timers = nil
	f.mu.Unlock()
	for _, timer := range pending {
		if !timer.stopped {
			timer.fn()
		}
	}
}

func newTestEngine() (*Engine, *fakeClock) {
	engine := New(Config{}, zap.NewNop())
	clock := &fakeClock{now: time.Unix(0, 0)}
	engine.WithClock(clock)
	return engine, clock
}

func TestAutoLockdownExpires(t *testing.T) {
	engine, clock := newTestEngine()
	ctx := context.Background()

	var expired []State
	engine.OnExpire(func(state State) { expired = append(expired, state) })

	state, ok := engine.Activate(ctx, "g1", ActivatedByAuto, false, 10)
	if !ok {
		t.Fatalf("expected activation")
	}
	if state.IncidentID == "" || state.ThresholdAtTrigger != 10 {
		t.Fatalf("unexpected state: %+v", state)
	}
	if len(clock.delays) != 1 || clock.delays[0] != 5*time.Minute {
		t.Fatalf("expected one 5m timer, got %v", clock.delays)
	}

	clock.Advance(5 * time.Minute)
	if engine.IsActive("g1") {
		t.Fatalf("expected lockdown to expire")
	}
	if len(expired) != 1 || expired[0].IncidentID != state.IncidentID {
		t.Fatalf("expected expiry callback for incident, got %+v", expired)
	}
}

func TestSecondActivationDoesNotReschedule(t *testing.T) {
	engine, clock := newTestEngine()
	ctx := context.Background()

	first, _ := engine.Activate(ctx, "g1", ActivatedByAuto, false, 10)
	again, ok := engine.Activate(ctx, "g1", ActivatedByAuto, false, 10)
	if ok {
		t.Fatalf("expected second activation to be rejected")
	}
	if again.IncidentID != first.IncidentID {
		t.Fatalf("expected existing state to be returned")
	}
	if len(clock.delays) != 1 {
		t.Fatalf("expected exactly one timer, got %d", len(clock.delays))
	}
}

func TestManualLockdownHasNoTimer(t *testing.T) {
	engine, clock := newTestEngine()

	state, ok := engine.Activate(context.Background(), "g1", "u1", true, 0)
	if !ok || !state.Manual || state.ActivatedBy != "u1" {
		t.Fatalf("unexpected manual state: %+v", state)
	}
	if len(clock.delays) != 0 {
		t.Fatalf("manual lockdown must not schedule expiry")
	}
	clock.Advance(time.Hour)
	if !engine.IsActive("g1") {
		t.Fatalf("manual lockdown should persist")
	}
}

func TestDeactivateStopsTimer(t *testing.T) {
	engine, clock := newTestEngine()
	ctx := context.Background()

	engine.Activate(ctx, "g1", ActivatedByAuto, false, 10)
	timer := clock.timers[0]

	clock.mu.Lock()
	clock.now = clock.now.Add(2 * time.Minute)
	clock.mu.Unlock()

	state, ok := engine.Deactivate(ctx, "g1")
	if !ok {
		t.Fatalf("expected deactivation")
	}
	if !timer.stopped {
		t.Fatalf("expected timer to be stopped")
	}
	if elapsed := state.Elapsed(clock.Now()); elapsed != 2*time.Minute {
		t.Fatalf("expected 2m elapsed, got %s", elapsed)
	}
	clock.Advance(5 * time.Minute)
	if engine.IsActive("g1") {
		t.Fatalf("stopped timer must not reactivate anything")
	}
	if _, ok := engine.Deactivate(ctx, "g1"); ok {
		t.Fatalf("expected second deactivation to report inactive")
	}
}

func TestStaleTimerKeepsNewIncident(t *testing.T) {
	engine, clock := newTestEngine()
	ctx := context.Background()

	engine.Activate(ctx, "g1", ActivatedByAuto, false, 10)
	stale := clock.timers[0]
	engine.Deactivate(ctx, "g1")

	manual, _ := engine.Activate(ctx, "g1", "u1", true, 0)
	stale.fn()

	state, ok := engine.Status("g1")
	if !ok || state.IncidentID != manual.IncidentID {
		t.Fatalf("stale timer cleared a newer lockdown")
	}
}
