package lockdown

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ActivatedByAuto marks lockdowns started by the join-burst detector.
const ActivatedByAuto = "auto"

const DefaultAutoExpiry = 5 * time.Minute

type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type Timer interface {
	Stop() bool
}

type realClock struct{}

type realTimer struct{ t *time.Timer }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return realTimer{t: time.AfterFunc(d, f)}
}

func (t realTimer) Stop() bool { return t.t.Stop() }

// RealClock returns the wall clock.
func RealClock() Clock { return realClock{} }

type Config struct {
	// AutoExpiry bounds automatic lockdowns. Manual lockdowns never expire.
	AutoExpiry time.Duration
}

// State describes an active lockdown. It only exists while the lockdown does.
type State struct {
	IncidentID         string
	GuildID            string
	ActivatedAt        time.Time
	ActivatedBy        string
	Manual             bool
	ThresholdAtTrigger int
}

func (s State) Elapsed(now time.Time) time.Duration {
	return now.Sub(s.ActivatedAt)
}

type entry struct {
	state State
	timer Timer
}

type Engine struct {
	mu       sync.Mutex
	cfg      Config
	clock    Clock
	logger   *zap.Logger
	states   map[string]*entry
	onExpire func(State)
}

func New(cfg Config, logger *zap.Logger) *Engine {
	if cfg.AutoExpiry <= 0 {
		cfg.AutoExpiry = DefaultAutoExpiry
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:    cfg,
		clock:  realClock{},
		logger: logger,
		states: make(map[string]*entry),
	}
}

func (e *Engine) WithClock(clock Clock) {
	e.clock = clock
}

// OnExpire registers a callback run after an automatic lockdown expires.
func (e *Engine) OnExpire(fn func(State)) {
	e.mu.Lock()
	e.onExpire = fn
	e.mu.Unlock()
}

// Activate starts a lockdown. It returns the active state and false when the
// guild is already locked down; a second activation never schedules a timer.
func (e *Engine) Activate(ctx context.Context, guildID, by string, manual bool, threshold int) (State, bool) {
	e.mu.Lock()
	if current, ok := e.states[guildID]; ok {
		e.mu.Unlock()
		return current.state, false
	}

	state := State{
		IncidentID:         uuid.NewString(),
		GuildID:            guildID,
		ActivatedAt:        e.clock.Now(),
		ActivatedBy:        by,
		Manual:             manual,
		ThresholdAtTrigger: threshold,
	}
	current := &entry{state: state}
	e.states[guildID] = current
	if !manual {
		incident := state.IncidentID
		current.timer = e.clock.AfterFunc(e.cfg.AutoExpiry, func() {
			e.expire(guildID, incident)
		})
	}
	e.mu.Unlock()

	e.logger.Warn("lockdown activated",
		zap.String("guild_id", guildID),
		zap.String("incident_id", state.IncidentID),
		zap.String("activated_by", by),
		zap.Bool("manual", manual),
		zap.Int("threshold", threshold),
	)
	return state, true
}

// Deactivate ends the lockdown and cancels its expiry timer. It returns false
// when the guild was not locked down.
func (e *Engine) Deactivate(ctx context.Context, guildID string) (State, bool) {
	e.mu.Lock()
	current, ok := e.states[guildID]
	if !ok {
		e.mu.Unlock()
		return State{}, false
	}
	delete(e.states, guildID)
	if current.timer != nil {
		current.timer.Stop()
	}
	e.mu.Unlock()

	e.logger.Info("lockdown deactivated",
		zap.String("guild_id", guildID),
		zap.String("incident_id", current.state.IncidentID),
		zap.Duration("elapsed", current.state.Elapsed(e.clock.Now())),
	)
	return current.state, true
}

func (e *Engine) Status(guildID string) (State, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	current, ok := e.states[guildID]
	if !ok {
		return State{}, false
	}
	return current.state, true
}

func (e *Engine) IsActive(guildID string) bool {
	_, ok := e.Status(guildID)
	return ok
}

// Close stops every pending expiry timer.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, current := range e.states {
		if current.timer != nil {
			current.timer.Stop()
		}
	}
}

func (e *Engine) expire(guildID, incidentID string) {
	e.mu.Lock()
	current, ok := e.states[guildID]
	if !ok || current.state.IncidentID != incidentID {
		e.mu.Unlock()
		return
	}
	delete(e.states, guildID)
	onExpire := e.onExpire
	e.mu.Unlock()

	e.logger.Info("lockdown expired",
		zap.String("guild_id", guildID),
		zap.String("incident_id", incidentID),
	)
	if onExpire != nil {
		onExpire(current.state)
	}
}
