// Package resilience provides a circuit breaker for the optional side
// stores (object storage, cache) so a flapping dependency cannot slow
// down every analysis request.
package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State represents the state of a breaker
type State int32

const (
	// StateClosed - calls flow normally
	StateClosed State = iota
	// StateOpen - calls are rejected immediately
	StateOpen
	// StateHalfOpen - a limited number of probe calls are let through
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrOpen is returned when the breaker rejects a call
var ErrOpen = errors.New("circuit breaker is open")

// BreakerConfig holds breaker tuning knobs
type BreakerConfig struct {
	// Name identifies the guarded dependency in logs
	Name string

	// FailureThreshold is the number of consecutive failures that opens
	// the breaker
	FailureThreshold uint32

	// Cooldown is how long the breaker stays open before probing again
	Cooldown time.Duration

	// MaxProbes is the number of calls allowed through in half-open state
	MaxProbes uint32

	// OnStateChange is called whenever the state changes
	OnStateChange func(name string, from, to State)
}

// DefaultBreakerConfig returns defaults suited to a best-effort side store
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		FailureThreshold: 5,
		Cooldown:         30 * time.Second,
		MaxProbes:        1,
	}
}

// Breaker is a consecutive-failure circuit breaker. It trips open after
// FailureThreshold failures in a row, rejects calls for Cooldown, then
// lets MaxProbes calls through; one success closes it again.
type Breaker struct {
	name          string
	threshold     uint32
	cooldown      time.Duration
	maxProbes     uint32
	onStateChange func(name string, from, to State)

	mu       sync.Mutex
	state    State
	failures uint32
	openedAt time.Time
	inFlight uint32
}

// NewBreaker creates a breaker from config, applying defaults for zero values
func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.Cooldown == 0 {
		cfg.Cooldown = 30 * time.Second
	}
	if cfg.MaxProbes == 0 {
		cfg.MaxProbes = 1
	}
	return &Breaker{
		name:          cfg.Name,
		threshold:     cfg.FailureThreshold,
		cooldown:      cfg.Cooldown,
		maxProbes:     cfg.MaxProbes,
		onStateChange: cfg.OnStateChange,
	}
}

// Name returns the breaker's dependency name
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current state
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentState(time.Now())
}

// Do runs fn if the breaker allows it. A rejected call returns ErrOpen
// without invoking fn; fn's own error is passed through.
func (b *Breaker) Do(ctx context.Context, fn func(context.Context) error) error {
	if err := b.before(); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		b.after(false)
		return err
	}

	err := fn(ctx)
	b.after(err == nil)
	return err
}

func (b *Breaker) before() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.currentState(time.Now()) {
	case StateOpen:
		return ErrOpen
	case StateHalfOpen:
		if b.inFlight >= b.maxProbes {
			return ErrOpen
		}
		b.inFlight++
	}
	return nil
}

func (b *Breaker) after(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	state := b.currentState(now)

	if state == StateHalfOpen && b.inFlight > 0 {
		b.inFlight--
	}

	if success {
		b.failures = 0
		if state == StateHalfOpen {
			b.setState(StateClosed, now)
		}
		return
	}

	b.failures++
	switch state {
	case StateClosed:
		if b.failures >= b.threshold {
			b.setState(StateOpen, now)
		}
	case StateHalfOpen:
		// A failed probe reopens immediately
		b.setState(StateOpen, now)
	}
}

// currentState must be called with the lock held
func (b *Breaker) currentState(now time.Time) State {
	if b.state == StateOpen && now.Sub(b.openedAt) >= b.cooldown {
		b.setState(StateHalfOpen, now)
	}
	return b.state
}

// setState must be called with the lock held
func (b *Breaker) setState(next State, now time.Time) {
	if b.state == next {
		return
	}
	prev := b.state
	b.state = next

	switch next {
	case StateOpen:
		b.openedAt = now
		b.inFlight = 0
	case StateClosed:
		b.failures = 0
		b.inFlight = 0
	case StateHalfOpen:
		b.inFlight = 0
	}

	if b.onStateChange != nil {
		b.onStateChange(b.name, prev, next)
	}
}
