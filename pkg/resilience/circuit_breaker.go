// SPDX-License-Identifier: Apache-2.0
package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/jllopis/resolver/pkg/errors"
)

// CircuitBreakerState represents the state of a circuit breaker.
type CircuitBreakerState string

const (
	// StateClosed lets calls through.
	StateClosed CircuitBreakerState = "closed"

	// StateOpen rejects calls without running them.
	StateOpen CircuitBreakerState = "open"

	// StateHalfOpen lets calls through to probe for recovery.
	StateHalfOpen CircuitBreakerState = "half-open"
)

// CircuitBreakerConfig configures a circuit breaker.
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens the circuit.
	FailureThreshold int

	// SuccessThreshold is the number of half-open successes that closes it again.
	SuccessThreshold int

	// Cooldown is how long the circuit stays open before probing.
	Cooldown time.Duration

	// Name identifies the breaker in errors.
	Name string
}

// CircuitBreaker stops calling a failing dependency for a cooldown period.
// Calls are not serialized; only the bookkeeping is locked.
type CircuitBreaker struct {
	config   CircuitBreakerConfig
	now      func() time.Time
	mu       sync.Mutex
	state    CircuitBreakerState
	failures int
	success  int
	openedAt time.Time
}

// NewCircuitBreaker creates a closed circuit breaker.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.FailureThreshold < 1 {
		config.FailureThreshold = 5
	}
	if config.SuccessThreshold < 1 {
		config.SuccessThreshold = 2
	}
	if config.Cooldown <= 0 {
		config.Cooldown = 30 * time.Second
	}
	if config.Name == "" {
		config.Name = "circuit_breaker"
	}
	return &CircuitBreaker{config: config, now: time.Now, state: StateClosed}
}

// Call runs fn unless the circuit is open. An open circuit returns a
// recoverable CodeUnavailable error; otherwise fn's error is returned as is.
func (cb *CircuitBreaker) Call(ctx context.Context, fn func(context.Context) error) error {
	if !cb.allow() {
		return errors.New(errors.CodeUnavailable, "circuit breaker open", nil).
			WithContext("breaker", cb.config.Name).
			WithRecoverable(true)
	}
	err := fn(ctx)
	cb.record(err)
	return err
}

func (cb *CircuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == StateOpen && cb.now().Sub(cb.openedAt) >= cb.config.Cooldown {
		cb.state = StateHalfOpen
		cb.success = 0
	}
	return cb.state != StateOpen
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.failures++
		if cb.state == StateHalfOpen || cb.failures >= cb.config.FailureThreshold {
			cb.trip()
		}
		return
	}

	cb.failures = 0
	if cb.state == StateHalfOpen {
		cb.success++
		if cb.success >= cb.config.SuccessThreshold {
			cb.state = StateClosed
			cb.success = 0
		}
	}
}

// trip must be called with mu held.
func (cb *CircuitBreaker) trip() {
	cb.state = StateOpen
	cb.openedAt = cb.now()
	cb.failures = 0
	cb.success = 0
}

// State returns the current state. An open breaker whose cooldown elapsed
// still reports open until the next call probes it.
func (cb *CircuitBreaker) State() CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Reset closes the breaker.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = StateClosed
	cb.failures = 0
	cb.success = 0
}

// Open forces the breaker open for a full cooldown.
func (cb *CircuitBreaker) Open() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.trip()
}
