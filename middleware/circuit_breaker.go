package middleware

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shrek82/stationd/executor"
)

// ErrCircuitOpen is returned while the breaker refuses batches.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

// CircuitBreakerMiddleware refuses batches after repeated total failures.
// A batch counts as failed when the dispatcher refused it or when every
// statement in a non-empty batch failed, which is what a dead database
// looks like from here. Partial failures keep the circuit closed.
type CircuitBreakerMiddleware struct {
	Threshold    int           // consecutive failures before opening
	ResetTimeout time.Duration // wait before probing with one batch

	mu             sync.Mutex
	state          State
	failures       int
	lastFailure    time.Time
	halfOpenProbed bool
}

func NewCircuitBreaker(threshold int, resetTimeout time.Duration) *CircuitBreakerMiddleware {
	return &CircuitBreakerMiddleware{
		Threshold:    threshold,
		ResetTimeout: resetTimeout,
		state:        StateClosed,
	}
}

func (m *CircuitBreakerMiddleware) Name() string { return "CircuitBreaker" }

func (m *CircuitBreakerMiddleware) Init(e *executor.Executor) error { return nil }

func (m *CircuitBreakerMiddleware) Shutdown() error { return nil }

// State returns the current breaker state.
func (m *CircuitBreakerMiddleware) CurrentState() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *CircuitBreakerMiddleware) Process(ctx context.Context, batch *executor.Batch, next executor.BatchFunc) ([]executor.Outcome, error) {
	m.mu.Lock()
	switch m.state {
	case StateOpen:
		if time.Since(m.lastFailure) > m.ResetTimeout {
			m.state = StateHalfOpen
			m.halfOpenProbed = false
		} else {
			m.mu.Unlock()
			return nil, ErrCircuitOpen
		}
	case StateHalfOpen:
		if m.halfOpenProbed {
			m.mu.Unlock()
			return nil, ErrCircuitOpen
		}
	}
	if m.state == StateHalfOpen {
		m.halfOpenProbed = true
	}
	m.mu.Unlock()

	outcomes, err := next(ctx, batch)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil || totalFailure(outcomes) {
		m.failures++
		m.lastFailure = time.Now()
		if m.state == StateHalfOpen || m.failures >= m.Threshold {
			m.state = StateOpen
		}
	} else {
		m.failures = 0
		m.state = StateClosed
	}
	return outcomes, err
}

func totalFailure(outcomes []executor.Outcome) bool {
	if len(outcomes) == 0 {
		return false
	}
	for _, out := range outcomes {
		if out.Success {
			return false
		}
	}
	return true
}
