package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

var ErrOpen = errors.New("circuit open")

type State int

const (
	StateClosed   State = iota // Normal operation
	StateOpen                  // Rejecting calls
	StateHalfOpen              // Letting calls probe the upstream
)

// ChangeFunc is called after every state transition, outside the lock.
type ChangeFunc func(from, to State)

type CircuitBreaker struct {
	mutex            sync.Mutex
	state            State
	failures         int
	lastFailure      time.Time
	failureThreshold int
	resetTimeout     time.Duration
	onChange         ChangeFunc
}

func NewCircuitBreaker(threshold int, timeout time.Duration, onChange ChangeFunc) *CircuitBreaker {
	return &CircuitBreaker{
		state:            StateClosed,
		failureThreshold: threshold,
		resetTimeout:     timeout,
		onChange:         onChange,
	}
}

// Enabled reports whether the breaker ever rejects calls.
func (cb *CircuitBreaker) Enabled() bool {
	return cb.failureThreshold > 0
}

func (cb *CircuitBreaker) Allow() bool {
	if !cb.Enabled() {
		return true
	}

	cb.mutex.Lock()
	from := cb.state
	allowed := true

	if cb.state == StateOpen {
		if time.Since(cb.lastFailure) >= cb.resetTimeout {
			cb.state = StateHalfOpen
		} else {
			allowed = false
		}
	}

	to := cb.state
	cb.mutex.Unlock()

	cb.notify(from, to)
	return allowed
}

func (cb *CircuitBreaker) RecordFailure() {
	if !cb.Enabled() {
		return
	}

	cb.mutex.Lock()
	from := cb.state

	cb.failures++
	cb.lastFailure = time.Now()

	if cb.state == StateHalfOpen || cb.failures >= cb.failureThreshold {
		cb.state = StateOpen
	}

	to := cb.state
	cb.mutex.Unlock()

	cb.notify(from, to)
}

func (cb *CircuitBreaker) RecordSuccess() {
	if !cb.Enabled() {
		return
	}

	cb.mutex.Lock()
	from := cb.state

	cb.failures = 0
	cb.state = StateClosed

	cb.mutex.Unlock()

	cb.notify(from, StateClosed)
}

func (cb *CircuitBreaker) State() State {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) notify(from, to State) {
	if from != to && cb.onChange != nil {
		cb.onChange(from, to)
	}
}

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF-OPEN"
	default:
		return "UNKNOWN"
	}
}
