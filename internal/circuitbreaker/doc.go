// Package circuitbreaker implements the circuit breaker pattern for the
// upstream manifest resolver.
//
// A circuit breaker stops sending work to an upstream that keeps failing and
// fails fast instead. It has three states:
//
//   - CLOSED: Normal operation, calls pass through
//   - OPEN: Upstream failing, calls rejected
//   - HALF-OPEN: Testing if the upstream recovered
//
// A breaker built with a threshold below 1 is disabled: it always allows
// calls and never changes state.
//
// Usage:
//
//	cb := circuitbreaker.NewCircuitBreaker(5, 30*time.Second, nil)
//	if cb.Allow() {
//	    // Make call...
//	    if err != nil {
//	        cb.RecordFailure()
//	    } else {
//	        cb.RecordSuccess()
//	    }
//	}
package circuitbreaker
