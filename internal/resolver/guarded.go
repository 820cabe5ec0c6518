package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/angeloszaimis/download-links/internal/circuitbreaker"
	"github.com/angeloszaimis/download-links/internal/links"
)

// Guarded fails fast while the breaker is open instead of calling next.
type Guarded struct {
	next    links.Resolver
	breaker *circuitbreaker.CircuitBreaker
}

func NewGuarded(next links.Resolver, breaker *circuitbreaker.CircuitBreaker) *Guarded {
	return &Guarded{
		next:    next,
		breaker: breaker,
	}
}

func (g *Guarded) Resolve(ctx context.Context, watchURL string) (links.Manifest, error) {
	if !g.breaker.Allow() {
		return links.Manifest{}, fmt.Errorf("upstream resolver unavailable: %w", circuitbreaker.ErrOpen)
	}

	manifest, err := g.next.Resolve(ctx, watchURL)
	switch {
	case err == nil:
		g.breaker.RecordSuccess()
	case errors.Is(err, context.Canceled):
		// caller went away; says nothing about the upstream
	default:
		g.breaker.RecordFailure()
	}

	return manifest, err
}
