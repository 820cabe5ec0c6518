package resolver_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/download-links/internal/circuitbreaker"
	"github.com/angeloszaimis/download-links/internal/links"
	"github.com/angeloszaimis/download-links/internal/resolver"
)

type stubResolver struct {
	calls int
	err   error
}

func (s *stubResolver) Resolve(context.Context, string) (links.Manifest, error) {
	s.calls++
	return links.Manifest{}, s.err
}

var _ = Describe("Guarded", func() {
	var (
		stub    *stubResolver
		breaker *circuitbreaker.CircuitBreaker
		guarded *resolver.Guarded
	)

	BeforeEach(func() {
		stub = &stubResolver{}
		breaker = circuitbreaker.NewCircuitBreaker(2, time.Minute, nil)
		guarded = resolver.NewGuarded(stub, breaker)
	})

	It("should pass calls through while closed", func() {
		_, err := guarded.Resolve(context.Background(), "u")
		Expect(err).NotTo(HaveOccurred())
		Expect(stub.calls).To(Equal(1))
	})

	It("should fail fast once the breaker opens", func() {
		stub.err = errors.New("Video unavailable")
		guarded.Resolve(context.Background(), "u")
		guarded.Resolve(context.Background(), "u")
		Expect(breaker.State()).To(Equal(circuitbreaker.StateOpen))

		_, err := guarded.Resolve(context.Background(), "u")
		Expect(err).To(MatchError(circuitbreaker.ErrOpen))
		Expect(err.Error()).To(Equal("upstream resolver unavailable: circuit open"))
		Expect(stub.calls).To(Equal(2))
	})

	It("should not count caller cancellations as upstream failures", func() {
		stub.err = context.Canceled
		guarded.Resolve(context.Background(), "u")
		guarded.Resolve(context.Background(), "u")
		Expect(breaker.State()).To(Equal(circuitbreaker.StateClosed))
	})

	It("should always pass through with a disabled breaker", func() {
		stub.err = errors.New("boom")
		guarded = resolver.NewGuarded(stub, circuitbreaker.NewCircuitBreaker(0, time.Minute, nil))
		for i := 0; i < 5; i++ {
			_, err := guarded.Resolve(context.Background(), "u")
			Expect(err).To(MatchError("boom"))
		}
		Expect(stub.calls).To(Equal(5))
	})
})
