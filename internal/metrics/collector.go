package metrics

import (
	"context"
	"log/slog"
	"time"
)

type EventType string

const (
	EventInvocationCompleted EventType = "invocation_completed"
	EventResolverCalled      EventType = "resolver_called"
	EventBreakerChanged      EventType = "breaker_changed"
)

type MetricEvent struct {
	Type       EventType
	Timestamp  time.Time
	Outcome    string
	StatusCode int
	Duration   time.Duration
	Failed     bool
	State      string
}

type Collector struct {
	eventCh chan MetricEvent
	metrics *Metrics
	logger  *slog.Logger
	done    chan struct{}
}

func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	return &Collector{
		eventCh: make(chan MetricEvent, bufferSize),
		metrics: NewMetrics(),
		logger:  logger,
		done:    make(chan struct{}),
	}
}

func (c *Collector) EventChannel() chan<- MetricEvent {
	return c.eventCh
}

// Emit queues an event without blocking. Events are dropped when the buffer
// is full. A nil Collector discards everything.
func (c *Collector) Emit(event MetricEvent) {
	if c == nil {
		return
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case c.eventCh <- event:
	default:
	}
}

func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

// Done is closed once the collector has drained its queue after ctx ends.
func (c *Collector) Done() <-chan struct{} {
	return c.done
}

func (c *Collector) run(ctx context.Context) {
	c.logger.Info("Metrics collector started")
	defer c.logger.Info("Metrics collector stopped")
	defer close(c.done)

	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		case <-ctx.Done():
			// Drain remaining events before shutdown
			c.drain()
			return
		}
	}
}

func (c *Collector) processEvent(event MetricEvent) {
	switch event.Type {
	case EventInvocationCompleted:
		c.metrics.RecordInvocation(event.Outcome, event.StatusCode, event.Duration)

	case EventResolverCalled:
		c.metrics.RecordResolverCall(event.Duration, event.Failed)

	case EventBreakerChanged:
		c.metrics.UpdateBreakerState(event.State)
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		default:
			return
		}
	}
}

func (c *Collector) Snapshot() Snapshot {
	return c.metrics.Snapshot()
}
