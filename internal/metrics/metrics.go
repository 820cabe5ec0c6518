package metrics

import (
	"sort"
	"sync"
	"time"
)

const maxSamples = 1000

type Metrics struct {
	mutex            sync.RWMutex
	statusCodes      map[int]int64
	outcomes         map[string]int64
	invocationTimes  []time.Duration
	resolverCalls    int64
	resolverFailures int64
	resolverTimes    []time.Duration
	breakerState     string
	startTime        time.Time
}

type Snapshot struct {
	TotalInvocations int64            `json:"total_invocations"`
	Uptime           time.Duration    `json:"uptime"`
	StatusCodes      map[int]int64    `json:"status_codes"`
	Outcomes         map[string]int64 `json:"outcomes"`
	Invocations      Latency          `json:"invocation_latency"`
	Resolver         ResolverMetrics  `json:"resolver"`
	BreakerState     string           `json:"breaker_state,omitempty"`
}

type Latency struct {
	Avg time.Duration `json:"avg"`
	P50 time.Duration `json:"p50"`
	P95 time.Duration `json:"p95"`
	P99 time.Duration `json:"p99"`
}

type ResolverMetrics struct {
	Calls    int64   `json:"calls"`
	Failures int64   `json:"failures"`
	Latency  Latency `json:"latency"`
}

func (m *Metrics) RecordInvocation(outcome string, statusCode int, duration time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.statusCodes[statusCode]++
	m.outcomes[outcome]++
	m.invocationTimes = appendSample(m.invocationTimes, duration)
}

func (m *Metrics) RecordResolverCall(duration time.Duration, failed bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.resolverCalls++
	if failed {
		m.resolverFailures++
	}
	m.resolverTimes = appendSample(m.resolverTimes, duration)
}

func (m *Metrics) UpdateBreakerState(state string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.breakerState = state
}

func (m *Metrics) Snapshot() Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		Uptime:       time.Since(m.startTime),
		StatusCodes:  make(map[int]int64, len(m.statusCodes)),
		Outcomes:     make(map[string]int64, len(m.outcomes)),
		Invocations:  latencyOf(m.invocationTimes),
		BreakerState: m.breakerState,
		Resolver: ResolverMetrics{
			Calls:    m.resolverCalls,
			Failures: m.resolverFailures,
			Latency:  latencyOf(m.resolverTimes),
		},
	}

	for code, n := range m.statusCodes {
		snap.StatusCodes[code] = n
		snap.TotalInvocations += n
	}
	for outcome, n := range m.outcomes {
		snap.Outcomes[outcome] = n
	}

	return snap
}

func NewMetrics() *Metrics {
	return &Metrics{
		statusCodes: make(map[int]int64),
		outcomes:    make(map[string]int64),
		startTime:   time.Now(),
	}
}

func appendSample(samples []time.Duration, d time.Duration) []time.Duration {
	samples = append(samples, d)
	if len(samples) > maxSamples {
		samples = samples[1:]
	}
	return samples
}

func latencyOf(durations []time.Duration) Latency {
	if len(durations) == 0 {
		return Latency{}
	}

	sorted := make([]time.Duration, len(durations))
	copy(sorted, durations)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	return Latency{
		Avg: average(sorted),
		P50: percentile(sorted, 0.50),
		P95: percentile(sorted, 0.95),
		P99: percentile(sorted, 0.99),
	}
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
