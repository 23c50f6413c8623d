package escrow

import (
	"strconv"
	"sync"
	"time"

	"github.com/iov-one/trustvault/errors"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	metricsInitOnce sync.Once
	sharedMetrics   *engineMetrics
)

type engineMetrics struct {
	transitions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	commits     prometheus.Counter
}

func newEngineMetrics() *engineMetrics {
	metricsInitOnce.Do(func() {
		m := &engineMetrics{
			transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "trustvault_escrow_transitions_total",
				Help: "Escrow transitions by message path and result code.",
			}, []string{"path", "code"}),
			duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "trustvault_escrow_transition_seconds",
				Help:    "Time spent executing an escrow transition, lock wait included.",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			}, []string{"path"}),
			commits: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "trustvault_escrow_commits_total",
				Help: "Number of committed store versions.",
			}),
		}
		prometheus.MustRegister(m.transitions, m.duration, m.commits)
		sharedMetrics = m
	})
	return sharedMetrics
}

// observe records the outcome of a single transition. The result code is
// the registered error code, 0 on success.
func (m *engineMetrics) observe(path string, started time.Time, err error) {
	switch path {
	case pathCreateMsg, pathReleaseMsg, pathRefundMsg, pathCloseMsg:
	default:
		path = "unknown"
	}
	code := strconv.FormatUint(uint64(errors.Code(err)), 10)
	m.transitions.WithLabelValues(path, code).Inc()
	m.duration.WithLabelValues(path).Observe(time.Since(started).Seconds())
}
