// Package metrics exports padship traffic counters to Prometheus.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bft-labs/padship/internal/domain"
	"github.com/bft-labs/padship/internal/ports"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "padship"

// Prometheus implements ports.Metrics with Prometheus collectors.
type Prometheus struct {
	framesSent      *prometheus.CounterVec
	framesReceived  *prometheus.CounterVec
	framesRejected  *prometheus.CounterVec
	connectFailures prometheus.Counter
	sessions        prometheus.Counter
	queueDepth      prometheus.Gauge
}

var _ ports.Metrics = (*Prometheus)(nil)

// NewPrometheus registers the padship collectors on reg under namespace.
// An empty namespace uses DefaultNamespace. Registering twice on the same
// registry panics, as with any promauto collector.
func NewPrometheus(reg prometheus.Registerer, namespace string) *Prometheus {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	factory := promauto.With(reg)

	return &Prometheus{
		framesSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_sent_total",
			Help:      "Total number of frames written to the peer",
		}, []string{"kind"}),

		framesReceived: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_received_total",
			Help:      "Total number of valid frames read from the peer",
		}, []string{"kind"}),

		framesRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_rejected_total",
			Help:      "Total number of frames dropped for an unknown tag",
		}, []string{"tag"}),

		connectFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connect_failures_total",
			Help:      "Total number of failed connection attempts",
		}),

		sessions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Total number of established sessions",
		}),

		queueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Events waiting in the relay after the last write",
		}),
	}
}

func (p *Prometheus) FrameSent(kind domain.EventKind) {
	p.framesSent.WithLabelValues(kind.String()).Inc()
}

func (p *Prometheus) FrameReceived(kind domain.EventKind) {
	p.framesReceived.WithLabelValues(kind.String()).Inc()
}

func (p *Prometheus) FrameRejected(tag uint8) {
	p.framesRejected.WithLabelValues(strconv.Itoa(int(tag))).Inc()
}

func (p *Prometheus) ConnectFailed() { p.connectFailures.Inc() }

func (p *Prometheus) SessionStarted() { p.sessions.Inc() }

func (p *Prometheus) QueueDepth(n int) { p.queueDepth.Set(float64(n)) }

// Noop discards all observations.
type Noop struct{}

var _ ports.Metrics = Noop{}

func (Noop) FrameSent(domain.EventKind)     {}
func (Noop) FrameReceived(domain.EventKind) {}
func (Noop) FrameRejected(uint8)            {}
func (Noop) ConnectFailed()                 {}
func (Noop) SessionStarted()                {}
func (Noop) QueueDepth(int)                 {}
