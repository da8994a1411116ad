// Package metrics exports library state as Prometheus metrics.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"gitlab.com/slon/library/library"
)

const namespace = "library"

// Observer updates Prometheus collectors on every library event.
type Observer struct {
	readers prometheus.Gauge
	writers prometheus.Gauge
	queue   *prometheus.GaugeVec
	events  *prometheus.CounterVec
	wait    *prometheus.HistogramVec

	mu         sync.Mutex
	enqueuedAt map[string]time.Time
}

// New registers the collectors in reg.
func New(reg prometheus.Registerer) *Observer {
	f := promauto.With(reg)
	return &Observer{
		readers: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "readers_active",
			Help:      "Readers currently inside the library.",
		}),
		writers: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "writers_active",
			Help:      "Writers currently inside the library.",
		}),
		queue: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_length",
			Help:      "Clients waiting to enter, by role.",
		}, []string{"role"}),
		events: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "State transitions, by kind.",
		}, []string{"kind"}),
		wait: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "wait_seconds",
			Help:      "Time spent in the queue before admission or cancellation.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"role", "outcome"}),
		enqueuedAt: make(map[string]time.Time),
	}
}

func (o *Observer) Observe(e library.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := e.Snapshot
	o.readers.Set(float64(s.ReadersActive))
	o.writers.Set(float64(s.WritersActive))
	o.queue.WithLabelValues(library.Reader.String()).Set(float64(s.QueuedReaders))
	o.queue.WithLabelValues(library.Writer.String()).Set(float64(s.QueuedWriters))
	o.events.WithLabelValues(string(e.Kind)).Inc()

	switch e.Kind {
	case library.EventEnqueue:
		o.enqueuedAt[e.Client] = e.Time
	case library.EventAdmit, library.EventCancel:
		start, ok := o.enqueuedAt[e.Client]
		if !ok {
			return
		}
		delete(o.enqueuedAt, e.Client)
		outcome := "admitted"
		if e.Kind == library.EventCancel {
			outcome = "cancelled"
		}
		o.wait.WithLabelValues(e.Role.String(), outcome).Observe(e.Time.Sub(start).Seconds())
	}
}
