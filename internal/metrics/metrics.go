// Package metrics wires the manager's lifecycle events into Prometheus
// counters and gauges, in the nil-safe Collector shape used elsewhere in
// this codebase's ecosystem: a nil *Collector is valid and every method
// on it is a no-op, so components can hold one unconditionally instead of
// branching on whether metrics are enabled.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds every metric this service publishes. Namespaced under
// resource_provider_manager so it can share a registry with unrelated
// exporters.
type Collector struct {
	sessionsActive      prometheus.Gauge
	sessionsTotal       prometheus.Counter
	publishesInFlight   prometheus.Gauge
	publishesTotal      *prometheus.CounterVec
	eventsEnqueuedTotal *prometheus.CounterVec
	messageQueueDepth   prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
}

// New registers and returns a Collector against reg. Pass
// prometheus.DefaultRegisterer for the global registry.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		sessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "resource_provider_manager",
			Name:      "sessions_active",
			Help:      "Number of resource providers currently subscribed.",
		}),
		sessionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "resource_provider_manager",
			Name:      "sessions_total",
			Help:      "Total number of SUBSCRIBE calls accepted.",
		}),
		publishesInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "resource_provider_manager",
			Name:      "publishes_in_flight",
			Help:      "Number of per-provider PUBLISH_RESOURCES events awaiting a status.",
		}),
		publishesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resource_provider_manager",
			Name:      "publishes_total",
			Help:      "Total resolved publishes by outcome.",
		}, []string{"outcome"}),
		eventsEnqueuedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resource_provider_manager",
			Name:      "events_enqueued_total",
			Help:      "Total events enqueued to a resource provider's outbox, by event type.",
		}, []string{"event_type"}),
		messageQueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "resource_provider_manager",
			Name:      "host_message_queue_depth",
			Help:      "Number of host-bound messages queued, sampled each time one is enqueued; not updated when messages are consumed.",
		}),
		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resource_provider_manager",
			Name:      "http_requests_total",
			Help:      "Total non-SUBSCRIBE calls dispatched to the manager, by response status code.",
		}, []string{"status"}),
	}
}

func (c *Collector) SessionSubscribed() {
	if c == nil {
		return
	}
	c.sessionsActive.Inc()
	c.sessionsTotal.Inc()
}

func (c *Collector) SessionClosed() {
	if c == nil {
		return
	}
	c.sessionsActive.Dec()
}

func (c *Collector) PublishStarted() {
	if c == nil {
		return
	}
	c.publishesInFlight.Inc()
}

func (c *Collector) PublishResolved(ok bool) {
	if c == nil {
		return
	}
	c.publishesInFlight.Dec()
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	c.publishesTotal.WithLabelValues(outcome).Inc()
}

func (c *Collector) EventEnqueued(eventType string) {
	if c == nil {
		return
	}
	c.eventsEnqueuedTotal.WithLabelValues(eventType).Inc()
}

func (c *Collector) QueueDepth(n int) {
	if c == nil {
		return
	}
	c.messageQueueDepth.Set(float64(n))
}

// HTTPRequest records the response to one non-SUBSCRIBE call that reached
// the manager, by its exact status code, e.g. "202", "400", "501".
func (c *Collector) HTTPRequest(status string) {
	if c == nil {
		return
	}
	c.httpRequestsTotal.WithLabelValues(status).Inc()
}
