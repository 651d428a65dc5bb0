package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the engine's prometheus metrics. A nil *Collector is valid and
// records nothing, so components can be used without metrics in tests and tools.
type Collector struct {
	reg *prometheus.Registry

	Polls        *prometheus.CounterVec // watcher label: arrival|visit
	PollFailures *prometheus.CounterVec
	SkippedTicks *prometheus.CounterVec
	ActiveWatch  prometheus.Gauge

	Boardings prometheus.Counter
	Arrivals  prometheus.Counter

	LegsResolved   prometheus.Counter
	LegsUnresolved prometheus.Counter

	Transitions *prometheus.CounterVec // from, to labels
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		Polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blindroute_watcher_polls_total",
			Help: "Total upstream polls issued by watchers.",
		}, []string{"watcher"}),
		PollFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blindroute_watcher_poll_failures_total",
			Help: "Polls that failed and were reported as service ended.",
		}, []string{"watcher"}),
		SkippedTicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blindroute_watcher_skipped_ticks_total",
			Help: "Ticks dropped because the previous poll was still in flight.",
		}, []string{"watcher"}),
		ActiveWatch: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "blindroute_watcher_active",
			Help: "Number of running watchers.",
		}),
		Boardings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blindroute_boardings_total",
			Help: "Boarding events detected by the arrival watcher.",
		}),
		Arrivals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blindroute_alightings_total",
			Help: "Alighting events detected by the station visit watcher.",
		}),
		LegsResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blindroute_resolver_legs_resolved_total",
			Help: "Bus legs matched against the registry.",
		}),
		LegsUnresolved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blindroute_resolver_legs_unresolved_total",
			Help: "Bus legs dropped because the registry could not be matched.",
		}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blindroute_session_transitions_total",
			Help: "Navigation session step transitions.",
		}, []string{"from", "to"}),
	}

	reg.MustRegister(
		c.Polls, c.PollFailures, c.SkippedTicks, c.ActiveWatch,
		c.Boardings, c.Arrivals,
		c.LegsResolved, c.LegsUnresolved,
		c.Transitions,
	)

	return c
}

func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

func (c *Collector) Poll(watcher string) {
	if c != nil {
		c.Polls.WithLabelValues(watcher).Inc()
	}
}

func (c *Collector) PollFailed(watcher string) {
	if c != nil {
		c.PollFailures.WithLabelValues(watcher).Inc()
	}
}

func (c *Collector) TickSkipped(watcher string) {
	if c != nil {
		c.SkippedTicks.WithLabelValues(watcher).Inc()
	}
}

func (c *Collector) WatchStarted() {
	if c != nil {
		c.ActiveWatch.Inc()
	}
}

func (c *Collector) WatchStopped() {
	if c != nil {
		c.ActiveWatch.Dec()
	}
}

func (c *Collector) Boarded() {
	if c != nil {
		c.Boardings.Inc()
	}
}

func (c *Collector) Arrived() {
	if c != nil {
		c.Arrivals.Inc()
	}
}

func (c *Collector) LegResolved() {
	if c != nil {
		c.LegsResolved.Inc()
	}
}

func (c *Collector) LegUnresolved() {
	if c != nil {
		c.LegsUnresolved.Inc()
	}
}

func (c *Collector) Transition(from string, to string) {
	if c != nil {
		c.Transitions.WithLabelValues(from, to).Inc()
	}
}
