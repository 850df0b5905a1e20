// Package metrics exports undo history activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dshills/modstudio/internal/engine/undo"
)

const namespace = "modstudio"

const subsystem = "undo"

// Collector tracks commit, undo and redo activity per area.
type Collector struct {
	actions *prometheus.CounterVec
	depth   *prometheus.GaugeVec
	cursor  *prometheus.GaugeVec

	gatherer prometheus.Gatherer

	mu   sync.Mutex
	subs map[*undo.Area]*undo.Subscription
}

// NewCollector creates a collector registered on reg. When reg is also a
// prometheus.Gatherer, Handler serves it; otherwise Handler serves the
// default gatherer.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "actions_total",
				Help:      "Completed commit, undo and redo actions by area.",
			},
			[]string{"area", "action"},
		),
		depth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "history_depth",
				Help:      "Number of visible commands held in the area history.",
			},
			[]string{"area"},
		),
		cursor: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cursor",
				Help:      "Index of the command the next undo reverts, -1 when none.",
			},
			[]string{"area"},
		),
		gatherer: prometheus.DefaultGatherer,
		subs:     make(map[*undo.Area]*undo.Subscription),
	}

	for _, col := range []prometheus.Collector{c.actions, c.depth, c.cursor} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	if g, ok := reg.(prometheus.Gatherer); ok {
		c.gatherer = g
	}
	return c, nil
}

// Observe subscribes to an area's completion events. Observing the same
// area twice is a no-op.
func (c *Collector) Observe(a *undo.Area) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.subs[a]; ok {
		return
	}
	c.depth.WithLabelValues(a.Name()).Set(float64(a.Len()))
	c.cursor.WithLabelValues(a.Name()).Set(float64(a.Cursor()))
	c.subs[a] = a.Subscribe(c.Record)
}

// Forget stops observing an area and drops its series.
func (c *Collector) Forget(a *undo.Area) {
	c.mu.Lock()
	sub, ok := c.subs[a]
	delete(c.subs, a)
	c.mu.Unlock()

	if !ok {
		return
	}
	sub.Unsubscribe()
	c.depth.DeleteLabelValues(a.Name())
	c.cursor.DeleteLabelValues(a.Name())
	c.actions.DeletePartialMatch(prometheus.Labels{"area": a.Name()})
}

// Record updates the metrics from a completion event.
func (c *Collector) Record(d undo.Done) {
	c.actions.WithLabelValues(d.Area, d.Action.String()).Inc()
	c.depth.WithLabelValues(d.Area).Set(float64(d.HistoryLen))
	c.cursor.WithLabelValues(d.Area).Set(float64(d.Cursor))
}

// Handler serves the registered metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
