// Package metrics exports pipeline measurements to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/MasterOfBinary/orderflow/batch"
	"github.com/MasterOfBinary/orderflow/item"
	"github.com/MasterOfBinary/orderflow/processor"
	"github.com/MasterOfBinary/orderflow/source"
)

// DefaultNamespace is used when New is given an empty namespace.
const DefaultNamespace = "orderflow"

// Pipeline implements the metrics interfaces of all three actors.
type Pipeline struct {
	ItemsQueued    *prometheus.CounterVec
	ItemsReady     *prometheus.CounterVec
	ItemsDelivered *prometheus.CounterVec
	BatchSize      prometheus.Histogram
	PrepareTime    prometheus.Histogram
	QueueDepth     *prometheus.GaugeVec
}

var (
	_ source.Metrics    = (*Pipeline)(nil)
	_ processor.Metrics = (*Pipeline)(nil)
	_ batch.Metrics     = (*Pipeline)(nil)
)

// New registers the pipeline metrics with reg. A nil reg uses
// prometheus.DefaultRegisterer.
//
// Registering twice with the same registry and namespace panics.
func New(namespace string, reg prometheus.Registerer) *Pipeline {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Pipeline{
		ItemsQueued: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_queued_total",
			Help:      "Total number of items pushed to the intake queue",
		}, []string{"kind"}),
		ItemsReady: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_ready_total",
			Help:      "Total number of items pushed to the ready queue",
		}, []string{"kind"}),
		ItemsDelivered: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_delivered_total",
			Help:      "Total number of delivered items",
		}, []string{"kind"}),
		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of items per delivered batch",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}),
		PrepareTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prepare_duration_seconds",
			Help:      "Time taken to prepare each item",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		QueueDepth: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Number of items waiting in a queue",
		}, []string{"queue"}),
	}
}

func (p *Pipeline) IncQueued(kind item.Kind) {
	p.ItemsQueued.WithLabelValues(kind.String()).Inc()
}

func (p *Pipeline) IncReady(kind item.Kind) {
	p.ItemsReady.WithLabelValues(kind.String()).Inc()
}

func (p *Pipeline) IncDelivered(kind item.Kind) {
	p.ItemsDelivered.WithLabelValues(kind.String()).Inc()
}

func (p *Pipeline) ObserveBatchSize(size int) {
	p.BatchSize.Observe(float64(size))
}

func (p *Pipeline) ObservePrepareDuration(d time.Duration) {
	p.PrepareTime.Observe(d.Seconds())
}

func (p *Pipeline) SetQueueDepth(queue string, depth int) {
	p.QueueDepth.WithLabelValues(queue).Set(float64(depth))
}
