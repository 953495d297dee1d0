package middleware

import (
	"context"
	"time"

	"github.com/aretw0/gobarber/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics holds the collectors shared by instrumented stores.
type StoreMetrics struct {
	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewStoreMetrics creates the collectors and registers them on reg (if not nil).
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		ops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gobarber",
				Subsystem: "store",
				Name:      "operations_total",
				Help:      "Total number of key-value store operations",
			},
			[]string{"op", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "gobarber",
				Subsystem: "store",
				Name:      "operation_duration_seconds",
				Help:      "Duration of key-value store operations",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.ops, m.duration)
	}
	return m
}

type metricsMiddleware struct {
	next    ports.KeyValueStore
	metrics *StoreMetrics
}

// NewMetricsMiddleware records count, outcome and latency of every store operation.
func NewMetricsMiddleware(metrics *StoreMetrics) Middleware {
	return func(next ports.KeyValueStore) ports.KeyValueStore {
		return &metricsMiddleware{next: next, metrics: metrics}
	}
}

func (m *metricsMiddleware) observe(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.metrics.ops.WithLabelValues(op, result).Inc()
	m.metrics.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (m *metricsMiddleware) Get(ctx context.Context, key string) (string, error) {
	start := time.Now()
	v, err := m.next.Get(ctx, key)
	m.observe("get", start, err)
	return v, err
}

func (m *metricsMiddleware) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	err := m.next.Set(ctx, key, value)
	m.observe("set", start, err)
	return err
}

func (m *metricsMiddleware) Remove(ctx context.Context, key string) error {
	start := time.Now()
	err := m.next.Remove(ctx, key)
	m.observe("remove", start, err)
	return err
}

func (m *metricsMiddleware) MultiGet(ctx context.Context, keys []string) ([]ports.Entry, error) {
	start := time.Now()
	entries, err := m.next.MultiGet(ctx, keys)
	m.observe("multi_get", start, err)
	return entries, err
}

func (m *metricsMiddleware) MultiSet(ctx context.Context, pairs []ports.KeyValue) error {
	start := time.Now()
	err := m.next.MultiSet(ctx, pairs)
	m.observe("multi_set", start, err)
	return err
}

func (m *metricsMiddleware) MultiRemove(ctx context.Context, keys []string) error {
	start := time.Now()
	err := m.next.MultiRemove(ctx, keys)
	m.observe("multi_remove", start, err)
	return err
}

func (m *metricsMiddleware) Keys(ctx context.Context) ([]string, error) {
	start := time.Now()
	keys, err := m.next.Keys(ctx)
	m.observe("keys", start, err)
	return keys, err
}
