// Package metrics records cover rendering telemetry.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Observer captures telemetry for render, preview and export passes.
type Observer interface {
	RecordRender(duration time.Duration, err error)
	RecordPreview(duration time.Duration, err error)
	RecordExport(duration time.Duration, sizeBytes int, err error)
	RecordExportRejected()
}

// PrometheusObserver exports cover metrics to Prometheus.
type PrometheusObserver struct {
	duration    *prometheus.HistogramVec
	errors      *prometheus.CounterVec
	exportBytes prometheus.Counter
	rejected    prometheus.Counter
}

// NewPrometheusObserver registers the cover metrics on reg, or on the default
// registerer when reg is nil.
func NewPrometheusObserver(namespace string, reg prometheus.Registerer) (*PrometheusObserver, error) {
	if namespace == "" {
		namespace = "coverapp"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	o := &PrometheusObserver{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of render, preview and export operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_errors_total",
			Help:      "Count of failed render, preview and export operations.",
		}, []string{"operation"}),
		exportBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exported_bytes_total",
			Help:      "Cumulative size of exported PNG files.",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "export_rejected_total",
			Help:      "Exports refused because another export was in flight.",
		}),
	}

	var err error
	if o.duration, err = register(reg, o.duration); err != nil {
		return nil, err
	}
	if o.errors, err = register(reg, o.errors); err != nil {
		return nil, err
	}
	if o.exportBytes, err = register(reg, o.exportBytes); err != nil {
		return nil, err
	}
	if o.rejected, err = register(reg, o.rejected); err != nil {
		return nil, err
	}
	return o, nil
}

// register returns the collector already on reg when an identical one exists.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("register cover metric: %w", err)
	}
	return c, nil
}

func (o *PrometheusObserver) RecordRender(duration time.Duration, err error) {
	record(o, "render", duration, err)
}

func (o *PrometheusObserver) RecordPreview(duration time.Duration, err error) {
	record(o, "preview", duration, err)
}

// RecordExport tracks export latency, artifact size and failures.
func (o *PrometheusObserver) RecordExport(duration time.Duration, sizeBytes int, err error) {
	if o == nil {
		return
	}
	record(o, "export", duration, err)
	if err == nil {
		o.exportBytes.Add(float64(sizeBytes))
	}
}

func (o *PrometheusObserver) RecordExportRejected() {
	if o == nil {
		return
	}
	o.rejected.Inc()
}

func record(o *PrometheusObserver, op string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	o.duration.WithLabelValues(op).Observe(duration.Seconds())
	if err != nil {
		o.errors.WithLabelValues(op).Inc()
	}
}

// Nop discards everything.
func Nop() Observer { return nopObserver{} }

type nopObserver struct{}

func (nopObserver) RecordRender(time.Duration, error) {}

func (nopObserver) RecordPreview(time.Duration, error) {}

func (nopObserver) RecordExport(time.Duration, int, error) {}

func (nopObserver) RecordExportRejected() {}
