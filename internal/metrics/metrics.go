// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics records per-run pipeline counters in a Prometheus
// registry. The CLI is short-lived, so metrics are written in the text
// exposition format for the node exporter's textfile collector instead of
// being served.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pdiddy/dti-datasets/internal/dataset"
)

const namespace = "dti"

// Rejection reasons used as the reason label.
const (
	ReasonFiltered  = "filtered"
	ReasonMalformed = "malformed"
	ReasonMissing   = "missing"
	ReasonInvalid   = "invalid"
)

// Recorder holds the pipeline metrics in its own registry.
type Recorder struct {
	reg      *prometheus.Registry
	emitted  *prometheus.CounterVec
	rejected *prometheus.CounterVec
	duration *prometheus.HistogramVec
	lastRun  *prometheus.GaugeVec
}

// NewRecorder creates a Recorder with all collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		emitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_emitted_total",
			Help:      "Records written to the output dataset.",
		}, []string{"source", "kind"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_rejected_total",
			Help:      "Source rows that did not reach the output dataset, by reason.",
		}, []string{"source", "reason"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assemble_duration_seconds",
			Help:      "Time spent assembling a dataset.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"source"}),
		lastRun: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last completed run.",
		}, []string{"source"}),
	}
	r.reg.MustRegister(r.emitted, r.rejected, r.duration, r.lastRun)
	return r
}

// Observe records one finished run.
func (r *Recorder) Observe(source, kind string, rep dataset.Report, elapsed time.Duration) {
	r.emitted.WithLabelValues(source, kind).Add(float64(rep.Emitted))
	for reason, n := range map[string]int{
		ReasonFiltered:  rep.Filtered,
		ReasonMalformed: rep.Malformed,
		ReasonMissing:   rep.Missing,
		ReasonInvalid:   rep.Invalid,
	} {
		r.rejected.WithLabelValues(source, reason).Add(float64(n))
	}
	r.duration.WithLabelValues(source).Observe(elapsed.Seconds())
	r.lastRun.WithLabelValues(source).SetToCurrentTime()
}

// WriteTextfile writes every metric to path in the text exposition format.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating metrics directory: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}
