// Package observe records evaluation telemetry through the OpenTelemetry
// metrics API and exposes it for Prometheus scraping.
//
// Tests should build Metrics with NewMetrics over their own
// metric.MeterProvider to avoid sharing instruments between cases.
package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/harishgm1236-debug/interview-text"

// Metrics holds the instruments of the evaluation engine and its HTTP API.
// It satisfies orchestrator.Observer.
type Metrics struct {
	// Evaluations counts finished evaluations by outcome.
	Evaluations metric.Int64Counter

	// DegradedStages counts analyzer stages that fell back to their
	// default result, by stage.
	DegradedStages metric.Int64Counter

	// EvaluationDuration tracks end-to-end evaluation latency.
	EvaluationDuration metric.Float64Histogram

	// HTTPRequestDuration tracks API latency by method, route and status.
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets in seconds. Evaluations wait on remote transcription, so the
// tail is long.
var latencyBuckets = []float64{
	0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60,
}

func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Evaluations, err = m.Int64Counter("interview.evaluations",
		metric.WithDescription("Evaluated answers by outcome."),
	); err != nil {
		return nil, err
	}
	if met.DegradedStages, err = m.Int64Counter("interview.degraded",
		metric.WithDescription("Analyzer stages that returned their degraded default, by stage."),
	); err != nil {
		return nil, err
	}
	if met.EvaluationDuration, err = m.Float64Histogram("interview.evaluation.duration",
		metric.WithDescription("Latency of one answer evaluation."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("interview.http.request.duration",
		metric.WithDescription("HTTP request latency by method, route and status."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	return met, nil
}

func (m *Metrics) Evaluated(ctx context.Context, outcome string, took time.Duration) {
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.Evaluations.Add(ctx, 1, attrs)
	m.EvaluationDuration.Record(ctx, took.Seconds(), attrs)
}

func (m *Metrics) Degraded(ctx context.Context, stage string) {
	m.DegradedStages.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
}
