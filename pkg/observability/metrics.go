package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	ServiceName string
}

// Metrics bundles the registry served on /metrics with the otel meter
// provider exporting into it.
type Metrics struct {
	Registry *prometheus.Registry
	Provider *sdkmetric.MeterProvider
	Workflow *WorkflowMetrics
	Requests *RequestMetrics
}

// InitMetrics creates a private Prometheus registry, bridges otel metrics
// into it and registers the workflow counters.
func InitMetrics(cfg MetricsConfig) (*Metrics, http.Handler, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, fmt.Errorf("create prometheus exporter: %w", err)
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	workflow, err := NewWorkflowMetrics(reg)
	if err != nil {
		return nil, nil, err
	}
	requests, err := NewRequestMetrics(provider.Meter(cfg.ServiceName))
	if err != nil {
		return nil, nil, err
	}

	m := &Metrics{Registry: reg, Provider: provider, Workflow: workflow, Requests: requests}
	return m, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}), nil
}

// RegisterGauge exposes value on the registry under name. value is read on
// every scrape.
func (m *Metrics) RegisterGauge(name, help string, value func() float64) error {
	g := prometheus.NewGaugeFunc(prometheus.GaugeOpts{Name: name, Help: help}, value)
	if err := m.Registry.Register(g); err != nil {
		return fmt.Errorf("register gauge %s: %w", name, err)
	}
	return nil
}

// Shutdown flushes the meter provider.
func (m *Metrics) Shutdown(ctx context.Context) error {
	return m.Provider.Shutdown(ctx)
}

// WorkflowMetrics counts underwriting verdicts and lifecycle transitions.
type WorkflowMetrics struct {
	verdicts    *prometheus.CounterVec
	transitions *prometheus.CounterVec
}

// NewWorkflowMetrics registers the workflow counters with reg.
func NewWorkflowMetrics(reg prometheus.Registerer) (*WorkflowMetrics, error) {
	m := &WorkflowMetrics{
		verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "loanflow",
			Name:      "underwriting_verdicts_total",
			Help:      "Underwriting verdicts by outcome.",
		}, []string{"verdict"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "loanflow",
			Name:      "application_transitions_total",
			Help:      "Committed application lifecycle transitions.",
		}, []string{"transition"}),
	}
	for _, c := range []prometheus.Collector{m.verdicts, m.transitions} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register workflow metrics: %w", err)
		}
	}
	return m, nil
}

func (m *WorkflowMetrics) RecordVerdict(verdict string) {
	m.verdicts.WithLabelValues(verdict).Inc()
}

func (m *WorkflowMetrics) RecordTransition(transition string) {
	m.transitions.WithLabelValues(transition).Inc()
}

// RequestMetrics records API calls through the otel meter.
type RequestMetrics struct {
	count    otelmetric.Int64Counter
	duration otelmetric.Float64Histogram
}

// NewRequestMetrics creates the request instruments on meter.
func NewRequestMetrics(meter otelmetric.Meter) (*RequestMetrics, error) {
	count, err := meter.Int64Counter("loanflow.requests",
		otelmetric.WithDescription("API requests handled"),
	)
	if err != nil {
		return nil, fmt.Errorf("create request counter: %w", err)
	}
	duration, err := meter.Float64Histogram("loanflow.request.duration",
		otelmetric.WithDescription("API request duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("create request histogram: %w", err)
	}
	return &RequestMetrics{count: count, duration: duration}, nil
}

// Record counts one request. transport is "grpc" or "http"; outcome is the
// status code rendered as text.
func (m *RequestMetrics) Record(ctx context.Context, transport, route, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("transport", transport),
		attribute.String("route", route),
		attribute.String("outcome", outcome),
	)
	m.count.Add(ctx, 1, attrs)
	m.duration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
}
