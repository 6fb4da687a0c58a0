package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability records HTTP request metrics through the OpenTelemetry SDK,
// exported on the default Prometheus registry.
type Observability struct {
	meterProvider   *metric.MeterProvider
	requestCounter  otelmetric.Int64Counter
	requestDuration otelmetric.Float64Histogram
}

// New never fails: if the exporter cannot be created, the returned value records nothing.
func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		return &Observability{}
	}
	return newWithReader(serviceName, exporter)
}

func newWithReader(serviceName string, reader metric.Reader) *Observability {
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	requestCounter, _ := meter.Int64Counter(
		"http.server.requests",
		otelmetric.WithDescription("Number of HTTP requests served"),
	)

	requestDuration, _ := meter.Float64Histogram(
		"http.server.duration",
		otelmetric.WithDescription("HTTP request duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:   provider,
		requestCounter:  requestCounter,
		requestDuration: requestDuration,
	}
}

func (o *Observability) RecordRequest(ctx context.Context, route string, status int, duration time.Duration) {
	if o == nil || o.requestCounter == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("route", route),
		attribute.Int("status", status),
	)
	o.requestCounter.Add(ctx, 1, attrs)
	o.requestDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil || o.meterProvider == nil {
		return nil
	}
	return o.meterProvider.Shutdown(ctx)
}
