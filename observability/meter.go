package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/seqkit/logger"
)

// InitMeter initializes the OpenTelemetry meter provider and installs it globally.
// The returned provider should be shut down on exit.
func InitMeter(ctx context.Context, cfg Config, info ServiceInfo) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(ctx, info)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Debug("meter initialized", logger.Fields(
		"service", info.Name,
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded for plan runs.
type Metrics struct {
	runTotal      metric.Int64Counter
	runDuration   metric.Float64Histogram
	runActive     metric.Int64UpDownCounter
	resultCount   metric.Int64Histogram
	inputElements metric.Int64Counter
	errorTotal    metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	runTotal, err := meter.Int64Counter("seqkit.run.total",
		metric.WithDescription("Total number of plan runs"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating seqkit.run.total counter: %w", err)
	}

	runDuration, err := meter.Float64Histogram("seqkit.run.duration",
		metric.WithDescription("Duration of plan runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating seqkit.run.duration histogram: %w", err)
	}

	runActive, err := meter.Int64UpDownCounter("seqkit.run.active",
		metric.WithDescription("Number of plan runs in progress"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating seqkit.run.active gauge: %w", err)
	}

	resultCount, err := meter.Int64Histogram("seqkit.result.count",
		metric.WithDescription("Number of values in a run result"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating seqkit.result.count histogram: %w", err)
	}

	inputElements, err := meter.Int64Counter("seqkit.input.elements",
		metric.WithDescription("Elements read from plan sources"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating seqkit.input.elements counter: %w", err)
	}

	errorTotal, err := meter.Int64Counter("seqkit.error.total",
		metric.WithDescription("Total errors by code and component"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating seqkit.error.total counter: %w", err)
	}

	return &Metrics{
		runTotal:      runTotal,
		runDuration:   runDuration,
		runActive:     runActive,
		resultCount:   resultCount,
		inputElements: inputElements,
		errorTotal:    errorTotal,
	}, nil
}

// RecordRunStart increments the active run count.
func (m *Metrics) RecordRunStart(ctx context.Context) {
	m.runActive.Add(ctx, 1)
}

// RecordRunEnd decrements active runs and records the completed run.
func (m *Metrics) RecordRunEnd(ctx context.Context, terminal, status string, duration time.Duration) {
	m.runActive.Add(ctx, -1)
	m.runTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("terminal", terminal),
		attribute.String("status", status),
	))
	m.runDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("terminal", terminal),
	))
}

// RecordResultCount records how many values a terminal operation produced.
func (m *Metrics) RecordResultCount(ctx context.Context, terminal string, n int) {
	m.resultCount.Record(ctx, int64(n), metric.WithAttributes(
		attribute.String("terminal", terminal),
	))
}

// RecordInput records elements read from a source of the given kind.
func (m *Metrics) RecordInput(ctx context.Context, sourceKind string, n int) {
	m.inputElements.Add(ctx, int64(n), metric.WithAttributes(
		attribute.String("source", sourceKind),
	))
}

// RecordError records an error by code and component.
func (m *Metrics) RecordError(ctx context.Context, code, component string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("component", component),
	))
}
