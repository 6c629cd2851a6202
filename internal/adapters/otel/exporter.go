package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/lwerth/INFO510-public/internal/ports"
)

const (
	serviceName    = "bayeslab"
	serviceVersion = "1.0.0"
)

// Exporter exports run metrics to an OTEL Collector.
type Exporter struct {
	provider       *sdkmetric.MeterProvider
	meter          metric.Meter
	runsTotal      metric.Int64Counter
	drawsTotal     metric.Int64Counter
	durationHist   metric.Float64Histogram
	acceptanceHist metric.Float64Histogram
	rhatHist       metric.Float64Histogram
}

// NewExporter creates a new OTEL metrics exporter.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	runsTotal, err := meter.Int64Counter(
		"bayeslab_runs_total",
		metric.WithDescription("Total number of analysis runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating runs counter: %w", err)
	}

	drawsTotal, err := meter.Int64Counter(
		"bayeslab_draws_total",
		metric.WithDescription("Total posterior draws produced"),
		metric.WithUnit("{draw}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating draws counter: %w", err)
	}

	durationHist, err := meter.Float64Histogram(
		"bayeslab_run_duration_ms",
		metric.WithDescription("Run duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	acceptanceHist, err := meter.Float64Histogram(
		"bayeslab_acceptance_rate",
		metric.WithDescription("Metropolis acceptance rate per run"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating acceptance histogram: %w", err)
	}

	rhatHist, err := meter.Float64Histogram(
		"bayeslab_max_rhat",
		metric.WithDescription("Worst split R-hat across parameters per run"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rhat histogram: %w", err)
	}

	return &Exporter{
		provider:       provider,
		meter:          meter,
		runsTotal:      runsTotal,
		drawsTotal:     drawsTotal,
		durationHist:   durationHist,
		acceptanceHist: acceptanceHist,
		rhatHist:       rhatHist,
	}, nil
}

// runAttributes labels every instrument with the run identity so one
// run can be followed through the collector.
func runAttributes(m *ports.RunMetrics) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("run_id", m.RunID),
		attribute.String("analysis", m.Analysis),
		attribute.String("method", m.Method),
	}
}

// ExportRunMetrics exports metrics for a completed analysis run.
func (e *Exporter) ExportRunMetrics(ctx context.Context, m *ports.RunMetrics) error {
	opt := metric.WithAttributes(runAttributes(m)...)

	e.runsTotal.Add(ctx, 1, opt)
	e.drawsTotal.Add(ctx, m.Draws, opt)
	e.durationHist.Record(ctx, float64(m.DurationMs), opt)

	// Sampler health only applies to MCMC runs
	if m.Acceptance > 0 {
		e.acceptanceHist.Record(ctx, m.Acceptance, opt)
	}
	if m.MaxRHat > 0 {
		e.rhatHist.Record(ctx, m.MaxRHat, opt)
	}

	return nil
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
