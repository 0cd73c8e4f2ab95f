package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	reportsGenerated metric.Int64Counter
	reportCacheHits  metric.Int64Counter
	reportCacheMiss  metric.Int64Counter
	invoicesIssued   metric.Int64Counter
	recordsDropped   metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "propfolio"
	}
	meter := provider.Meter(name)

	reportsGenerated, err := meter.Int64Counter("propfolio_reports_generated_total")
	if err != nil {
		return nil, err
	}
	reportCacheHits, err := meter.Int64Counter("propfolio_report_cache_hits_total")
	if err != nil {
		return nil, err
	}
	reportCacheMiss, err := meter.Int64Counter("propfolio_report_cache_misses_total")
	if err != nil {
		return nil, err
	}
	invoicesIssued, err := meter.Int64Counter("propfolio_invoices_issued_total")
	if err != nil {
		return nil, err
	}
	recordsDropped, err := meter.Int64Counter("propfolio_report_records_dropped_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		reportsGenerated: reportsGenerated,
		reportCacheHits:  reportCacheHits,
		reportCacheMiss:  reportCacheMiss,
		invoicesIssued:   invoicesIssued,
		recordsDropped:   recordsDropped,
	}, nil
}

// RecordReportGenerated increments report generation counts per shape.
func (m *Metrics) RecordReportGenerated(ctx context.Context, shape string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("shape", strings.TrimSpace(shape)))
	m.reportsGenerated.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordReportCacheHit increments report cache hit counts.
func (m *Metrics) RecordReportCacheHit(ctx context.Context, shape string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("shape", strings.TrimSpace(shape)))
	m.reportCacheHits.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordReportCacheMiss increments report cache miss counts.
func (m *Metrics) RecordReportCacheMiss(ctx context.Context, shape string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("shape", strings.TrimSpace(shape)))
	m.reportCacheMiss.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordInvoiceIssued increments issued invoice counts.
func (m *Metrics) RecordInvoiceIssued(ctx context.Context, status string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("status", strings.TrimSpace(status)))
	m.invoicesIssued.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRecordsDropped counts invoices dropped from period bucketing.
func (m *Metrics) RecordRecordsDropped(ctx context.Context, reason string, count int64) {
	if m == nil || count <= 0 {
		return
	}
	attrs := FilterAttributes(attribute.String("reason", strings.TrimSpace(reason)))
	m.recordsDropped.Add(ctx, count, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"shape":       {},
	"status":      {},
	"reason":      {},
	"endpoint":    {},
	"status_code": {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
