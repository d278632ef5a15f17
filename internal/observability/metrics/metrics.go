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
	ordersFinalized    metric.Int64Counter
	ordersRejected     metric.Int64Counter
	statusTransitions  metric.Int64Counter
	cartMutations      metric.Int64Counter
	deliveriesAdvanced metric.Int64Counter
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

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "storefront"
	}
	meter := provider.Meter(name)

	ordersFinalized, err := meter.Int64Counter("storefront_orders_finalized_total")
	if err != nil {
		return nil, err
	}
	ordersRejected, err := meter.Int64Counter("storefront_orders_rejected_total")
	if err != nil {
		return nil, err
	}
	statusTransitions, err := meter.Int64Counter("storefront_order_status_transitions_total")
	if err != nil {
		return nil, err
	}
	cartMutations, err := meter.Int64Counter("storefront_cart_mutations_total")
	if err != nil {
		return nil, err
	}
	deliveriesAdvanced, err := meter.Int64Counter("storefront_deliveries_advanced_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		ordersFinalized:    ordersFinalized,
		ordersRejected:     ordersRejected,
		statusTransitions:  statusTransitions,
		cartMutations:      cartMutations,
		deliveriesAdvanced: deliveriesAdvanced,
	}, nil
}

// RecordOrderFinalized increments finalized order counts.
func (m *Metrics) RecordOrderFinalized(ctx context.Context, regionCode string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("region_code", strings.TrimSpace(regionCode)))
	m.ordersFinalized.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordOrderRejected increments rejected finalization counts.
func (m *Metrics) RecordOrderRejected(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("reason", strings.TrimSpace(reason)))
	m.ordersRejected.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordStatusTransition increments status transition counts.
func (m *Metrics) RecordStatusTransition(ctx context.Context, from, to string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("from_status", strings.TrimSpace(from)),
		attribute.String("to_status", strings.TrimSpace(to)),
	)
	m.statusTransitions.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordCartMutation increments cart mutation counts.
func (m *Metrics) RecordCartMutation(ctx context.Context, operation string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("operation", strings.TrimSpace(operation)))
	m.cartMutations.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordDeliveryAdvanced increments delivery scheduler counts.
func (m *Metrics) RecordDeliveryAdvanced(ctx context.Context, count int64) {
	if m == nil || count <= 0 {
		return
	}
	m.deliveriesAdvanced.Add(ctx, count)
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
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
	"region_code": {},
	"reason":      {},
	"from_status": {},
	"to_status":   {},
	"operation":   {},
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
