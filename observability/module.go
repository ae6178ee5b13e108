package observability

import (
	"context"
	"errors"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/rbmap/xlog"
)

type MetricsExporterType uint8

const (
	ConsoleMetricsExporter MetricsExporterType = iota
	PrometheusMetricsExporter
)

var ErrUnknownMetricsExporter = errors.New("[observability] unknown metrics exporter")

// Config is supplied to the fx app, e.g. fx.Supply(observability.Config{...}).
type Config struct {
	Name     string
	Exporter MetricsExporterType
	// Console exporter only.
	Writer   io.Writer
	Interval time.Duration
	Timeout  time.Duration
	// Prometheus exporter only.
	PrometheusOpts []prometheus.Option
	// Installs the provider as the otel global one on start.
	Global bool
}

type MeterProviderParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    Config
	Logger    xlog.XLogger `optional:"true"`
}

// NewMeterProvider builds the provider by the configured exporter.
// The provider is flushed and shut down when the app stops.
func NewMeterProvider(params MeterProviderParams) (metric.MeterProvider, error) {
	cfg := params.Config
	var (
		mp  *sdkmetric.MeterProvider
		err error
	)
	switch cfg.Exporter {
	case ConsoleMetricsExporter:
		mp, err = NewConsoleMetricsProvider(cfg.Writer, cfg.Interval, cfg.Timeout)
	case PrometheusMetricsExporter:
		mp, err = NewPrometheusMetricsProvider(cfg.PrometheusOpts...)
	default:
		err = ErrUnknownMetricsExporter
	}
	if err != nil {
		return nil, err
	}

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if cfg.Global {
				otel.SetMeterProvider(mp)
			}
			if params.Logger != nil {
				params.Logger.Info("[observability] meter provider started",
					zap.String("name", cfg.Name),
					zap.Uint8("exporter", uint8(cfg.Exporter)),
				)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return multierr.Combine(mp.ForceFlush(ctx), mp.Shutdown(ctx))
		},
	})
	return mp, nil
}

func registerAppStats(mp metric.MeterProvider, cfg Config) error {
	return RegisterAppStats(mp, cfg.Name)
}

// Module provides the metric.MeterProvider and registers the app stats.
var Module = fx.Module("observability",
	fx.Provide(NewMeterProvider),
	fx.Invoke(registerAppStats),
)
