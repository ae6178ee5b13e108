package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// NewConsoleMetricsProvider serves for test/dev environment.
// The metrics are written to w (stdout if nil) every interval.
func NewConsoleMetricsProvider(w io.Writer, interval, timeout time.Duration, opts ...stdoutmetric.Option) (*metric.MeterProvider, error) {
	if w == nil {
		w = os.Stdout
	}
	opts = append([]stdoutmetric.Option{stdoutmetric.WithWriter(w)}, opts...)
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, err
	}
	readerOpts := make([]metric.PeriodicReaderOption, 0, 2)
	if interval > 0 {
		readerOpts = append(readerOpts, metric.WithInterval(interval))
	}
	if timeout > 0 {
		readerOpts = append(readerOpts, metric.WithTimeout(timeout))
	}
	return metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(exporter, readerOpts...))), nil
}

// NewPrometheusMetricsProvider serves for the product environment,
// the stats metrics are fetched by HTTP.
func NewPrometheusMetricsProvider(opts ...prometheus.Option) (*metric.MeterProvider, error) {
	exporter, err := prometheus.New(opts...)
	if err != nil {
		return nil, err
	}
	return metric.NewMeterProvider(metric.WithReader(exporter)), nil
}
