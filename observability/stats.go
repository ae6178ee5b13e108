package observability

import (
	"context"
	"runtime"
	"strings"

	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel/metric"
)

func appStatsMeterName(name string) string {
	builder := &strings.Builder{}
	builder.WriteString("rbmap/app")
	builder.WriteString("/")
	if len(strings.TrimSpace(name)) > 0 {
		builder.WriteString(name)
	} else {
		builder.WriteString("default")
	}
	return builder.String()
}

// RegisterAppStats observes the goroutines, GOMAXPROCS and the go runtime
// metrics by the provider.
func RegisterAppStats(mp metric.MeterProvider, name string) error {
	meter := mp.Meter(
		appStatsMeterName(name),
		metric.WithInstrumentationVersion(otelruntime.Version()),
	)
	if _, err := meter.Int64ObservableUpDownCounter(
		"app.core.goroutines",
		metric.WithDescription(`The application goroutines' info.`),
		metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
			ob.Observe(int64(runtime.NumGoroutine()))
			return nil
		}),
	); err != nil {
		return err
	}
	if _, err := meter.Int64ObservableUpDownCounter(
		"app.core.processes",
		metric.WithDescription(`The application processes' info.`),
		metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
			ob.Observe(int64(runtime.GOMAXPROCS(0)))
			return nil
		}),
	); err != nil {
		return err
	}
	return otelruntime.Start(otelruntime.WithMeterProvider(mp))
}
