package tree

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/benz9527/rbmap/lib/infra"
)

const (
	OrderedMapStatsName = "rbmap"
)

type fixupCase string

const (
	fixupRecolorUp      fixupCase = "recolor-up"
	fixupRotateToLineUp fixupCase = "rotate-to-line-up"
	fixupFinish         fixupCase = "finish"
	fixupRedSibling     fixupCase = "red-sibling"
	fixupPushUp         fixupCase = "push-up"
	fixupAlign          fixupCase = "align"
	fixupResolve        fixupCase = "resolve"
)

var (
	findHitAttrs  = metric.WithAttributeSet(attribute.NewSet(attribute.Bool("hit", true)))
	findMissAttrs = metric.WithAttributeSet(attribute.NewSet(attribute.Bool("hit", false)))
)

type orderedMapStats struct {
	insertCount   metric.Int64Counter
	removeCount   metric.Int64Counter
	findCount     metric.Int64Counter
	rotationCount metric.Int64Counter
	fixupCount    metric.Int64Counter
	entries       metric.Int64ObservableUpDownCounter
}

func (stats *orderedMapStats) IncreaseInsertCount() {
	if stats == nil {
		return
	}
	stats.insertCount.Add(context.Background(), 1)
}

func (stats *orderedMapStats) IncreaseRemoveCount() {
	if stats == nil {
		return
	}
	stats.removeCount.Add(context.Background(), 1)
}

func (stats *orderedMapStats) IncreaseFindCount(hit bool) {
	if stats == nil {
		return
	}
	if hit {
		stats.findCount.Add(context.Background(), 1, findHitAttrs)
		return
	}
	stats.findCount.Add(context.Background(), 1, findMissAttrs)
}

func (stats *orderedMapStats) IncreaseRotationCount(dir RBDirection) {
	if stats == nil {
		return
	}
	stats.rotationCount.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("direction", dir.String())),
	)
}

func (stats *orderedMapStats) IncreaseFixupCount(c fixupCase) {
	if stats == nil {
		return
	}
	stats.fixupCount.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("case", string(c))),
	)
}

// WithOrderedMapStats records the map operations by the provider's meter.
// The global otel meter provider is used if no provider passed in.
func WithOrderedMapStats[K infra.OrderedKey, V any](name string, provider ...metric.MeterProvider) OrderedMapOpt[K, V] {
	return func(m *orderedMap[K, V]) {
		var mp metric.MeterProvider
		if len(provider) > 0 && provider[0] != nil {
			mp = provider[0]
		} else {
			mp = otel.GetMeterProvider()
		}
		m.stats = newOrderedMapStats[K, V](m, name, mp)
	}
}

func newOrderedMapStats[K infra.OrderedKey, V any](ref *orderedMap[K, V], name string, mp metric.MeterProvider) *orderedMapStats {
	meter := mp.Meter(fmt.Sprintf("%s/%s", OrderedMapStatsName, name))
	return &orderedMapStats{
		insertCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"rbmap.insert.count",
			metric.WithDescription("The number of entries inserted into the map."),
		)),
		removeCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"rbmap.remove.count",
			metric.WithDescription("The number of entries removed from the map."),
		)),
		findCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"rbmap.find.count",
			metric.WithDescription("The number of lookups, split by hit or miss."),
		)),
		rotationCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"rbmap.rotation.count",
			metric.WithDescription("The number of rotations, split by direction."),
		)),
		fixupCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"rbmap.fixup.count",
			metric.WithDescription("The number of rebalance steps, split by case."),
		)),
		entries: lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
			"rbmap.entries",
			metric.WithDescription("The number of entries in the map."),
			metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
				ob.Observe(ref.Len())
				return nil
			}),
		)),
	}
}
