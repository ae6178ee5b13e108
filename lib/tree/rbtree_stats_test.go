package tree

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// name => "k1=v1,k2=v2" => value
func collectInt64Sums(t *testing.T, reader sdkmetric.Reader) map[string]map[string]int64 {
	rm := metricdata.ResourceMetrics{}
	require.NoError(t, reader.Collect(context.Background(), &rm))

	res := make(map[string]map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		require.Equal(t, "rbmap/letters", sm.Scope.Name)
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, m.Name)
			points := make(map[string]int64, len(sum.DataPoints))
			for _, dp := range sum.DataPoints {
				attrs := make([]string, 0, dp.Attributes.Len())
				for _, kv := range dp.Attributes.ToSlice() {
					attrs = append(attrs, string(kv.Key)+"="+kv.Value.Emit())
				}
				points[strings.Join(attrs, ",")] = dp.Value
			}
			res[m.Name] = points
		}
	}
	return res
}

func TestOrderedMapStats(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() {
		require.NoError(t, provider.Shutdown(context.Background()))
	}()

	m := newLettersMap(t, WithOrderedMapStats[int, string]("letters", provider))
	_, ok, err := m.Find(8)
	require.NoError(t, err)
	require.True(t, ok)
	_, ok, err = m.Find(16)
	require.NoError(t, err)
	require.False(t, ok)

	sums := collectInt64Sums(t, reader)
	require.Equal(t, map[string]int64{"": 7}, sums["rbmap.insert.count"])
	require.Equal(t, map[string]int64{"": 7}, sums["rbmap.entries"])
	require.Equal(t, map[string]int64{"hit=true": 1, "hit=false": 1}, sums["rbmap.find.count"])
	require.Equal(t, map[string]int64{"direction=left": 2, "direction=right": 1}, sums["rbmap.rotation.count"])
	require.Equal(t, map[string]int64{
		"case=recolor-up":        2,
		"case=rotate-to-line-up": 1,
		"case=finish":            2,
	}, sums["rbmap.fixup.count"])
	require.Empty(t, sums["rbmap.remove.count"])

	// Remove 5: the red sibling 17 is rotated up, then 15 is repainted.
	_, err = m.Remove(5)
	require.NoError(t, err)
	// Rejected operations are not counted.
	require.Error(t, m.Insert(8, "Z"))
	_, err = m.Remove(16)
	require.Error(t, err)

	sums = collectInt64Sums(t, reader)
	require.Equal(t, map[string]int64{"": 7}, sums["rbmap.insert.count"])
	require.Equal(t, map[string]int64{"": 1}, sums["rbmap.remove.count"])
	require.Equal(t, map[string]int64{"": 6}, sums["rbmap.entries"])
	require.Equal(t, map[string]int64{"direction=left": 3, "direction=right": 1}, sums["rbmap.rotation.count"])
	require.Equal(t, int64(1), sums["rbmap.fixup.count"]["case=red-sibling"])
	require.Equal(t, int64(1), sums["rbmap.fixup.count"]["case=push-up"])
}

func TestOrderedMapStats_Nil(t *testing.T) {
	var stats *orderedMapStats
	require.NotPanics(t, func() {
		stats.IncreaseInsertCount()
		stats.IncreaseRemoveCount()
		stats.IncreaseFindCount(true)
		stats.IncreaseRotationCount(Left)
		stats.IncreaseFixupCount(fixupResolve)
	})

	// Global noop provider.
	m := NewOrderedMap[int, int](WithOrderedMapStats[int, int]("noop"))
	require.NoError(t, m.Insert(1, 1))
	_, err := m.Remove(1)
	require.NoError(t, err)
}
