package workload

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pliu/orderlist/pkg/config"
	"github.com/pliu/orderlist/pkg/metrics"
)

func newTestRunner(t *testing.T, cfg *config.WorkloadConfig) (*Runner, *clock.Mock) {
	t.Helper()
	mockClock := clock.NewMock()
	return NewRunnerWithClock(cfg, mockClock, t.Name()), mockClock
}

func TestRunner_RunKeepsInvariants(t *testing.T) {
	cfg := &config.WorkloadConfig{
		Seed:       1,
		Operations: 3000,
		TagBits:    16,
		GroupSize:  4,
		ValueRange: 5000,
		CheckEvery: 250,
	}
	r, _ := newTestRunner(t, cfg)

	require.NoError(t, r.Run(context.Background()))
	require.NoError(t, r.List().CheckInvariants())
	assert.Equal(t, 3000, r.done)

	size, err := r.List().Count()
	require.NoError(t, err)
	assert.Greater(t, size, 0)
	assert.Equal(t, float64(size), testutil.ToFloat64(metrics.ListSize.WithLabelValues(t.Name())))
	assert.Equal(t, float64(r.List().Stats().Groups), testutil.ToFloat64(metrics.TagGroupCount.WithLabelValues(t.Name())))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.InvariantFailureCount.WithLabelValues(t.Name())))
}

func TestRunner_NarrowLabelsRedistribute(t *testing.T) {
	cfg := &config.WorkloadConfig{
		Seed:       2,
		Operations: 450,
		TagBits:    8,
		GroupSize:  4,
		ValueRange: 1 << 30,
		Mix:        &config.OpMixConfig{Insert: 1},
	}
	r, _ := newTestRunner(t, cfg)

	require.NoError(t, r.Run(context.Background()))
	stats := r.List().Stats()
	assert.Positive(t, stats.Splits)
	assert.Positive(t, stats.Redistributions)
	assert.Positive(t, testutil.ToFloat64(metrics.OracleWorkCount.WithLabelValues(t.Name(), "split")))
}

func TestRunner_PublishesQuantiles(t *testing.T) {
	cfg := &config.WorkloadConfig{Seed: 3, Operations: 500, TagBits: 16, ValueRange: 10000}
	r, mockClock := newTestRunner(t, cfg)
	require.NoError(t, r.Run(context.Background()))

	p100 := testutil.ToFloat64(metrics.RelabelWorkQuantile.WithLabelValues(t.Name(), "p100"))
	p50 := testutil.ToFloat64(metrics.RelabelWorkQuantile.WithLabelValues(t.Name(), "p50"))
	assert.GreaterOrEqual(t, p100, p50)
	assert.Positive(t, p100)
	avg := testutil.ToFloat64(metrics.RelabelWorkAverage.WithLabelValues(t.Name()))
	assert.Positive(t, avg)
	assert.LessOrEqual(t, avg, p100)

	// Once the window passes, nothing is left to publish and the gauges keep
	// their last values.
	mockClock.Add(time.Duration(cfg.GetStatsWindowSeconds()+1) * time.Second)
	assert.Equal(t, 0, r.workStats.Len())
	r.updateQuantiles()
	assert.Equal(t, p100, testutil.ToFloat64(metrics.RelabelWorkQuantile.WithLabelValues(t.Name(), "p100")))
	assert.Equal(t, avg, testutil.ToFloat64(metrics.RelabelWorkAverage.WithLabelValues(t.Name())))
}

func TestRunner_StopsOnCancel(t *testing.T) {
	r, _ := newTestRunner(t, &config.WorkloadConfig{Seed: 4, Operations: 1000})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, r.Run(ctx), context.Canceled)
	assert.Equal(t, 0, r.done)
}

func TestRunner_PickFollowsMix(t *testing.T) {
	cfg := &config.WorkloadConfig{Seed: 5, Mix: &config.OpMixConfig{Sort: 1}}
	r, _ := newTestRunner(t, cfg)
	for range 20 {
		assert.Equal(t, "sort", r.pick())
	}
}
