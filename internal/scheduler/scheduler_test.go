package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"ndexplorer/internal/structures"
	"ndexplorer/internal/testutil"
)

type countingWarmer struct {
	calls    atomic.Int64
	err      error
	deadline atomic.Bool
}

func (w *countingWarmer) WarmDevices(ctx context.Context) error {
	w.calls.Inc()
	_, ok := ctx.Deadline()
	w.deadline.Store(ok)
	return w.err
}

func testConfig(enabled bool, warmup time.Duration) *structures.Config {
	return &structures.Config{
		Cache:   structures.CacheConfig{Enabled: enabled, Size: 1, TTL: time.Minute, Warmup: warmup},
		NextDNS: structures.NextDNSConfig{Timeout: time.Second},
	}
}

func TestScheduler_WarmNow(t *testing.T) {
	warmer := &countingWarmer{}
	s := NewScheduler(testConfig(true, time.Minute), &testutil.MockLogger{}, warmer)

	require.NoError(t, s.WarmNow())
	assert.Equal(t, int64(1), warmer.calls.Load())
	assert.True(t, warmer.deadline.Load(), "warm-up must run with a timeout")
}

func TestScheduler_WarmNowLogsFailure(t *testing.T) {
	logger := &testutil.MockLogger{}
	warmer := &countingWarmer{err: errors.New("upstream down")}
	s := NewScheduler(testConfig(true, time.Minute), logger, warmer)

	assert.Error(t, s.WarmNow())
	assert.Equal(t, 1, logger.Count("error"))
}

func TestScheduler_InitDisabled(t *testing.T) {
	for _, conf := range []*structures.Config{
		testConfig(false, time.Second),
		testConfig(true, 0),
	} {
		warmer := &countingWarmer{}
		s := NewScheduler(conf, &testutil.MockLogger{}, warmer).(*Scheduler)
		s.Init()
		assert.Nil(t, s.cron)
		s.Stop()
	}
}

func TestScheduler_InitRunsPeriodically(t *testing.T) {
	warmer := &countingWarmer{}
	s := NewScheduler(testConfig(true, time.Second), &testutil.MockLogger{}, warmer)
	s.Init()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return warmer.calls.Load() >= 1
	}, 3*time.Second, 50*time.Millisecond)
}
