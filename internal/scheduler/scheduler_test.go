package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mroshb/lunchmate/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type countingSweeper struct {
	calls atomic.Int32
}

func (s *countingSweeper) Sweep() services.SweepResult {
	s.calls.Add(1)
	return services.SweepResult{}
}

func TestScheduler_RunsSweep(t *testing.T) {
	sweeper := &countingSweeper{}
	s, err := New(sweeper, "@every 1s")
	require.NoError(t, err)

	s.Start()
	assert.Eventually(t, func() bool { return sweeper.calls.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	_, err := New(&countingSweeper{}, "every now and then")
	assert.Error(t, err)
}

func TestScheduler_SecondsField(t *testing.T) {
	s, err := New(&countingSweeper{}, "*/5 * * * * *")
	require.NoError(t, err)
	require.NoError(t, s.Stop(context.Background()))
}
