package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRefresher struct {
	pulls  atomic.Int32
	vision atomic.Int32
}

func (c *countingRefresher) PullAll(context.Context)            { c.pulls.Add(1) }
func (c *countingRefresher) SyncVisionSettings(context.Context) { c.vision.Add(1) }

func TestScheduler_InvalidSpec(t *testing.T) {
	s := NewScheduler(&countingRefresher{}, "not a spec", zerolog.Nop())

	assert.Error(t, s.Start())
	assert.True(t, s.NextRefreshTime().IsZero())
}

func TestScheduler_StartSchedulesNextRun(t *testing.T) {
	s := NewScheduler(&countingRefresher{}, "@every 1h", zerolog.Nop())

	require.NoError(t, s.Start())
	defer s.Stop()

	next := s.NextRefreshTime()
	assert.WithinDuration(t, time.Now().Add(time.Hour), next, time.Minute)
}

func TestScheduler_RefreshRunsBothSyncs(t *testing.T) {
	r := &countingRefresher{}
	s := NewScheduler(r, "@every 1h", zerolog.Nop())

	s.Refresh()

	assert.Equal(t, int32(1), r.pulls.Load())
	assert.Equal(t, int32(1), r.vision.Load())
}

func TestScheduler_RunsOnSchedule(t *testing.T) {
	r := &countingRefresher{}
	s := NewScheduler(r, "@every 1s", zerolog.Nop())
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return r.pulls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
