package tasks

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type pathRequest struct {
	From, To int
}

func TestTask_Lifecycle(t *testing.T) {
	task := NewTask(pathRequest{From: 1, To: 2})
	assert.NotEqual(t, uuid.Nil, task.ID)
	assert.Equal(t, StatusPending, task.Status())
	assert.False(t, task.Done())

	require.True(t, task.Start())
	assert.False(t, task.Start(), "a task starts only once")
	assert.Equal(t, "running", task.Status().String())

	task.Complete()
	assert.True(t, task.Done())

	failed := NewTask(pathRequest{})
	failed.Fail()
	assert.True(t, failed.Done())
	assert.Equal(t, "failed", failed.Status().String())
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	m.RecordSuccess("plan", 10*time.Millisecond)
	m.RecordSuccess("plan", 30*time.Millisecond)
	m.RecordFailure("plan", 20*time.Millisecond)
	m.RecordSuccess("calibrate", time.Millisecond)

	s := m.Stats("plan")
	assert.Equal(t, int64(3), s.Processed)
	assert.Equal(t, int64(2), s.Succeeded)
	assert.Equal(t, int64(1), s.Failed)
	assert.Equal(t, 10*time.Millisecond, s.MinDuration)
	assert.Equal(t, 30*time.Millisecond, s.MaxDuration)
	assert.Equal(t, 20*time.Millisecond, s.AvgDuration)

	all := m.All()
	require.Len(t, all, 2)
	assert.Equal(t, "calibrate", all[0].Kind)
	assert.Equal(t, "plan", all[1].Kind)

	assert.Equal(t, Stats{Kind: "unknown"}, m.Stats("unknown"))
}

func TestPool_RunsAndRecords(t *testing.T) {
	p := NewPool(2, zaptest.NewLogger(t))
	assert.Equal(t, 2, p.Workers())

	var ran atomic.Int32
	for i := 0; i < 10; i++ {
		fail := i%5 == 0
		require.True(t, p.Submit("plan", func() error {
			ran.Add(1)
			if fail {
				return errors.New("no path")
			}
			return nil
		}))
	}
	p.Close()

	assert.Equal(t, int32(10), ran.Load())
	s := p.Metrics().Stats("plan")
	assert.Equal(t, int64(10), s.Processed)
	assert.Equal(t, int64(2), s.Failed)
}

func TestPool_BoundsConcurrency(t *testing.T) {
	p := NewPool(3, nil)

	var running, peak atomic.Int32
	for i := 0; i < 20; i++ {
		p.Submit("work", func() error {
			n := running.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			running.Add(-1)
			return nil
		})
	}
	p.Close()

	assert.LessOrEqual(t, peak.Load(), int32(3))
	assert.Greater(t, peak.Load(), int32(0))
}

func TestPool_RejectsAfterClose(t *testing.T) {
	p := NewPool(0, nil)
	assert.Equal(t, DefaultWorkers, p.Workers())
	p.Close()
	p.Close()
	assert.False(t, p.Submit("late", func() error { return nil }))
}
