package threadpool

import (
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/joinframework/join-sub004/config"
)

func TestNewRejectsZeroWorkers(t *testing.T) {
	_, err := New(0)
	require.ErrorIs(t, err, ErrInvalidWorkerCount)
}

func TestNewFromConfigHonorsWorkerCount(t *testing.T) {
	p, err := NewFromConfig(config.ThreadPoolConfig{Workers: 3})
	require.NoError(t, err)
	defer p.Close()
	require.Equal(t, 3, p.Size())
}

func TestNewFromConfigDefaultsWorkerCount(t *testing.T) {
	p, err := NewFromConfig(config.ThreadPoolConfig{})
	require.NoError(t, err)
	defer p.Close()
	require.Equal(t, runtime.GOMAXPROCS(0)+1, p.Size())
}

func TestSizeReportsWorkerCount(t *testing.T) {
	p, err := New(8)
	require.NoError(t, err)
	defer p.Close()

	require.Equal(t, 8, p.Size())
}

func TestPushRunsAllJobsBeforeClose(t *testing.T) {
	const jobs = 200
	p, err := New(4)
	require.NoError(t, err)

	var counter atomic.Int64
	for i := 0; i < jobs; i++ {
		p.Push(func() { counter.Add(1) })
	}
	p.Close()

	require.EqualValues(t, jobs, counter.Load())
}

func TestPushAfterCloseIsNoop(t *testing.T) {
	p, err := New(2)
	require.NoError(t, err)
	p.Close()

	var counter atomic.Int64
	p.Push(func() { counter.Add(1) })
	time.Sleep(10 * time.Millisecond)

	require.EqualValues(t, 0, counter.Load())
}

func TestParallelForEachRunsConcurrently(t *testing.T) {
	items := make([]int, 5)
	start := time.Now()

	ParallelForEach(items, func(int) {
		time.Sleep(20 * time.Millisecond)
	})

	elapsed := time.Since(start)
	require.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
	require.Less(t, elapsed, 100*time.Millisecond)
}

func TestParallelForEachEmptyIsNoop(t *testing.T) {
	require.NotPanics(t, func() {
		ParallelForEach([]int{}, func(int) {})
	})
}

func TestParallelForEachInvokesEveryElement(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	var sum atomic.Int64

	ParallelForEach(items, func(v int) {
		sum.Add(int64(v))
	})

	require.EqualValues(t, 15, sum.Load())
}

func TestQueueDepthReflectsBacklog(t *testing.T) {
	p, err := New(1)
	require.NoError(t, err)
	defer p.Close()

	release := make(chan struct{})
	p.Push(func() { <-release })
	for i := 0; i < 5; i++ {
		p.Push(func() {})
	}

	require.Eventually(t, func() bool {
		return p.QueueDepth().Max >= 5
	}, time.Second, 5*time.Millisecond)

	close(release)
}

func TestThroughputIsPositiveAfterJobsRun(t *testing.T) {
	p, err := New(2)
	require.NoError(t, err)
	defer p.Close()

	for i := 0; i < 20; i++ {
		p.Push(func() {})
	}

	require.Eventually(t, func() bool {
		return p.Throughput() > 0
	}, time.Second, 5*time.Millisecond)
}
