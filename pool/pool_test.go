package pool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewZeroWorkers(t *testing.T) {
	p, err := New(0, 8)
	require.ErrorIs(t, err, ErrZeroWorkers)
	require.Nil(t, p)

	_, err = New(-1, 8)
	require.ErrorIs(t, err, ErrZeroWorkers)
}

func TestNewSizes(t *testing.T) {
	for _, size := range []int{1, 2, 4, 64} {
		p, err := New(size, 0)
		require.NoError(t, err)
		require.Equal(t, size, p.Size())
		p.Shutdown()
	}
}

func TestEveryJobRunsBeforeDrain(t *testing.T) {
	p, err := New(4, 16)
	require.NoError(t, err)

	var ran atomic.Int64
	for i := 0; i < 100; i++ {
		require.NoError(t, p.Submit(JobFunc(func() {
			time.Sleep(time.Millisecond)
			ran.Add(1)
		})))
	}

	select {
	case <-p.Drained():
		t.Fatal("drained before shutdown")
	default:
	}

	p.Shutdown()

	<-p.Drained()
	require.Equal(t, int64(100), ran.Load())
	require.Equal(t, 0, p.Pending())
}

func TestWorkersRunInParallel(t *testing.T) {
	const size = 4

	p, err := New(size, size)
	require.NoError(t, err)
	defer p.Shutdown()

	var arrived sync.WaitGroup
	arrived.Add(size)
	release := make(chan struct{})
	done := make(chan struct{}, size)

	for i := 0; i < size; i++ {
		require.NoError(t, p.Submit(JobFunc(func() {
			arrived.Done()
			<-release
			done <- struct{}{}
		})))
	}

	waited := make(chan struct{})
	go func() {
		arrived.Wait()
		close(waited)
	}()

	select {
	case <-waited:
	case <-time.After(5 * time.Second):
		t.Fatal("jobs did not run concurrently")
	}

	require.Equal(t, size, p.Pending())
	close(release)

	for i := 0; i < size; i++ {
		<-done
	}
}

func TestSubmitAfterShutdown(t *testing.T) {
	p, err := New(2, 0)
	require.NoError(t, err)

	p.Shutdown()

	require.ErrorIs(t, p.Submit(JobFunc(func() {})), ErrPoolClosed)
}

func TestSubmitNil(t *testing.T) {
	p, err := New(1, 0)
	require.NoError(t, err)
	defer p.Shutdown()

	require.ErrorIs(t, p.Submit(nil), ErrNilJob)
}

func TestPanickingJobKeepsWorker(t *testing.T) {
	p, err := New(1, 4)
	require.NoError(t, err)

	ran := make(chan struct{})
	require.NoError(t, p.Submit(JobFunc(func() { panic("boom") })))
	require.NoError(t, p.Submit(JobFunc(func() { close(ran) })))

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("worker died with the panicking job")
	}

	p.Shutdown()
}

func TestShutdownIsIdempotent(t *testing.T) {
	p, err := New(3, 0)
	require.NoError(t, err)

	var slow atomic.Bool
	require.NoError(t, p.Submit(JobFunc(func() {
		time.Sleep(50 * time.Millisecond)
		slow.Store(true)
	})))

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Shutdown()
			assert.True(t, slow.Load())
		}()
	}
	wg.Wait()

	<-p.Drained()
}
