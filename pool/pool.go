// Package pool runs jobs on a fixed set of goroutines fed by one shared queue.
package pool

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/krantius/condorcet-tcp/shared/logging"
	"github.com/krantius/condorcet-tcp/shared/metrics"
)

var (
	// ErrZeroWorkers is returned by New for a pool without workers.
	ErrZeroWorkers = errors.New("pool needs at least one worker")

	// ErrPoolClosed is returned by Submit once Shutdown has started.
	ErrPoolClosed = errors.New("pool is shutting down")

	// ErrNilJob is returned by Submit for a nil job.
	ErrNilJob = errors.New("nil job")
)

// Job is a unit of work executed once by one worker.
type Job interface {
	Run()
}

// JobFunc adapts a closure to Job.
type JobFunc func()

func (f JobFunc) Run() {
	f()
}

type message struct {
	job       Job
	terminate bool
}

// Pool is a fixed set of workers. Jobs submitted before Shutdown all run to
// completion before Drained is closed.
type Pool struct {
	size    int
	queue   chan message
	workers sync.WaitGroup
	pending atomic.Int64

	mu     sync.RWMutex
	closed bool

	shutdown sync.Once
	drained  chan struct{}

	metrics metrics.Collector
}

type Option func(*Pool)

func WithMetrics(m metrics.Collector) Option {
	return func(p *Pool) {
		p.metrics = m
	}
}

// New starts size workers. queueSize is how many jobs may wait before Submit blocks.
func New(size, queueSize int, opts ...Option) (*Pool, error) {
	if size <= 0 {
		return nil, ErrZeroWorkers
	}
	if queueSize < 0 {
		queueSize = 0
	}

	p := &Pool{
		size:    size,
		queue:   make(chan message, queueSize),
		drained: make(chan struct{}),
		metrics: metrics.NewNop(),
	}

	for _, opt := range opts {
		opt(p)
	}

	for i := 0; i < size; i++ {
		p.workers.Add(1)
		go p.work(i)
	}

	logging.Debugf("Pool started with %d workers", size)

	return p, nil
}

func (p *Pool) work(id int) {
	defer p.workers.Done()

	for {
		msg := <-p.queue
		if msg.terminate {
			logging.Tracef("Worker %d terminating", id)
			return
		}

		p.run(id, msg.job)
	}
}

func (p *Pool) run(id int, job Job) {
	defer p.pending.Add(-1)
	defer func() {
		if r := recover(); r != nil {
			logging.Errorf("Worker %d: job panicked: %v", id, r)
			p.metrics.JobPanicked()
			return
		}

		p.metrics.JobCompleted()
	}()

	job.Run()
}

// Submit queues job, blocking while the queue is full.
func (p *Pool) Submit(job Job) error {
	if job == nil {
		return ErrNilJob
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	p.pending.Add(1)
	p.queue <- message{job: job}
	p.metrics.JobQueued()

	return nil
}

// Shutdown queues one termination marker per worker behind every submitted
// job, waits for all workers to exit and then closes Drained. It is safe to
// call more than once; every call returns after the pool has drained.
func (p *Pool) Shutdown() {
	p.shutdown.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()

		logging.Debugf("Sending %d shutdown signals", p.size)
		for i := 0; i < p.size; i++ {
			p.queue <- message{terminate: true}
		}

		p.workers.Wait()
		close(p.drained)

		logging.Debug("Pool drained")
	})
}

// Drained is closed once every worker has exited after Shutdown.
func (p *Pool) Drained() <-chan struct{} {
	return p.drained
}

func (p *Pool) Size() int {
	return p.size
}

// Pending is the number of submitted jobs that have not finished.
func (p *Pool) Pending() int {
	return int(p.pending.Load())
}
