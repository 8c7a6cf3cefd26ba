package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type testJob struct {
	id      int
	delay   time.Duration
	err     error
	counter *int64
}

type testResult struct {
	id  int
	err error
}

func (r *testResult) GetError() error { return r.err }

func (j *testJob) Execute(ctx context.Context) Result {
	if j.delay > 0 {
		select {
		case <-time.After(j.delay):
		case <-ctx.Done():
			return &testResult{id: j.id, err: ctx.Err()}
		}
	}
	if j.counter != nil {
		atomic.AddInt64(j.counter, 1)
	}
	return &testResult{id: j.id, err: j.err}
}

func TestPoolProcessesAllJobs(t *testing.T) {
	pool := NewPool(4)
	pool.Start()

	var counter int64
	const jobs = 20
	for i := 0; i < jobs; i++ {
		pool.Submit(&testJob{id: i, counter: &counter})
	}

	results := pool.Wait()

	if len(results) != jobs {
		t.Errorf("got %d results, want %d", len(results), jobs)
	}
	if atomic.LoadInt64(&counter) != jobs {
		t.Errorf("executed %d jobs, want %d", counter, jobs)
	}
}

func TestPoolCollectsErrors(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	pool.Submit(&testJob{id: 1})
	pool.Submit(&testJob{id: 2, err: errors.New("job failed")})

	results := pool.Wait()

	var failed int
	for _, r := range results {
		if r.GetError() != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("got %d failures, want 1", failed)
	}
}

func TestPoolDefaultsToOneWorker(t *testing.T) {
	pool := NewPool(0)
	pool.Start()
	pool.Submit(&testJob{id: 1})

	if results := pool.Wait(); len(results) != 1 {
		t.Errorf("got %d results, want 1", len(results))
	}
}

func TestPoolShutdown(t *testing.T) {
	pool := NewPool(1)
	pool.Start()

	for i := 0; i < 10; i++ {
		pool.Submit(&testJob{id: i, delay: 50 * time.Millisecond})
	}

	done := make(chan struct{})
	go func() {
		pool.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Shutdown did not return")
	}
}
