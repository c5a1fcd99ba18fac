package pool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPool_RunsAllTasks(t *testing.T) {
	p := NewWorkerPool(4, 16)
	results := p.Run(context.Background())

	var ran atomic.Int64
	for i := 0; i < 20; i++ {
		p.Submit(context.Background(), func(ctx context.Context) error {
			ran.Add(1)
			return nil
		})
	}
	p.Close()

	count := 0
	for r := range results {
		if r.Err != nil {
			t.Fatalf("unexpected task error: %v", r.Err)
		}
		count++
	}
	if count != 20 || ran.Load() != 20 {
		t.Fatalf("expected 20 tasks, ran=%d results=%d", ran.Load(), count)
	}
}

func TestWorkerPool_PropagatesErrors(t *testing.T) {
	p := NewWorkerPool(2, 4)
	results := p.Run(context.Background())

	wantErr := errors.New("boom")
	p.Submit(context.Background(), func(ctx context.Context) error { return wantErr })
	p.Submit(context.Background(), func(ctx context.Context) error { return nil })
	p.Close()

	var failed int
	for r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Fatalf("expected exactly one failed task, got %d", failed)
	}
}

func TestWorkerPool_CancelStopsWorkers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := NewWorkerPool(2, 0)
	results := p.Run(ctx)

	cancel()
	p.Wait()

	select {
	case _, open := <-results:
		if open {
			t.Fatal("expected closed result stream after cancel")
		}
	case <-time.After(time.Second):
		t.Fatal("result stream not closed after cancel")
	}
}

func TestWorkerPool_SubmitUnblocksAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := NewWorkerPool(1, 0)
	p.Run(ctx)

	cancel()
	p.Wait()

	// No worker is left to take the task; Submit must bail out instead of
	// blocking the producer forever.
	done := make(chan bool, 1)
	go func() {
		done <- p.Submit(ctx, func(ctx context.Context) error { return nil })
	}()

	select {
	case accepted := <-done:
		if accepted {
			t.Fatal("task accepted after cancellation")
		}
	case <-time.After(time.Second):
		t.Fatal("Submit blocked after cancellation")
	}
	p.Close()
}
