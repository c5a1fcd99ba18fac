package couple

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeExpirer struct {
	calls int
	n     int
	err   error
}

func (f *fakeExpirer) ExpireDue(ctx context.Context) (int, error) {
	f.calls++
	return f.n, f.err
}

type fakeLocker struct {
	grant bool
	calls int
}

func (f *fakeLocker) SetIfNotExists(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	f.calls++
	return f.grant, nil
}

func TestSweep_RunsWhenLockGranted(t *testing.T) {
	exp := &fakeExpirer{n: 3}
	lock := &fakeLocker{grant: true}
	s := NewSweepService(exp, lock, nil, time.Minute)

	s.sweep(context.Background())

	if exp.calls != 1 {
		t.Fatalf("expected one expire call, got %d", exp.calls)
	}
	if lock.calls != 1 {
		t.Fatalf("expected one lock attempt, got %d", lock.calls)
	}
}

func TestSweep_SkipsWhenLockHeld(t *testing.T) {
	exp := &fakeExpirer{}
	lock := &fakeLocker{grant: false}
	s := NewSweepService(exp, lock, nil, time.Minute)

	s.sweep(context.Background())

	if exp.calls != 0 {
		t.Fatalf("expected no expire call when lock held, got %d", exp.calls)
	}
}

func TestSweep_ToleratesExpireError(t *testing.T) {
	exp := &fakeExpirer{err: errors.New("db down")}
	s := NewSweepService(exp, &fakeLocker{grant: true}, nil, time.Minute)

	s.sweep(context.Background())
	s.sweep(context.Background())

	if exp.calls != 2 {
		t.Fatalf("expected sweep to keep running after error, got %d calls", exp.calls)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	exp := &fakeExpirer{}
	s := NewSweepService(exp, &fakeLocker{grant: true}, nil, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on cancel")
	}
	if exp.calls < 2 {
		t.Fatalf("expected immediate sweep plus ticks, got %d", exp.calls)
	}
}
