package syncwait

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestEventSetWait(t *testing.T) {
	ev := NewEvent()
	if ev.IsSet() {
		t.Error("new event should not be set")
	}

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ev.Wait()
		}()
	}

	ev.Set()
	wg.Wait()

	if !ev.IsSet() {
		t.Error("event should be set")
	}

	// Waiters arriving after Set proceed immediately.
	done := make(chan struct{})
	go func() {
		ev.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("late waiter blocked on a set event")
	}

	// Setting twice is a no-op.
	ev.Set()
}

func TestAwaitResult(t *testing.T) {
	got, err := Await(context.Background(), func(ctx context.Context) (int, error) {
		return 42, nil
	})
	if err != nil || got != 42 {
		t.Errorf("Await = %d, %v", got, err)
	}
}

func TestAwaitError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Await(context.Background(), func(ctx context.Context) (int, error) {
		return 0, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestAwaitPanicRepropagates(t *testing.T) {
	defer func() {
		if p := recover(); p != "kaboom" {
			t.Errorf("recovered %v, want kaboom", p)
		}
	}()
	Await(context.Background(), func(ctx context.Context) (int, error) {
		panic("kaboom")
	})
	t.Fatal("Await should have panicked")
}

func TestAwaitHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Await(ctx, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
