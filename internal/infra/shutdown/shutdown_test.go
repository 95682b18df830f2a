package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestHooksRunInReverseOrder(t *testing.T) {
	h := NewHandler(time.Second)

	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		h.OnShutdown(func(context.Context) error {
			order = append(order, i)
			return nil
		})
	}

	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait() }()

	h.Trigger()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Wait() error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait() never returned")
	}

	want := []int{3, 2, 1}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestWaitReturnsLastHookError(t *testing.T) {
	h := NewHandler(time.Second)

	first := errors.New("first")
	second := errors.New("second")
	h.OnShutdown(func(context.Context) error { return first })
	h.OnShutdown(func(context.Context) error { return second })

	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait() }()
	h.Trigger()

	// Hooks run in reverse, so "first" is the last error observed.
	if err := <-errCh; !errors.Is(err, first) {
		t.Errorf("Wait() = %v, want %v", err, first)
	}
}

func TestTriggerIsIdempotent(t *testing.T) {
	h := NewHandler(time.Second)

	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait() }()

	h.Trigger()
	h.Trigger()

	select {
	case <-errCh:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait() never returned")
	}

	select {
	case <-h.Done():
	default:
		t.Error("Done() not closed after shutdown")
	}
}
