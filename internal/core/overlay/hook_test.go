package overlay

import (
	"context"
	"errors"
	"testing"

	"github.com/edvros/viewgate-go/internal/core/domain"
)

func TestProtectPassesThroughOutputs(t *testing.T) {
	oracle := &mockOracle{}
	c := newTestController(t, oracle)
	s := &State{Current: "tok-123", Last: "tok-123"}

	double := func(_ context.Context, n int) (int, error) { return n * 2, nil }
	wrapped := Protect(c, s, double)

	res, err := wrapped(context.Background(), 21)
	if err != nil {
		t.Fatalf("wrapped() error: %v", err)
	}
	if res.Output != 42 {
		t.Errorf("output = %d, want 42", res.Output)
	}
	if res.Session == nil || res.Session.Changed {
		t.Errorf("live session probe changed state: %+v", res.Session)
	}
	if oracle.checkCalls != 1 {
		t.Errorf("check calls = %d, want 1", oracle.checkCalls)
	}
}

func TestProtectPreservesCallbackError(t *testing.T) {
	c := newTestController(t, &mockOracle{})
	s := &State{Current: "tok-123", Last: "tok-123"}

	boom := errors.New("callback failed")
	wrapped := Protect(c, s, func(_ context.Context, _ string) (string, error) {
		return "", boom
	})

	res, err := wrapped(context.Background(), "in")
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want callback error", err)
	}
	// The probe still ran despite the callback failure.
	if res.Session == nil {
		t.Error("session decision missing")
	}
}

func TestProtectSurfacesExpiry(t *testing.T) {
	oracle := &mockOracle{
		checkFn: func(domain.Token) (domain.Token, error) { return domain.NullToken, nil },
	}
	c := newTestController(t, oracle)
	s := &State{Current: "tok-123", Last: "tok-123"}

	wrapped := Protect(c, s, func(_ context.Context, n int) (int, error) { return n, nil })

	res, err := wrapped(context.Background(), 7)
	if err != nil {
		t.Fatalf("wrapped() error: %v", err)
	}
	if res.Output != 7 {
		t.Errorf("output = %d, want 7", res.Output)
	}
	if res.Session == nil || !res.Session.Changed || res.Session.Reason != ReasonSessionExpired {
		t.Errorf("expiry not surfaced: %+v", res.Session)
	}
	if !s.Current.IsNull() {
		t.Errorf("slots not cleared after expiry: %s", s.Current)
	}
}
