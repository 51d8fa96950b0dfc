package labeler

import (
	"context"
	"errors"
	"testing"
)

func TestFunc(t *testing.T) {
	var got string
	lab := Func(func(ctx context.Context, request string) (string, error) {
		got = request
		return "answer", nil
	})

	out, err := lab.Label(context.Background(), "request")
	if err != nil {
		t.Fatalf("Label: %v", err)
	}
	if got != "request" || out != "answer" {
		t.Errorf("Func passed %q and returned %q", got, out)
	}
}

func TestThrottleDisabled(t *testing.T) {
	inner := Func(func(ctx context.Context, request string) (string, error) {
		return request, nil
	})
	if _, ok := Throttle(inner, 0, 5).(*Throttled); ok {
		t.Error("zero rate should not wrap the labeler")
	}
	if _, ok := Throttle(inner, -1, 5).(*Throttled); ok {
		t.Error("negative rate should not wrap the labeler")
	}
}

func TestThrottlePassesThrough(t *testing.T) {
	calls := 0
	inner := Func(func(ctx context.Context, request string) (string, error) {
		calls++
		return "ok:" + request, nil
	})

	lab := Throttle(inner, 1000, 0)
	for i := 0; i < 3; i++ {
		out, err := lab.Label(context.Background(), "x")
		if err != nil {
			t.Fatalf("Label: %v", err)
		}
		if out != "ok:x" {
			t.Errorf("unexpected output %q", out)
		}
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestThrottleCancelled(t *testing.T) {
	called := false
	inner := Func(func(ctx context.Context, request string) (string, error) {
		called = true
		return "", nil
	})

	lab := Throttle(inner, 0.001, 1)
	if _, err := lab.Label(context.Background(), "first"); err != nil {
		t.Fatalf("first call: %v", err)
	}
	called = false

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := lab.Label(ctx, "second")
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if called {
		t.Error("wrapped labeler should not run when the wait fails")
	}
}
