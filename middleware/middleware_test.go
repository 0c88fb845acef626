package middleware_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/xraph/kickstart/id"
	"github.com/xraph/kickstart/lifecycle"
	"github.com/xraph/kickstart/middleware"
)

func newTestCall() *middleware.Call {
	ev := &lifecycle.InjectorCreatedEvent{}
	ev.RunID = id.NewRunID()
	return &middleware.Call{Listener: "audit", Event: ev}
}

func TestChain_ExecutionOrder(t *testing.T) {
	var order []string

	mw1 := func(ctx context.Context, _ *middleware.Call, next middleware.Handler) error {
		order = append(order, "mw1-before")
		err := next(ctx)
		order = append(order, "mw1-after")
		return err
	}
	mw2 := func(ctx context.Context, _ *middleware.Call, next middleware.Handler) error {
		order = append(order, "mw2-before")
		err := next(ctx)
		order = append(order, "mw2-after")
		return err
	}

	chain := middleware.Chain(mw1, mw2)
	err := chain(context.Background(), newTestCall(), func(_ context.Context) error {
		order = append(order, "listener")
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{"mw1-before", "mw2-before", "listener", "mw2-after", "mw1-after"}
	if len(order) != len(expected) {
		t.Fatalf("expected %d calls, got %d: %v", len(expected), len(order), order)
	}
	for i, want := range expected {
		if order[i] != want {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want)
		}
	}
}

func TestChain_Empty(t *testing.T) {
	called := false
	err := middleware.Chain()(context.Background(), newTestCall(), func(_ context.Context) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("listener not called with empty chain")
	}
}

func TestChain_ShortCircuit(t *testing.T) {
	stop := errors.New("stop")
	block := func(context.Context, *middleware.Call, middleware.Handler) error { return stop }

	called := false
	err := middleware.Chain(block)(context.Background(), newTestCall(), func(_ context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, stop) {
		t.Fatalf("expected %v, got %v", stop, err)
	}
	if called {
		t.Fatal("listener must not run after a short-circuit")
	}
}

func TestCall_Checkpoint(t *testing.T) {
	if got := newTestCall().Checkpoint(); got != lifecycle.InjectorCreated {
		t.Fatalf("Checkpoint() = %s, want InjectorCreated", got)
	}
}

func TestRecover_CatchesPanic(t *testing.T) {
	mw := middleware.Recover(slog.Default())

	err := mw(context.Background(), newTestCall(), func(_ context.Context) error {
		panic("test panic")
	})
	if err == nil {
		t.Fatal("expected error from panic recovery")
	}
	if got := err.Error(); got != "panic in listener audit at InjectorCreated: test panic" {
		t.Errorf("unexpected error message: %q", got)
	}
}

func TestRecover_PassesThrough(t *testing.T) {
	mw := middleware.Recover(slog.Default())

	called := false
	err := mw(context.Background(), newTestCall(), func(_ context.Context) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("listener not called")
	}
}

func TestLogging_Success(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	err := middleware.Logging(logger)(context.Background(), newTestCall(), func(_ context.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "listener=audit") || !strings.Contains(out, "checkpoint=InjectorCreated") {
		t.Errorf("log output missing attributes: %s", out)
	}
}

func TestLogging_Error(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	want := errors.New("fail")

	err := middleware.Logging(logger)(context.Background(), newTestCall(), func(_ context.Context) error {
		return want
	})
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
	if !strings.Contains(buf.String(), "listener failed") {
		t.Errorf("expected failure to be logged, got: %s", buf.String())
	}
}

func TestTimeout_SetsDeadline(t *testing.T) {
	mw := middleware.Timeout(slog.Default(), time.Second)

	err := mw(context.Background(), newTestCall(), func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("expected a deadline on the listener context")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTimeout_Disabled(t *testing.T) {
	mw := middleware.Timeout(slog.Default(), 0)

	err := mw(context.Background(), newTestCall(), func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); ok {
			t.Error("expected no deadline when timeout is disabled")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
