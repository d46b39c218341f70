package probe

import (
	"context"
	"errors"
	"testing"
)

func TestRunAllPasses(t *testing.T) {
	err := RunAll(context.Background(), []Check{
		{Name: "ok", Run: func(ctx context.Context) error { return nil }, Critical: true},
	})
	if err != nil {
		t.Fatalf("RunAll returned error for passing checks: %v", err)
	}
}

func TestRunAllCriticalFailure(t *testing.T) {
	boom := errors.New("boom")
	err := RunAll(context.Background(), []Check{
		{Name: "broken", Run: func(ctx context.Context) error { return boom }, Critical: true},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected critical failure to surface, got %v", err)
	}
}

func TestRunAllNonCriticalFailureIgnored(t *testing.T) {
	err := RunAll(context.Background(), []Check{
		{Name: "flaky", Run: func(ctx context.Context) error { return errors.New("degraded") }},
		{Name: "ok", Run: func(ctx context.Context) error { return nil }, Critical: true},
	})
	if err != nil {
		t.Fatalf("Non-critical failure should not abort startup: %v", err)
	}
}

func TestRunAllRespectsTimeout(t *testing.T) {
	err := RunAll(context.Background(), []Check{
		{Name: "slow", Run: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}, Critical: true},
	})
	if err == nil {
		t.Fatal("Expected timed-out check to fail")
	}
}
