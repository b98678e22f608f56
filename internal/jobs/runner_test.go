package jobs

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/serenity-app/serenity-backend/internal/logger"
)

func TestRunner_DispatchRunsJob(t *testing.T) {
	r := NewRunner(logger.NewNop())
	var ran atomic.Bool

	if ok := r.Dispatch("test", func(ctx context.Context) error {
		ran.Store(true)
		return nil
	}); !ok {
		t.Fatalf("dispatch rejected")
	}
	r.Close()

	if !ran.Load() {
		t.Fatalf("job did not run before Close returned")
	}
}

func TestRunner_PanicDoesNotCrash(t *testing.T) {
	r := NewRunner(logger.NewNop())
	r.Dispatch("panicky", func(ctx context.Context) error {
		panic("boom")
	})
	r.Close()
}

func TestRunner_RejectsAfterClose(t *testing.T) {
	r := NewRunner(logger.NewNop())
	r.Close()
	if ok := r.Dispatch("late", func(ctx context.Context) error { return nil }); ok {
		t.Fatalf("expected dispatch after close to be rejected")
	}
}
