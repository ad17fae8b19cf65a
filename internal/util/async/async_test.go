package async

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestRun_Success(t *testing.T) {
	t.Parallel()
	var count atomic.Int32

	tasks := []Task{
		{Name: "store", Func: func(_ context.Context) error {
			count.Add(1)
			return nil
		}},
		{Name: "identity", Func: func(_ context.Context) error {
			count.Add(1)
			return nil
		}},
		{Name: "catalog", Func: func(_ context.Context) error {
			count.Add(1)
			return nil
		}},
	}

	if err := Run(context.Background(), tasks); err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
	if count.Load() != 3 {
		t.Errorf("expected 3 tasks to run, got %d", count.Load())
	}
}

func TestRun_EmptyTasks(t *testing.T) {
	t.Parallel()
	if err := Run(context.Background(), nil); err != nil {
		t.Errorf("expected no error for empty tasks, got: %v", err)
	}
}

func TestRun_CollectsAllErrors(t *testing.T) {
	t.Parallel()
	err1 := errors.New("bucket missing")
	err2 := errors.New("unauthorized")

	tasks := []Task{
		{Name: "store", Func: func(_ context.Context) error { return err1 }},
		{Name: "catalog", Func: func(_ context.Context) error { return nil }},
		{Name: "identity", Func: func(_ context.Context) error { return err2 }},
	}

	err := Run(context.Background(), tasks)
	if !errors.Is(err, err1) || !errors.Is(err, err2) {
		t.Fatalf("expected both errors, got: %v", err)
	}
	want := "store: bucket missing\nidentity: unauthorized"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestRun_ContextCancellation(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tasks := []Task{
		{Name: "slow", Func: func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
				return nil
			}
		}},
	}

	if err := Run(ctx, tasks); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
}

func TestRun_Concurrent(t *testing.T) {
	t.Parallel()
	var current, maxConcurrent atomic.Int32

	tasks := make([]Task, 4)
	for i := range tasks {
		tasks[i] = Task{Name: "task", Func: func(_ context.Context) error {
			c := current.Add(1)
			for {
				old := maxConcurrent.Load()
				if c <= old || maxConcurrent.CompareAndSwap(old, c) {
					break
				}
			}
			time.Sleep(30 * time.Millisecond)
			current.Add(-1)
			return nil
		}}
	}

	if err := Run(context.Background(), tasks); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if maxConcurrent.Load() < 2 {
		t.Errorf("expected tasks to overlap, max concurrency was %d", maxConcurrent.Load())
	}
}
