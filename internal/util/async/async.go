package async

import (
	"context"
	"errors"
	"fmt"
)

// Task is a named operation.
type Task struct {
	Name string
	Func func(context.Context) error
}

// Run executes all tasks concurrently and waits for them to finish. Every
// failure is returned, joined, with the task name as prefix.
//
//	err := async.Run(ctx, []async.Task{
//	    {Name: "store", Func: checkBucket},
//	    {Name: "identity", Func: checkToken},
//	})
func Run(ctx context.Context, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}

	errs := make([]error, len(tasks))
	done := make(chan struct{}, len(tasks))

	for i, task := range tasks {
		go func() {
			defer func() { done <- struct{}{} }()
			if err := task.Func(ctx); err != nil {
				errs[i] = fmt.Errorf("%s: %w", task.Name, err)
			}
		}()
	}

	for range len(tasks) {
		<-done
	}

	return errors.Join(errs...)
}
