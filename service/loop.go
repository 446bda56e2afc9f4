package service

import (
	"context"
	"errors"
)

var ErrLoopStopped = errors.New("service loop stopped")

type job struct {
	ctx    context.Context
	fn     func(ctx context.Context) error
	result chan error
}

// Loop runs submitted work one item at a time on a single goroutine, so each
// mutation and its persistence finish before the next one starts.
type Loop struct {
	jobs chan job
	done chan struct{}
}

func NewLoop(buffer int) *Loop {
	return &Loop{
		jobs: make(chan job, buffer),
		done: make(chan struct{}),
	}
}

// Run processes work until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-l.jobs:
			if err := j.ctx.Err(); err != nil {
				j.result <- err
				continue
			}
			j.result <- j.fn(j.ctx)
		}
	}
}

// Do queues fn and waits for it to finish. fn is not interrupted once it
// has started.
func (l *Loop) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	j := job{ctx: ctx, fn: fn, result: make(chan error, 1)}
	select {
	case l.jobs <- j:
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-j.result:
		return err
	case <-l.done:
		select {
		case err := <-j.result:
			return err
		default:
			return ErrLoopStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
