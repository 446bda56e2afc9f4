package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailydsa/errs"
)

func TestRegisterRejectsBadSpec(t *testing.T) {
	s := New(time.UTC, nil)
	err := s.Register("bad", "every day please", func(context.Context) error { return nil })
	assert.ErrorIs(t, err, errs.ErrConfigValidation)
}

func TestRegisterDuplicate(t *testing.T) {
	s := New(time.UTC, nil)
	noop := func(context.Context) error { return nil }
	require.NoError(t, s.Register("daily", "0 0 * * *", noop))
	assert.ErrorIs(t, s.Register("daily", "0 0 * * *", noop), ErrDuplicateJob)
}

func TestRunNowTransitions(t *testing.T) {
	s := New(time.UTC, nil)

	var observed State
	require.NoError(t, s.Register("daily", "0 0 * * *", func(context.Context) error {
		observed, _ = s.State("daily")
		return nil
	}))

	require.NoError(t, s.RunNow("daily"))
	assert.Equal(t, StateFiring, observed)

	st, err := s.State("daily")
	require.NoError(t, err)
	assert.Equal(t, StateIdle, st)

	status, err := s.Status("daily")
	require.NoError(t, err)
	assert.False(t, status.LastRun.IsZero())
	assert.NoError(t, status.LastErr)
}

func TestRunNowNoOverlap(t *testing.T) {
	s := New(time.UTC, nil)
	release := make(chan struct{})
	started := make(chan struct{})
	var runs atomic.Int32

	require.NoError(t, s.Register("slow", "@every 1h", func(context.Context) error {
		runs.Add(1)
		close(started)
		<-release
		return nil
	}))

	done := make(chan error)
	go func() { done <- s.RunNow("slow") }()
	<-started

	assert.ErrorIs(t, s.RunNow("slow"), ErrAlreadyRunning)
	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), runs.Load())
}

func TestRunNowRecordsError(t *testing.T) {
	s := New(time.UTC, nil)
	boom := errors.New("boom")
	require.NoError(t, s.Register("penalty", "59 23 * * *", func(context.Context) error { return boom }))

	assert.ErrorIs(t, s.RunNow("penalty"), boom)
	status, err := s.Status("penalty")
	require.NoError(t, err)
	assert.ErrorIs(t, status.LastErr, boom)
	assert.Equal(t, StateIdle, status.State)
}

func TestUnknownJob(t *testing.T) {
	s := New(time.UTC, nil)
	assert.ErrorIs(t, s.RunNow("nope"), ErrUnknownJob)
	_, err := s.State("nope")
	assert.ErrorIs(t, err, ErrUnknownJob)
}

func TestNextUsesLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	s := New(ist, nil)
	require.NoError(t, s.Register("daily", "0 0 * * *", func(context.Context) error { return nil }))

	s.Start()
	defer s.Stop(context.Background())

	status, err := s.Status("daily")
	require.NoError(t, err)
	next := status.Next.In(ist)
	assert.Equal(t, 0, next.Hour())
	assert.Equal(t, 0, next.Minute())
}

func TestStopCancelsJobContext(t *testing.T) {
	s := New(time.UTC, nil)
	var ctxErr error
	require.NoError(t, s.Register("daily", "0 0 * * *", func(ctx context.Context) error {
		ctxErr = ctx.Err()
		return nil
	}))
	s.Start()
	require.NoError(t, s.Stop(context.Background()))

	require.NoError(t, s.RunNow("daily"))
	assert.ErrorIs(t, ctxErr, context.Canceled)
}

func TestStartWhileRegistering(t *testing.T) {
	s := New(time.UTC, nil)
	noop := func(context.Context) error { return nil }

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			_ = s.Register(fmt.Sprintf("job-%d", i), "@daily", noop)
		}
	}()
	s.Start()
	<-done

	require.NoError(t, s.Stop(context.Background()))
	_, err := s.Status("job-9")
	assert.NoError(t, err)
}
