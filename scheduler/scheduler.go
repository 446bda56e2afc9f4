package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	cron "github.com/robfig/cron/v3"
	"go.uber.org/zap/zapcore"

	"dailydsa/errs"
	"dailydsa/logger"
)

const component = "SCHEDULER"

type State int

const (
	StateIdle State = iota
	StateFiring
)

func (s State) String() string {
	if s == StateFiring {
		return "Firing"
	}
	return "Idle"
}

var (
	ErrUnknownJob     = errors.New("unknown job")
	ErrDuplicateJob   = errors.New("job already registered")
	ErrAlreadyRunning = errors.New("job is already running")
)

type JobFunc func(ctx context.Context) error

type job struct {
	name    string
	spec    string
	fn      JobFunc
	mu      sync.Mutex
	state   State
	lastRun time.Time
	lastErr error
	entryID cron.EntryID
}

// Scheduler fires registered jobs at cron trigger times. A job never runs
// concurrently with itself; a trigger that arrives while it is firing is skipped.
type Scheduler struct {
	cron   *cron.Cron
	logger *logger.Logger
	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.RWMutex
	jobs map[string]*job
}

func New(loc *time.Location, log *logger.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = logger.NewNop()
	}
	cl := cronLogger{logger: log}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: log,
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(map[string]*job),
	}
}

// Register binds fn to a standard five-field cron spec (or a descriptor such
// as "@daily").
func (s *Scheduler) Register(name, spec string, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, name)
	}
	j := &job{name: name, spec: spec, fn: fn}
	id, err := s.cron.AddFunc(spec, func() { _ = s.fire(j) })
	if err != nil {
		return fmt.Errorf("%w, bad schedule %q for %s: %w", errs.ErrConfigValidation, spec, name, err)
	}
	j.entryID = id
	s.jobs[name] = j

	s.logger.Log(zapcore.InfoLevel, "", "Job registered", map[string]any{
		"method": "Register",
		"job":    name,
		"spec":   spec,
	}, component, nil)
	return nil
}

func (s *Scheduler) lookup(name string) (*job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	return j, nil
}

// fire moves the job Idle -> Firing, runs it and moves it back.
func (s *Scheduler) fire(j *job) error {
	if !j.mu.TryLock() {
		s.logger.Log(zapcore.WarnLevel, "", "Job still firing, trigger skipped", map[string]any{
			"method": "fire",
			"job":    j.name,
		}, component, nil)
		return ErrAlreadyRunning
	}
	defer j.mu.Unlock()

	traceID := uuid.New().String()
	s.setState(j, StateFiring)
	defer s.setState(j, StateIdle)

	start := time.Now()
	s.logger.Log(zapcore.InfoLevel, traceID, "Job firing", map[string]any{
		"method": "fire",
		"job":    j.name,
	}, component, nil)

	err := j.fn(s.ctx)

	s.mu.Lock()
	j.lastRun = start
	j.lastErr = err
	s.mu.Unlock()

	if err != nil {
		s.logger.Log(zapcore.ErrorLevel, traceID, "Job failed", map[string]any{
			"method":    "fire",
			"job":       j.name,
			"duration":  time.Since(start).String(),
			"errorType": errs.Type(err),
		}, component, err)
		return err
	}
	s.logger.Log(zapcore.InfoLevel, traceID, "Job finished", map[string]any{
		"method":   "fire",
		"job":      j.name,
		"duration": time.Since(start).String(),
	}, component, nil)
	return nil
}

func (s *Scheduler) setState(j *job, st State) {
	s.mu.Lock()
	j.state = st
	s.mu.Unlock()
}

// RunNow fires a job synchronously, outside its schedule.
func (s *Scheduler) RunNow(name string) error {
	j, err := s.lookup(name)
	if err != nil {
		return err
	}
	return s.fire(j)
}

func (s *Scheduler) State(name string) (State, error) {
	j, err := s.lookup(name)
	if err != nil {
		return StateIdle, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return j.state, nil
}

// Status is a point-in-time view of a job.
type Status struct {
	State   State
	LastRun time.Time
	LastErr error
	Next    time.Time
}

func (s *Scheduler) Status(name string) (Status, error) {
	j, err := s.lookup(name)
	if err != nil {
		return Status{}, err
	}
	next := s.cron.Entry(j.entryID).Next

	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		State:   j.state,
		LastRun: j.lastRun,
		LastErr: j.lastErr,
		Next:    next,
	}, nil
}

func (s *Scheduler) Start() {
	s.mu.RLock()
	jobs := len(s.jobs)
	s.mu.RUnlock()

	s.cron.Start()
	s.logger.Log(zapcore.InfoLevel, "", "Scheduler started", map[string]any{
		"method": "Start",
		"jobs":   jobs,
	}, component, nil)
}

// Stop prevents new triggers and waits for running jobs, up to ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	defer s.cancel()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger adapts the bot logger to cron.Logger.
type cronLogger struct {
	logger *logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.logger.Log(zapcore.DebugLevel, "", msg, kvFields(keysAndValues), component, nil)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.logger.Log(zapcore.ErrorLevel, "", msg, kvFields(keysAndValues), component, err)
}

func kvFields(kv []interface{}) map[string]any {
	fields := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return fields
}
