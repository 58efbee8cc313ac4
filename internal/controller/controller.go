package controller

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"procview/internal/proctable"

	"go.uber.org/zap"
)

var (
	// ErrNoProcessFound reports a suspend/resume target that does not exist.
	ErrNoProcessFound = errors.New("no process found")
	// ErrLaunchFailed reports a launch target that could not be found or started.
	ErrLaunchFailed = errors.New("launch failed")
)

// Event kinds reported by Terminate.
const (
	EventSuccess  = "success"
	EventVanished = "vanished"
	EventFailure  = "failure"
)

// Controller performs lifecycle operations on OS processes. It never touches
// snapshots or views.
type Controller struct {
	table    proctable.Table
	launcher Launcher
	logger   *zap.Logger
}

// Option customises a Controller.
type Option func(*Controller)

// WithLauncher replaces the platform launcher.
func WithLauncher(l Launcher) Option {
	return func(c *Controller) {
		if l != nil {
			c.launcher = l
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns a Controller acting on table.
func New(table proctable.Table, opts ...Option) *Controller {
	c := &Controller{
		table:    table,
		launcher: NewOpener(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve returns the pids of every process whose name contains query
// (case-sensitive), in ascending order.
func (c *Controller) Resolve(ctx context.Context, query string) ([]int32, error) {
	if query == "" {
		return nil, errors.New("process name must not be empty")
	}
	procs, err := c.resolve(ctx, query)
	if err != nil {
		return nil, err
	}
	pids := make([]int32, 0, len(procs))
	for _, p := range procs {
		pids = append(pids, p.PID())
	}
	return pids, nil
}

func (c *Controller) resolve(ctx context.Context, query string) ([]proctable.Process, error) {
	procs, err := c.table.Processes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	var matches []proctable.Process
	seen := make(map[int32]bool)
	for _, p := range procs {
		pid := p.PID()
		if pid == 0 || seen[pid] {
			continue
		}
		name, err := p.Name(ctx)
		if err != nil || !strings.Contains(name, query) {
			continue
		}
		seen[pid] = true
		matches = append(matches, p)
	}
	slices.SortFunc(matches, func(a, b proctable.Process) int {
		return int(a.PID()) - int(b.PID())
	})
	return matches, nil
}

// TerminateEvent describes the outcome for one matched process.
type TerminateEvent struct {
	Kind string
	PID  int32
	Err  error
}

// TerminateResult aggregates a Terminate call.
type TerminateResult struct {
	Events    []TerminateEvent
	Successes int
}

// Terminate sends a graceful termination request to every process whose name
// contains query. Exit is not awaited and nothing is escalated. No match is
// not an error.
func (c *Controller) Terminate(ctx context.Context, query string) (TerminateResult, error) {
	var result TerminateResult
	if query == "" {
		return result, errors.New("process name must not be empty")
	}
	procs, err := c.resolve(ctx, query)
	if err != nil {
		return result, err
	}
	for _, p := range procs {
		pid := p.PID()
		err := p.Terminate(ctx)
		switch {
		case err == nil:
			result.Events = append(result.Events, TerminateEvent{Kind: EventSuccess, PID: pid})
			result.Successes++
		case errors.Is(err, proctable.ErrVanished):
			result.Events = append(result.Events, TerminateEvent{Kind: EventVanished, PID: pid})
		default:
			c.logger.Warn("terminate failed", zap.Int32("pid", pid), zap.Error(err))
			result.Events = append(result.Events, TerminateEvent{Kind: EventFailure, PID: pid, Err: err})
		}
	}

	failures := 0
	for _, ev := range result.Events {
		if ev.Kind == EventFailure {
			failures++
		}
	}
	switch {
	case failures == 0:
		return result, nil
	case result.Successes == 0:
		return result, errors.New("no processes were terminated")
	default:
		return result, fmt.Errorf("partially successful: terminated %d/%d processes", result.Successes, len(result.Events))
	}
}

// StateChange reports the status of a process after suspend/resume.
type StateChange struct {
	PID    int32
	Name   string
	Status string
}

// Suspend stops scheduling pid.
func (c *Controller) Suspend(ctx context.Context, pid int32) (StateChange, error) {
	return c.toggle(ctx, pid, "suspend", proctable.Process.Suspend)
}

// Resume continues a suspended pid.
func (c *Controller) Resume(ctx context.Context, pid int32) (StateChange, error) {
	return c.toggle(ctx, pid, "resume", proctable.Process.Resume)
}

func (c *Controller) toggle(ctx context.Context, pid int32, op string, fn func(proctable.Process, context.Context) error) (StateChange, error) {
	change := StateChange{PID: pid}
	p, err := c.table.Find(ctx, pid)
	if err != nil {
		if errors.Is(err, proctable.ErrNotFound) {
			return change, fmt.Errorf("%w with pid %d", ErrNoProcessFound, pid)
		}
		return change, fmt.Errorf("look up pid %d: %w", pid, err)
	}
	if err := fn(p, ctx); err != nil {
		if errors.Is(err, proctable.ErrVanished) {
			return change, fmt.Errorf("%w with pid %d", ErrNoProcessFound, pid)
		}
		return change, fmt.Errorf("%s pid %d: %w", op, pid, err)
	}
	change.Name, _ = p.Name(ctx)
	status, err := p.Status(ctx)
	if err != nil {
		status = proctable.StatusUnknown
	}
	change.Status = status
	c.logger.Debug("process state changed", zap.String("op", op), zap.Int32("pid", pid), zap.String("status", status))
	return change, nil
}

// Launch asks the OS to open target with its default association.
func (c *Controller) Launch(ctx context.Context, target string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return fmt.Errorf("%w: empty target", ErrLaunchFailed)
	}
	if err := c.launcher.Launch(ctx, target); err != nil {
		if errors.Is(err, ErrLaunchFailed) {
			return err
		}
		return fmt.Errorf("%w: %s: %v", ErrLaunchFailed, target, err)
	}
	return nil
}
