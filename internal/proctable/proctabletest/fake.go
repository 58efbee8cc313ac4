// Package proctabletest provides an in-memory proctable.Table for tests.
package proctabletest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"procview/internal/proctable"
)

// Method names accepted as keys of Process.Errs.
const (
	MethodName          = "Name"
	MethodExe           = "Exe"
	MethodCreateTime    = "CreateTime"
	MethodCPUAffinity   = "CPUAffinity"
	MethodCPUTime       = "CPUTime"
	MethodStatus        = "Status"
	MethodNice          = "Nice"
	MethodPrivateMemory = "PrivateMemory"
	MethodIOCounters    = "IOCounters"
	MethodNumThreads    = "NumThreads"
	MethodUsername      = "Username"
	MethodTerminate     = "Terminate"
	MethodSuspend       = "Suspend"
	MethodResume        = "Resume"
)

// Process is a scripted process. Zero values are returned as-is; an entry in
// Errs makes the named method fail with that error.
type Process struct {
	Pid        int32
	Command    string
	ExePath    string
	Created    time.Time
	Affinity   []int32
	CPUSeconds float64
	State      string
	Priority   int32
	USS        uint64
	IO         proctable.IOCounters
	Threads    int32
	User       string

	Errs map[string]error

	mu         sync.Mutex
	Terminated int
	Suspended  int
	Resumed    int
}

func (p *Process) fail(method string) error {
	if p.Errs == nil {
		return nil
	}
	return p.Errs[method]
}

func (p *Process) PID() int32 { return p.Pid }

func (p *Process) Name(context.Context) (string, error) {
	return p.Command, p.fail(MethodName)
}

func (p *Process) Exe(context.Context) (string, error) {
	return p.ExePath, p.fail(MethodExe)
}

func (p *Process) CreateTime(context.Context) (time.Time, error) {
	return p.Created, p.fail(MethodCreateTime)
}

func (p *Process) CPUAffinity(context.Context) ([]int32, error) {
	return p.Affinity, p.fail(MethodCPUAffinity)
}

func (p *Process) CPUTime(context.Context) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.CPUSeconds, p.fail(MethodCPUTime)
}

func (p *Process) Status(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.State, p.fail(MethodStatus)
}

func (p *Process) Nice(context.Context) (int32, error) {
	return p.Priority, p.fail(MethodNice)
}

func (p *Process) PrivateMemory(context.Context) (uint64, error) {
	return p.USS, p.fail(MethodPrivateMemory)
}

func (p *Process) IOCounters(context.Context) (proctable.IOCounters, error) {
	return p.IO, p.fail(MethodIOCounters)
}

func (p *Process) NumThreads(context.Context) (int32, error) {
	return p.Threads, p.fail(MethodNumThreads)
}

func (p *Process) Username(context.Context) (string, error) {
	return p.User, p.fail(MethodUsername)
}

func (p *Process) Terminate(context.Context) error {
	if err := p.fail(MethodTerminate); err != nil {
		return err
	}
	p.mu.Lock()
	p.Terminated++
	p.mu.Unlock()
	return nil
}

func (p *Process) Suspend(context.Context) error {
	if err := p.fail(MethodSuspend); err != nil {
		return err
	}
	p.mu.Lock()
	p.Suspended++
	p.State = proctable.StatusStopped
	p.mu.Unlock()
	return nil
}

func (p *Process) Resume(context.Context) error {
	if err := p.fail(MethodResume); err != nil {
		return err
	}
	p.mu.Lock()
	p.Resumed++
	p.State = proctable.StatusRunning
	p.mu.Unlock()
	return nil
}

// AddCPU advances the consumed CPU time.
func (p *Process) AddCPU(seconds float64) {
	p.mu.Lock()
	p.CPUSeconds += seconds
	p.mu.Unlock()
}

// Table is a mutable in-memory process table.
type Table struct {
	mu    sync.Mutex
	procs []*Process

	Boot    time.Time
	ListErr error
	BootErr error
	Lists   int
}

// New returns a table listing procs in the given order.
func New(procs ...*Process) *Table {
	return &Table{procs: procs}
}

// Processes implements proctable.Table.
func (t *Table) Processes(context.Context) ([]proctable.Process, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Lists++
	if t.ListErr != nil {
		return nil, t.ListErr
	}
	out := make([]proctable.Process, 0, len(t.procs))
	for _, p := range t.procs {
		out = append(out, p)
	}
	return out, nil
}

// Find implements proctable.Table.
func (t *Table) Find(_ context.Context, pid int32) (proctable.Process, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range t.procs {
		if p.Pid == pid {
			return p, nil
		}
	}
	return nil, fmt.Errorf("pid %d: %w", pid, proctable.ErrNotFound)
}

// BootTime implements proctable.Table.
func (t *Table) BootTime(context.Context) (time.Time, error) {
	return t.Boot, t.BootErr
}

// Add appends processes to the table.
func (t *Table) Add(procs ...*Process) {
	t.mu.Lock()
	t.procs = append(t.procs, procs...)
	t.mu.Unlock()
}

// Remove drops every process with the given pid.
func (t *Table) Remove(pid int32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	kept := t.procs[:0]
	for _, p := range t.procs {
		if p.Pid != pid {
			kept = append(kept, p)
		}
	}
	t.procs = kept
}

// SetListErr makes the next listings fail with err (nil clears it).
func (t *Table) SetListErr(err error) {
	t.mu.Lock()
	t.ListErr = err
	t.mu.Unlock()
}
