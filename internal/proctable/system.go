package proctable

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/process"
)

// System is the gopsutil-backed process table of the local host.
type System struct{}

// NewSystem returns the process table of the running host.
func NewSystem() *System {
	return &System{}
}

// Processes lists every process visible to the caller in OS order.
func (s *System) Processes(ctx context.Context) ([]Process, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Process, 0, len(procs))
	for _, p := range procs {
		out = append(out, &sysProcess{proc: p})
	}
	return out, nil
}

// Find looks up a single pid.
func (s *System) Find(ctx context.Context, pid int32) (Process, error) {
	if pid <= 0 {
		return nil, fmt.Errorf("pid %d: %w", pid, ErrNotFound)
	}
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		if errors.Is(err, process.ErrorProcessNotRunning) {
			return nil, fmt.Errorf("pid %d: %w", pid, ErrNotFound)
		}
		return nil, err
	}
	return &sysProcess{proc: p}, nil
}

// BootTime returns the host boot time.
func (s *System) BootTime(ctx context.Context) (time.Time, error) {
	secs, err := host.BootTimeWithContext(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(secs), 0), nil
}

type sysProcess struct {
	proc *process.Process
}

func (p *sysProcess) PID() int32 { return p.proc.Pid }

func (p *sysProcess) Name(ctx context.Context) (string, error) {
	name, err := p.proc.NameWithContext(ctx)
	return name, p.check(ctx, err)
}

func (p *sysProcess) Exe(ctx context.Context) (string, error) {
	exe, err := p.proc.ExeWithContext(ctx)
	return exe, p.check(ctx, err)
}

func (p *sysProcess) CreateTime(ctx context.Context) (time.Time, error) {
	ms, err := p.proc.CreateTimeWithContext(ctx)
	if err != nil {
		return time.Time{}, p.check(ctx, err)
	}
	return time.UnixMilli(ms), nil
}

func (p *sysProcess) CPUAffinity(ctx context.Context) ([]int32, error) {
	cpus, err := p.proc.CPUAffinityWithContext(ctx)
	return cpus, p.check(ctx, err)
}

func (p *sysProcess) CPUTime(ctx context.Context) (float64, error) {
	times, err := p.proc.TimesWithContext(ctx)
	if err != nil {
		return 0, p.check(ctx, err)
	}
	return times.User + times.System, nil
}

func (p *sysProcess) Status(ctx context.Context) (string, error) {
	st, err := p.proc.StatusWithContext(ctx)
	if err != nil {
		return "", p.check(ctx, err)
	}
	if len(st) == 0 {
		return StatusUnknown, nil
	}
	return NormalizeStatus(st[0]), nil
}

func (p *sysProcess) Nice(ctx context.Context) (int32, error) {
	nice, err := p.proc.NiceWithContext(ctx)
	return nice, p.check(ctx, err)
}

// PrivateMemory sums the private clean and dirty pages of every mapping.
// gopsutil reports smaps values in kB.
func (p *sysProcess) PrivateMemory(ctx context.Context) (uint64, error) {
	maps, err := p.proc.MemoryMapsWithContext(ctx, true)
	if err != nil {
		return 0, p.check(ctx, err)
	}
	if maps == nil {
		return 0, errors.New("no memory maps")
	}
	var kb uint64
	for _, m := range *maps {
		kb += m.PrivateClean + m.PrivateDirty
	}
	return kb * 1024, nil
}

func (p *sysProcess) IOCounters(ctx context.Context) (IOCounters, error) {
	io, err := p.proc.IOCountersWithContext(ctx)
	if err != nil {
		return IOCounters{}, p.check(ctx, err)
	}
	return IOCounters{ReadBytes: io.ReadBytes, WriteBytes: io.WriteBytes}, nil
}

func (p *sysProcess) NumThreads(ctx context.Context) (int32, error) {
	n, err := p.proc.NumThreadsWithContext(ctx)
	return n, p.check(ctx, err)
}

func (p *sysProcess) Username(ctx context.Context) (string, error) {
	u, err := p.proc.UsernameWithContext(ctx)
	return u, p.check(ctx, err)
}

func (p *sysProcess) Terminate(ctx context.Context) error {
	return p.check(ctx, p.proc.TerminateWithContext(ctx))
}

func (p *sysProcess) Suspend(ctx context.Context) error {
	return p.check(ctx, p.proc.SuspendWithContext(ctx))
}

func (p *sysProcess) Resume(ctx context.Context) error {
	return p.check(ctx, p.proc.ResumeWithContext(ctx))
}

// check turns "does not exist" failures into ErrVanished, but only once the
// pid is confirmed gone: kernel threads report ENOENT for exe while alive.
func (p *sysProcess) check(ctx context.Context, err error) error {
	if err == nil || !isGone(err) {
		return err
	}
	alive, exErr := process.PidExistsWithContext(ctx, p.proc.Pid)
	if exErr == nil && !alive {
		return fmt.Errorf("pid %d: %w", p.proc.Pid, ErrVanished)
	}
	return err
}

func isGone(err error) bool {
	return errors.Is(err, process.ErrorProcessNotRunning) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, syscall.ESRCH)
}
