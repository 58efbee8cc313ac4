package proctable

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	// ErrVanished reports that a process exited between being listed and being read.
	ErrVanished = errors.New("process vanished")
	// ErrNotFound reports that no process with the requested pid exists.
	ErrNotFound = errors.New("process not found")
)

// IOCounters holds cumulative I/O byte counters of one process.
type IOCounters struct {
	ReadBytes  uint64
	WriteBytes uint64
}

// Process is a handle to one OS process. Every read is independent and may
// fail on its own; a read of a process that already exited returns an error
// wrapping ErrVanished.
type Process interface {
	PID() int32
	Name(ctx context.Context) (string, error)
	Exe(ctx context.Context) (string, error)
	CreateTime(ctx context.Context) (time.Time, error)
	CPUAffinity(ctx context.Context) ([]int32, error)
	// CPUTime returns user+system CPU seconds consumed so far.
	CPUTime(ctx context.Context) (float64, error)
	Status(ctx context.Context) (string, error)
	Nice(ctx context.Context) (int32, error)
	// PrivateMemory returns the unique resident set size in bytes.
	PrivateMemory(ctx context.Context) (uint64, error)
	IOCounters(ctx context.Context) (IOCounters, error)
	NumThreads(ctx context.Context) (int32, error)
	Username(ctx context.Context) (string, error)

	Terminate(ctx context.Context) error
	Suspend(ctx context.Context) error
	Resume(ctx context.Context) error
}

// Table lists the processes visible to the caller.
type Table interface {
	Processes(ctx context.Context) ([]Process, error)
	// Find returns ErrNotFound when pid does not exist.
	Find(ctx context.Context, pid int32) (Process, error)
	BootTime(ctx context.Context) (time.Time, error)
}

// Status labels shared by every backend.
const (
	StatusRunning   = "running"
	StatusSleeping  = "sleeping"
	StatusDiskSleep = "disk-sleep"
	StatusStopped   = "stopped"
	StatusZombie    = "zombie"
	StatusIdle      = "idle"
	StatusWaiting   = "waiting"
	StatusLocked    = "locked"
	StatusUnknown   = "unknown"
)

// Keys are the state names gopsutil derives from ps letters ("D" is blocked).
var statusLabels = map[string]string{
	"running": StatusRunning,
	"sleep":   StatusSleeping,
	"blocked": StatusDiskSleep,
	"stop":    StatusStopped,
	"zombie":  StatusZombie,
	"idle":    StatusIdle,
	"wait":    StatusWaiting,
	"lock":    StatusLocked,
}

// NormalizeStatus maps backend status strings onto the shared labels.
// Unrecognised values pass through unchanged.
func NormalizeStatus(raw string) string {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return StatusUnknown
	}
	if label, ok := statusLabels[raw]; ok {
		return label
	}
	return raw
}
