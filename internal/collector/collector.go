package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"procview/internal/proctable"

	"go.uber.org/zap"
)

// ErrEnumeration reports that the process list itself could not be read.
var ErrEnumeration = errors.New("process enumeration failed")

// Option customises a Collector.
type Option func(*Collector)

// WithLogger sets the logger used for per-pass diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Collector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Collector) {
		if now != nil {
			c.now = now
		}
	}
}

// Collector reads process records from a process table. It keeps per-pid
// CPU samples between passes and is not safe for concurrent use.
type Collector struct {
	table   proctable.Table
	logger  *zap.Logger
	now     func() time.Time
	samples map[int32]cpuSample
}

// New returns a Collector reading from table.
func New(table proctable.Table, opts ...Option) *Collector {
	c := &Collector{
		table:   table,
		logger:  zap.NewNop(),
		now:     time.Now,
		samples: make(map[int32]cpuSample),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect enumerates the process table once. Per-field failures are replaced
// by defaults and processes that exit mid-pass are skipped; only a failure to
// list processes is returned.
func (c *Collector) Collect(ctx context.Context) (Snapshot, error) {
	procs, err := c.table.Processes(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrEnumeration, err)
	}

	now := c.now()
	boot := c.bootTime(ctx)
	seen := make(map[int32]struct{}, len(procs))
	records := make([]Record, 0, len(procs))
	var vanished, partial int

	for _, p := range procs {
		pid := p.PID()
		if pid == 0 {
			// idle placeholder, not a schedulable process
			continue
		}
		if _, dup := seen[pid]; dup {
			continue
		}
		rec, ok := c.read(ctx, p, now, boot)
		if !ok {
			vanished++
			c.logger.Debug("process exited during collection", zap.Int32("pid", pid))
			continue
		}
		seen[pid] = struct{}{}
		if len(rec.Unreadable) > 0 {
			partial++
		}
		records = append(records, rec)
	}
	c.prune(seen)

	c.logger.Debug("snapshot collected",
		zap.Int("records", len(records)),
		zap.Int("vanished", vanished),
		zap.Int("partial", partial),
	)
	return Snapshot{Taken: now, Records: records}, nil
}

// Tracked returns the number of pids with retained CPU samples.
func (c *Collector) Tracked() int {
	return len(c.samples)
}

// read fills one record. It reports false when the process is gone.
func (c *Collector) read(ctx context.Context, p proctable.Process, now time.Time, boot func() (time.Time, bool)) (Record, bool) {
	f := fieldReader{}
	rec := Record{PID: p.PID()}

	var err error
	if rec.Name, err = p.Name(ctx); !f.ok(FieldName, err) {
		rec.Name = ""
	}
	if rec.Path, err = p.Exe(ctx); !f.ok(FieldPath, err) {
		rec.Path = ""
	}
	if rec.CreateTime, err = p.CreateTime(ctx); !f.ok(FieldCreateTime, err) {
		rec.CreateTime = time.Time{}
		if bt, ok := boot(); ok {
			rec.CreateTime = bt
		}
	}
	if cpus, err := p.CPUAffinity(ctx); f.ok(FieldCores, err) {
		rec.Cores = len(cpus)
	}
	if rec.Status, err = p.Status(ctx); !f.ok(FieldStatus, err) {
		rec.Status = proctable.StatusUnknown
	}
	if rec.Nice, err = p.Nice(ctx); !f.ok(FieldNice, err) {
		rec.Nice = 0
	}
	if rec.MemoryUsage, err = p.PrivateMemory(ctx); !f.ok(FieldMemoryUsage, err) {
		rec.MemoryUsage = 0
	}
	if io, err := p.IOCounters(ctx); f.ok(FieldReadBytes, err) {
		rec.ReadBytes = io.ReadBytes
		rec.WriteBytes = io.WriteBytes
	} else if !f.vanished {
		f.unreadable = append(f.unreadable, FieldWriteBytes)
	}
	if rec.NThreads, err = p.NumThreads(ctx); !f.ok(FieldNThreads, err) {
		rec.NThreads = 0
	}
	if rec.Username, err = p.Username(ctx); !f.ok(FieldUsername, err) || rec.Username == "" {
		rec.Username = UnknownUser
	}
	cpuSecs, err := p.CPUTime(ctx)
	cpuOK := f.ok(FieldCPUUsage, err)

	if f.vanished {
		return Record{}, false
	}
	if cpuOK {
		rec.CPUUsage = c.cpuUsage(rec.PID, rec.CreateTime, cpuSecs, now)
	} else {
		delete(c.samples, rec.PID)
	}
	rec.Unreadable = f.unreadable
	return rec, true
}

// bootTime returns a lazy, memoised boot time lookup for one pass.
func (c *Collector) bootTime(ctx context.Context) func() (time.Time, bool) {
	var (
		done bool
		bt   time.Time
		ok   bool
	)
	return func() (time.Time, bool) {
		if !done {
			done = true
			var err error
			bt, err = c.table.BootTime(ctx)
			ok = err == nil
			if err != nil {
				c.logger.Warn("boot time unavailable", zap.Error(err))
			}
		}
		return bt, ok
	}
}

type fieldReader struct {
	vanished   bool
	unreadable []string
}

// ok reports whether err is nil, recording why not otherwise.
func (f *fieldReader) ok(field string, err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, proctable.ErrVanished) {
		f.vanished = true
		return false
	}
	f.unreadable = append(f.unreadable, field)
	return false
}
