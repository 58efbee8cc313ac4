package app

import (
	"sync"
	"time"

	"procview/internal/collector"
	"procview/internal/controller"
	"procview/internal/proctable"

	"go.uber.org/zap"
)

const defaultDaemonTimeout = 2 * time.Second

// Options configures the top-level controller.
type Options struct {
	// Table defaults to the live OS process table.
	Table  proctable.Table
	Logger *zap.Logger
	// UseDaemon reads snapshots from the sampler daemon instead of collecting
	// them in-process.
	UseDaemon     bool
	DaemonTimeout time.Duration
	// Interval is the live-mode refresh period and the daemon's sampling period.
	Interval time.Duration
	// Launcher replaces the platform opener used by Launch.
	Launcher controller.Launcher
}

// App exposes high-level operations that the CLI/TUI can reuse.
type App struct {
	table     proctable.Table
	logger    *zap.Logger
	useDaemon bool
	timeout   time.Duration
	interval  time.Duration

	ctl *controller.Controller

	once      sync.Once
	collector *collector.Collector
	// collectMu serialises passes over the shared collector's CPU samples.
	collectMu sync.Mutex
}

// New constructs the shared controller facade.
func New(opts Options) *App {
	a := &App{
		table:     opts.Table,
		logger:    opts.Logger,
		useDaemon: opts.UseDaemon,
		timeout:   opts.DaemonTimeout,
		interval:  opts.Interval,
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	if a.table == nil {
		a.table = proctable.NewSystem()
	}
	if a.timeout <= 0 {
		a.timeout = defaultDaemonTimeout
	}
	a.ctl = controller.New(a.table,
		controller.WithLogger(a.logger),
		controller.WithLauncher(opts.Launcher),
	)
	return a
}

// local returns the in-process collector. It lives as long as the App so
// repeated collections produce CPU deltas.
func (a *App) local() *collector.Collector {
	a.once.Do(func() {
		a.collector = collector.New(a.table, collector.WithLogger(a.logger))
	})
	return a.collector
}
