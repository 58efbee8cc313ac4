package app

import (
	"context"
	"fmt"

	"procview/internal/collector"
	"procview/internal/daemon"
	"procview/internal/monitor"
	"procview/internal/table"
)

// Snapshot collects the current process table, in-process or from the daemon.
func (a *App) Snapshot(ctx context.Context) (collector.Snapshot, error) {
	if !a.useDaemon {
		a.collectMu.Lock()
		defer a.collectMu.Unlock()
		return a.local().Collect(ctx)
	}
	var snap collector.Snapshot
	err := a.withClient(ctx, a.timeout, func(ctx context.Context, client daemon.SnapshotsClient) error {
		var err error
		snap, err = daemon.FetchSnapshot(ctx, client)
		if err != nil {
			return fmt.Errorf("daemon collect RPC failed: %w", err)
		}
		return nil
	})
	return snap, err
}

// Collect makes App a monitor.Source.
func (a *App) Collect(ctx context.Context) (collector.Snapshot, error) {
	return a.Snapshot(ctx)
}

// View collects a snapshot and builds one view from it.
func (a *App) View(ctx context.Context, opts table.Options) (table.View, error) {
	if err := table.Validate(opts); err != nil {
		return table.View{}, err
	}
	frame, err := a.Monitor(opts).Tick(ctx)
	if err != nil {
		return table.View{}, err
	}
	return frame.View, nil
}

// Monitor returns a live monitor reading through this App.
func (a *App) Monitor(opts table.Options) *monitor.Monitor {
	return monitor.New(a, opts,
		monitor.WithInterval(a.interval),
		monitor.WithLogger(a.logger),
	)
}

// Live renders a fresh view every interval until ctx is cancelled or render
// fails.
func (a *App) Live(ctx context.Context, opts table.Options, render monitor.RenderFunc) error {
	if err := table.Validate(opts); err != nil {
		return err
	}
	return a.Monitor(opts).Run(ctx, render)
}
