// Package monitor drives the periodic collect/build/render loop.
package monitor

import (
	"context"
	"fmt"
	"time"

	"procview/internal/collector"
	"procview/internal/table"

	"go.uber.org/zap"
)

// DefaultInterval is the pause between two ticks.
const DefaultInterval = 700 * time.Millisecond

// Source produces snapshots. *collector.Collector satisfies it.
type Source interface {
	Collect(ctx context.Context) (collector.Snapshot, error)
}

// Frame is the result of one tick.
type Frame struct {
	Snapshot collector.Snapshot
	View     table.View
	At       time.Time
}

// RenderFunc consumes a frame. A non-nil error stops Run.
type RenderFunc func(Frame) error

// Monitor repeatedly collects a snapshot and builds a view from it.
type Monitor struct {
	source   Source
	interval time.Duration
	logger   *zap.Logger
	opts     table.Options
}

// Option customises a Monitor.
type Option func(*Monitor)

// WithInterval sets the pause between ticks. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Monitor) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New returns a Monitor reading from source and building views with opts.
func New(source Source, opts table.Options, options ...Option) *Monitor {
	m := &Monitor{
		source:   source,
		interval: DefaultInterval,
		logger:   zap.NewNop(),
		opts:     opts,
	}
	for _, o := range options {
		o(m)
	}
	return m
}

// Tick runs a single collect/build iteration.
func (m *Monitor) Tick(ctx context.Context) (Frame, error) {
	snap, err := m.source.Collect(ctx)
	if err != nil {
		return Frame{}, fmt.Errorf("collect: %w", err)
	}
	view, err := table.Build(snap, m.opts)
	if err != nil {
		return Frame{}, fmt.Errorf("build view: %w", err)
	}
	return Frame{Snapshot: snap, View: view, At: snap.Taken}, nil
}

// Run ticks until ctx is cancelled or render fails. A failed tick is logged
// and skipped; the wait starts after each tick's work has finished.
func (m *Monitor) Run(ctx context.Context, render RenderFunc) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		frame, err := m.Tick(ctx)
		switch {
		case err != nil && ctx.Err() != nil:
			return nil
		case err != nil:
			m.logger.Warn("skipping tick", zap.Error(err))
		default:
			if err := render(frame); err != nil {
				return fmt.Errorf("render: %w", err)
			}
		}

		timer := time.NewTimer(m.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}
