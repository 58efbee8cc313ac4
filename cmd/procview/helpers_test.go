package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"procview/internal/app"
	"procview/internal/config"
	"procview/internal/controller"
	"procview/internal/monitor"
	"procview/internal/table"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type stubController struct {
	pingFunc    func(ctx context.Context, timeout time.Duration) (string, error)
	viewFunc    func(ctx context.Context, opts table.Options) (table.View, error)
	killFunc    func(ctx context.Context, name string) (app.KillResult, error)
	suspendFunc func(ctx context.Context, pid int32) (controller.StateChange, error)
	launchFunc  func(ctx context.Context, target string) error

	views []table.Options
}

func (s *stubController) Ping(ctx context.Context, timeout time.Duration) (string, error) {
	if s.pingFunc != nil {
		return s.pingFunc(ctx, timeout)
	}
	return "", errors.New("ping not implemented")
}

func (s *stubController) View(ctx context.Context, opts table.Options) (table.View, error) {
	s.views = append(s.views, opts)
	if s.viewFunc != nil {
		return s.viewFunc(ctx, opts)
	}
	return table.View{Columns: opts.Columns}, nil
}

func (s *stubController) Live(ctx context.Context, opts table.Options, render monitor.RenderFunc) error {
	panic("Live not implemented")
}

func (s *stubController) Resolve(ctx context.Context, name string) ([]int32, error) {
	panic("Resolve not implemented")
}

func (s *stubController) Kill(ctx context.Context, name string) (app.KillResult, error) {
	if s.killFunc != nil {
		return s.killFunc(ctx, name)
	}
	panic("Kill not implemented")
}

func (s *stubController) Suspend(ctx context.Context, pid int32) (controller.StateChange, error) {
	if s.suspendFunc != nil {
		return s.suspendFunc(ctx, pid)
	}
	panic("Suspend not implemented")
}

func (s *stubController) Resume(ctx context.Context, pid int32) (controller.StateChange, error) {
	panic("Resume not implemented")
}

func (s *stubController) Launch(ctx context.Context, target string) error {
	if s.launchFunc != nil {
		return s.launchFunc(ctx, target)
	}
	panic("Launch not implemented")
}

func (s *stubController) Status() (app.DaemonStatus, error) {
	panic("Status not implemented")
}

func (s *stubController) StopDaemon(force bool) error {
	panic("StopDaemon not implemented")
}

func (s *stubController) StartDaemon() (*app.DaemonHandle, error) {
	panic("StartDaemon not implemented")
}

func withController(t *testing.T, stub controllerAPI) {
	t.Helper()
	origFactory, origSettings := controllerFactory, loadSettings
	controllerFactory = func(settings) controllerAPI {
		return stub
	}
	loadSettings = func() (settings, error) {
		return settings{cfg: config.Default(), logger: zap.NewNop()}, nil
	}
	t.Cleanup(func() {
		controllerFactory = origFactory
		loadSettings = origSettings
	})
}

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags := func() {
		for _, c := range append(rootCmd.Commands(), rootCmd) {
			reset := func(f *pflag.Flag) {
				_ = f.Value.Set(f.DefValue)
				f.Changed = false
			}
			c.Flags().VisitAll(reset)
			c.PersistentFlags().VisitAll(reset)
		}
	}
	resetFlags()
	t.Cleanup(resetFlags)

	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}
