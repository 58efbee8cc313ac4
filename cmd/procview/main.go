package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"procview/internal/app"
	"procview/internal/config"
	"procview/internal/controller"
	"procview/internal/logging"
	"procview/internal/monitor"
	"procview/internal/table"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	logLevel   string
	useDaemon  bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML/JSON config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&useDaemon, "daemon", false, "Read snapshots from the running sampler daemon")
}

// controllerAPI is the part of app.App the commands use.
type controllerAPI interface {
	Ping(ctx context.Context, timeout time.Duration) (string, error)
	View(ctx context.Context, opts table.Options) (table.View, error)
	Live(ctx context.Context, opts table.Options, render monitor.RenderFunc) error
	Resolve(ctx context.Context, name string) ([]int32, error)
	Kill(ctx context.Context, name string) (app.KillResult, error)
	Suspend(ctx context.Context, pid int32) (controller.StateChange, error)
	Resume(ctx context.Context, pid int32) (controller.StateChange, error)
	Launch(ctx context.Context, target string) error
	Status() (app.DaemonStatus, error)
	StopDaemon(force bool) error
	StartDaemon() (*app.DaemonHandle, error)
}

// settings is the resolved configuration shared by every command.
type settings struct {
	cfg    config.Config
	logger *zap.Logger
}

var controllerFactory = func(s settings) controllerAPI {
	return app.New(app.Options{
		Logger:    s.logger,
		UseDaemon: useDaemon,
		Interval:  s.cfg.Interval,
	})
}

var loadSettings = func() (settings, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return settings{}, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return settings{}, err
	}
	return settings{cfg: cfg, logger: logger}, nil
}

func setup() (controllerAPI, settings, error) {
	s, err := loadSettings()
	if err != nil {
		return nil, settings{}, err
	}
	return controllerFactory(s), s, nil
}

var rootCmd = &cobra.Command{
	Use:   "procview",
	Short: "procview: process viewer & monitor",
	Long: `procview lists running processes with CPU, memory and I/O metrics,
sorts and filters them, refreshes them live and can terminate, suspend,
resume or launch programs.`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         runView,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
