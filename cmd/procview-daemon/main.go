package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"procview/internal/config"
	"procview/internal/daemon"
	"procview/internal/logging"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML/JSON config file")
	force := flag.Bool("force", false, "Stop an existing daemon before starting")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	if daemon.IsRunning() {
		if !*force {
			pid, err := daemon.RunningPID()
			if err != nil {
				logger.Fatal("daemon appears running but pid check failed", zap.Error(err))
			}
			logger.Warn("daemon is already running, use --force to restart", zap.Int("pid", pid))
			return
		}
		logger.Info("stopping existing daemon")
		if err := daemon.StopRunningDaemon(true); err != nil {
			logger.Fatal("failed to stop running daemon", zap.Error(err))
		}
	}

	srv, err := daemon.StartDaemon(daemon.Options{Interval: cfg.Interval, Logger: logger})
	if err != nil {
		logger.Fatal("failed to start daemon", zap.Error(err))
	}
	logger.Info("daemon started, press Ctrl+C to stop", zap.Int("pid", os.Getpid()))

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info("stopping daemon")
	if err := srv.Close(); err != nil {
		logger.Fatal("error shutting down daemon", zap.Error(err))
	}
	logger.Info("daemon stopped")
}
