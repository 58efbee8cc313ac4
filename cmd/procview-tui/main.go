package main

import (
	"flag"
	"log"

	"procview/internal/app"
	"procview/internal/config"
	"procview/internal/logging"
	"procview/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML/JSON config file")
	useDaemon := flag.Bool("daemon", false, "Read snapshots from the sampler daemon")
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

	controller := app.New(app.Options{
		Logger:    logger,
		UseDaemon: *useDaemon,
		Interval:  cfg.Interval,
	})
	opts := cfg.TableOptions()
	opts.Limit = 0
	if err := tui.Run(controller, opts, cfg.Interval); err != nil {
		log.Fatalf("tui exited with error: %v", err)
	}
}
