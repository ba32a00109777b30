package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trade-relay/src/client"
	"trade-relay/src/config"
	"trade-relay/src/helpers"
	"trade-relay/src/interfaces"
	"trade-relay/src/logger"
	"trade-relay/src/sink"
)

// -----------------------------------------------------------------------------

func main() {

	// Parse command line flags
	configPath := flag.String("config", "../../config/default.yaml", "path to config file")
	flag.Parse()

	// Load config from YAML file
	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ValidateClient(); err != nil {
		fmt.Printf("Invalid config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(cfg.LogLevel, cfg.Name)

	// Downstream sink. The broker or database may still be starting up, so
	// construction is retried before giving up.
	sinkLogger := appLogger.Named("sink")
	built, err := helpers.RetryWithBackoff(sinkLogger, "sink setup", 5, time.Second, func() (interface{}, error) {
		return sink.New(cfg.Sink, sinkLogger)
	})
	if err != nil {
		appLogger.Critical("Failed to build sink: %v", err)
	}
	eventSink := built.(interfaces.IEventSink)
	defer eventSink.Close()

	driver := client.NewDriver(cfg.Client, appLogger.Named("driver"), eventSink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		appLogger.Info("Shutting down...")
		cancel()
	}()

	if err := driver.Run(ctx); err != nil && err != context.Canceled {
		appLogger.Error("Forwarder stopped: %v", err)
	}
}
