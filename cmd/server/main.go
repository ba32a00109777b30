package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trade-relay/src/config"
	"trade-relay/src/feed"
	"trade-relay/src/interfaces"
	"trade-relay/src/logger"
	"trade-relay/src/provider/sim"
	"trade-relay/src/registry"
	"trade-relay/src/server"
	"trade-relay/src/utils"
)

// -----------------------------------------------------------------------------

const shutdownTimeout = 5 * time.Second

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
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(cfg.LogLevel, cfg.Name)

	// Upstream provider
	var provider interfaces.ITradeProvider
	switch cfg.Provider.Kind {
	case "", "sim":
		provider = sim.NewSimProvider(cfg.Provider, appLogger.Named("sim"))
	default:
		appLogger.Critical("Unknown provider kind: %s", cfg.Provider.Kind)
	}

	// Core components
	reg := registry.NewRegistry()
	metrics := feed.NewMetrics()

	priceInterval := time.Duration(cfg.Feed.PriceIntervalSeconds * float64(time.Second))
	tradeInterval := time.Duration(cfg.Feed.TradeIntervalSeconds * float64(time.Second))
	dealLookback := time.Duration(cfg.Feed.DealLookbackHours) * time.Hour
	replayLookback := time.Duration(cfg.Feed.ReplayLookbackDays) * 24 * time.Hour

	poller := feed.NewQuotePoller(provider, reg, appLogger.Named("quotes"), priceInterval, metrics)
	if cfg.Feed.RespectMarketHours {
		poller.Hours = utils.NewMarketHours(cfg.Provider.Symbols, appLogger.Named("hours"))
	}

	reconciler := feed.NewTradeReconciler(provider, reg, appLogger.Named("trades"),
		tradeInterval, dealLookback, cfg.Feed.HistoryCap, metrics)

	replayer := feed.NewReplayer(provider, appLogger.Named("replay"), replayLookback, metrics)

	srv := server.NewServer(cfg.MConfig, appLogger.Named("ws"), reg, replayer, metrics)

	// Run
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go poller.Run(ctx)
	go reconciler.Run(ctx)

	go func() {
		if err := srv.Start(); err != nil {
			appLogger.Critical("Server failed: %v", err)
		}
	}()

	appLogger.Info("%s running on %s:%d", cfg.Name, cfg.Host, cfg.Port)

	// Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		appLogger.Error("Shutdown error: %v", err)
	}
}
