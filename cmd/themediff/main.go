package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aleister1102/themediff/internal/config"
	"github.com/aleister1102/themediff/internal/datastore"
	"github.com/aleister1102/themediff/internal/differ"
	"github.com/aleister1102/themediff/internal/limiter"
	"github.com/aleister1102/themediff/internal/logger"
	"github.com/aleister1102/themediff/internal/reconciler"
	"github.com/aleister1102/themediff/internal/scanner"
	"github.com/aleister1102/themediff/internal/server"
	"github.com/aleister1102/themediff/internal/themestore"
)

func main() {
	fmt.Println("themediff starting...")

	configFile := flag.String("config", "", "Path to the YAML/JSON configuration file. If not set, searches default locations.")
	configFileAlias := flag.String("c", "", "Alias for --config")

	portFlag := flag.Int("port", 0, "HTTP port to listen on (overrides config file if set)")
	portFlagAlias := flag.Int("p", 0, "Alias for --port")
	flag.Parse()

	// Consolidate alias flags
	if *configFile == "" && *configFileAlias != "" {
		*configFile = *configFileAlias
	}
	if *portFlag == 0 && *portFlagAlias != 0 {
		*portFlag = *portFlagAlias
	}

	gCfg, err := config.LoadGlobalConfig(*configFile)
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not load config using path '%s': %v", *configFile, err)
	}

	if *portFlag != 0 {
		gCfg.ServerConfig.Port = *portFlag
	}

	if err := config.ValidateConfig(gCfg); err != nil {
		log.Fatalf("[FATAL] Main: Configuration validation failed: %v", err)
	}

	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not initialize logger: %v", err)
	}
	zLogger.Info().Msg("Logger initialized successfully")

	// Fetch queue: every remote call in the process serializes through it.
	queue := limiter.NewFetchQueue(limiter.Config{
		MinInterval: time.Duration(gCfg.FetchConfig.MinIntervalMs) * time.Millisecond,
		MaxRetries:  gCfg.FetchConfig.MaxRetries,
	}, zLogger)
	defer queue.Close()

	store, err := themestore.NewStore(gCfg.StoreConfig, queue, zLogger)
	if err != nil {
		zLogger.Fatal().Err(err).Msg("Failed to initialize theme store client")
	}
	if !store.HasCredentials() {
		zLogger.Warn().Msg("No access token configured, comparison endpoints will reject requests")
	}

	repo, err := datastore.NewComparisonStore(gCfg.StorageConfig, zLogger)
	if err != nil {
		zLogger.Fatal().Err(err).Msg("Failed to open comparison store")
	}

	engine := differ.NewEngine()
	scan := scanner.NewScanner(store, reconciler.NewReconciler(store, zLogger), engine, gCfg.DiffConfig, zLogger)

	srv := server.NewServer(gCfg.ServerConfig, store, scan, engine, repo, zLogger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zLogger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			zLogger.Error().Err(err).Msg("Server shutdown failed")
		}
	case err := <-errCh:
		if err != nil {
			zLogger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}

	zLogger.Info().Msg("themediff stopped")
}
