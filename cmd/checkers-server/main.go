// Package main implements the checkers server: a JSON API over the rules
// engine with a computer opponent and an optional results database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"checkers/cmd/checkers-server/cli"
	"checkers/internal/config"
	"checkers/internal/server/http"
	"checkers/internal/server/processor"
	"checkers/internal/server/service"
	"checkers/internal/server/storage"

	"github.com/rs/zerolog/log"
)

const (
	gracefulShutdownTimeout = time.Second * 5
)

func main() {
	// Check for CLI database commands
	if len(os.Args) > 1 && os.Args[1] == "db" {
		if err := cli.Run(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "CLI error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// Command-line flags override the environment
	flag.StringVar(&cfg.APIHost, "api-host", cfg.APIHost, "API server host")
	flag.IntVar(&cfg.APIPort, "api-port", cfg.APIPort, "API server port")
	flag.BoolVar(&cfg.Dev, "dev", cfg.Dev, "Development mode (relaxed rate limits, console logs)")
	flag.StringVar(&cfg.StoragePath, "storage-path", cfg.StoragePath, "Path to SQLite results database (disables results if empty)")
	flag.StringVar(&cfg.PIDPath, "pid", cfg.PIDPath, "Optional path to write PID file")
	flag.BoolVar(&cfg.PIDLock, "pid-lock", cfg.PIDLock, "Lock PID file to allow only one instance (requires -pid)")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.IntVar(&cfg.AIWorkers, "ai-workers", cfg.AIWorkers, "Computer move workers")
	flag.DurationVar(&cfg.AITurnDelay, "ai-turn-delay", cfg.AITurnDelay, "Delay before the computer moves")
	flag.DurationVar(&cfg.AIJumpDelay, "ai-jump-delay", cfg.AIJumpDelay, "Delay between jumps of a computer capture chain")
	flag.Uint64Var(&cfg.AISeed, "ai-seed", cfg.AISeed, "Computer move seed (0 seeds from the clock)")
	flag.IntVar(&cfg.MaxComputerGames, "max-computer-games", cfg.MaxComputerGames, "Concurrent games against the computer")
	flag.Parse()

	if err := config.SetupLogger(cfg.LogLevel, cfg.Dev); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// Manage PID file if requested
	if cfg.PIDPath != "" {
		cleanup, err := managePIDFile(cfg.PIDPath, cfg.PIDLock)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to manage PID file")
		}
		defer cleanup()
		log.Info().Str("path", cfg.PIDPath).Bool("lock", cfg.PIDLock).Msg("PID file created")
	}

	// 1. Initialize Storage (optional)
	var store *storage.Store
	if cfg.StoragePath != "" {
		log.Info().Str("path", cfg.StoragePath).Msg("initializing results storage")
		store, err = storage.NewStore(cfg.StoragePath, cfg.Dev)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize storage")
		}
		if err := store.InitDB(); err != nil {
			log.Fatal().Err(err).Msg("failed to initialize schema")
		}
	} else {
		log.Info().Msg("results storage disabled (use -storage-path to enable)")
	}

	// 2. Initialize the Service; it owns and closes the store
	svc := service.New(store, service.Options{
		MaxComputerGames: cfg.MaxComputerGames,
	})

	// 3. Initialize the Processor with its computer worker pool
	proc := processor.New(svc, processor.Options{
		Workers:   cfg.AIWorkers,
		Seed:      cfg.Seed(),
		TurnDelay: cfg.AITurnDelay,
		JumpDelay: cfg.AIJumpDelay,
	})

	// 4. Initialize the Fiber App/HTTP Handler
	app := http.NewFiberApp(proc, svc, cfg.Dev)

	apiAddr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)

	go func() {
		log.Info().
			Str("addr", "http://"+apiAddr).
			Bool("dev", cfg.Dev).
			Int("aiWorkers", cfg.AIWorkers).
			Dur("aiTurnDelay", cfg.AITurnDelay).
			Dur("aiJumpDelay", cfg.AIJumpDelay).
			Bool("storage", store != nil).
			Msg("checkers API server starting")

		if err := app.Listen(apiAddr); err != nil {
			log.Error().Err(err).Msg("API server listen error")
		}
	}()

	// Wait for an interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer shutdownCancel()

	if err = app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("server forced to shutdown")
	}

	// Stop computer moves before the games go away
	if err = proc.Close(); err != nil {
		log.Warn().Err(err).Msg("processor close error")
	}

	if err = svc.Shutdown(gracefulShutdownTimeout); err != nil {
		log.Warn().Err(err).Msg("service shutdown error")
	}

	log.Info().Msg("server exited")
}
