package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mkondo/teamlink/internal/dbconfig"
	"github.com/mkondo/teamlink/internal/outbox"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := loadConfig(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	dbCfg := dbconfig.NewConfigFromEnv()
	database, err := setupDatabase(dbCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	services := setupServices(database)
	server := setupServer(cfg, services)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start the outbox relay so chat messages committed by the handlers
	// reach the event stream.
	go startOutboxRelay(ctx, cfg, dbCfg, database)

	go func() {
		log.Info().Str("addr", server.Addr).Msg("API server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	cancel()
	time.Sleep(1 * time.Second)

	log.Info().Msg("API server shutdown complete")
}

func startOutboxRelay(ctx context.Context, cfg *Config, dbCfg dbconfig.Config, database *sql.DB) {
	publisher, err := outbox.NewJetStreamPublisher(cfg.jetStreamConfig())
	if err != nil {
		log.Error().Err(err).Msg("failed to create JetStream publisher, chat events will not be relayed")
		return
	}
	defer publisher.Close()

	listener, err := outbox.NewListener(database, publisher, cfg.listenerConfig(dbCfg.DSN()))
	if err != nil {
		log.Error().Err(err).Msg("failed to create outbox listener")
		return
	}

	if err := listener.Start(ctx); err != nil {
		log.Error().Err(err).Msg("outbox relay stopped")
	}
}
