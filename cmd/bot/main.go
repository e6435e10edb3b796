// Package main is the entry point for the party finder bot.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"party-finder-bot/internal/bot"
	"party-finder-bot/internal/config"
	"party-finder-bot/internal/pkg/db"
	"party-finder-bot/internal/pkg/lock"
	"party-finder-bot/internal/repository"
	"party-finder-bot/internal/server"
	"party-finder-bot/internal/service"
	"party-finder-bot/internal/session"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// A .env file is optional; it feeds the same variables viper reads.
	if err := godotenv.Load(); err == nil {
		log.Info().Msg(".env file loaded")
	}

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log.Info().Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// Run database migrations
	if err := runMigrations(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize the Redis session store
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to redis")
	}
	defer rdb.Close()

	sessions := session.NewStore(rdb, cfg.Session.TTL)

	// Initialize repositories
	userRepo := repository.NewUserRepository(dbPool.Pool)
	heroRepo := repository.NewHeroRepository(dbPool.Pool)
	partyRepo := repository.NewPartyRepository(dbPool.Pool)

	// Initialize services
	registrationService := service.NewRegistrationService(userRepo)
	heroService := service.NewHeroService(heroRepo)
	partyService := service.NewPartyService(partyRepo, heroRepo, cfg.Party.ShortIDLength)
	searchService := service.NewSearchService(userRepo, heroRepo)

	userLock := lock.NewUserLock()

	// Initialize bot
	telegramBot, err := bot.New(&bot.Dependencies{
		Config:       cfg,
		Registration: registrationService,
		Heroes:       heroService,
		Parties:      partyService,
		Search:       searchService,
		Sessions:     sessions,
		UserLock:     userLock,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	// Health and metrics endpoints
	httpServer := server.New(&cfg.HTTP, dbPool, rdb)
	go func() {
		if err := httpServer.Start(); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Msg("Bot is starting...")
		telegramBot.Start()
	}()

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	telegramBot.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	log.Info().Msg("Bot stopped gracefully")
}

// runMigrations executes database migrations.
func runMigrations(ctx context.Context, pool *db.Pool) error {
	log.Info().Msg("Running database migrations...")

	// Migration 1: Create users table
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			telegram_id BIGINT PRIMARY KEY,
			telegram_username VARCHAR(255),
			language VARCHAR(2) NOT NULL DEFAULT 'RU',
			nickname VARCHAR(255),
			game_user_id VARCHAR(255),
			trophies INT NOT NULL DEFAULT 0,
			valor_path INT NOT NULL DEFAULT 0,
			syndicate VARCHAR(255),
			name VARCHAR(255),
			age INT,
			gender VARCHAR(50),
			country VARCHAR(255),
			city VARCHAR(255),
			registration_step VARCHAR(50) NOT NULL DEFAULT 'language',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_users_nickname ON users(LOWER(nickname));
		CREATE INDEX IF NOT EXISTS idx_users_game_user_id ON users(LOWER(game_user_id));
		CREATE INDEX IF NOT EXISTS idx_users_username ON users(LOWER(telegram_username));
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 1: users table created")

	// Migration 2: Create heroes table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS heroes (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(telegram_id) ON DELETE CASCADE,
			class_id VARCHAR(50) NOT NULL,
			hero_id VARCHAR(50) NOT NULL,
			level INT NOT NULL DEFAULT 1,
			battles_played INT NOT NULL DEFAULT 0,
			heroes_killed INT NOT NULL DEFAULT 0,
			win_percentage DOUBLE PRECISION NOT NULL DEFAULT 0,
			heroes_revived INT NOT NULL DEFAULT 0,
			strength INT NOT NULL DEFAULT 0,
			is_primary BOOLEAN NOT NULL DEFAULT FALSE,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (user_id, class_id, hero_id)
		);
		CREATE INDEX IF NOT EXISTS idx_heroes_user ON heroes(user_id);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 2: heroes table created")

	// Migration 3: Create parties and applications tables
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS parties (
			id BIGSERIAL PRIMARY KEY,
			short_id VARCHAR(16) NOT NULL UNIQUE,
			organizer_id BIGINT NOT NULL REFERENCES users(telegram_id) ON DELETE CASCADE,
			game_mode VARCHAR(50) NOT NULL,
			player_count INT NOT NULL,
			class_id VARCHAR(50) NOT NULL,
			hero_id VARCHAR(50) NOT NULL,
			group_message_id INT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_parties_group_message ON parties(group_message_id);
		CREATE INDEX IF NOT EXISTS idx_parties_organizer ON parties(organizer_id);

		CREATE TABLE IF NOT EXISTS party_applications (
			id BIGSERIAL PRIMARY KEY,
			party_id BIGINT NOT NULL REFERENCES parties(id) ON DELETE CASCADE,
			applicant_id BIGINT NOT NULL REFERENCES users(telegram_id) ON DELETE CASCADE,
			class_id VARCHAR(50) NOT NULL,
			hero_id VARCHAR(50) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (party_id, applicant_id)
		);
		CREATE INDEX IF NOT EXISTS idx_applications_party_status ON party_applications(party_id, status);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 3: parties tables created")

	log.Info().Msg("All migrations completed successfully")
	return nil
}
