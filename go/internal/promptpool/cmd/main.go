package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/teamquiz/go/internal/config"
	"github.com/mcdev12/teamquiz/go/internal/promptpool"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	config.SetupLogging()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	poolCfg := cfg.PromptPool

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, closeRepo, err := setupRepository(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("store", poolCfg.Store).Msg("failed to set up prompt store")
	}
	defer closeRepo()

	app, err := promptpool.NewApp(ctx, repo, promptpool.Options{
		BasePrompts:  poolCfg.BasePrompts,
		TimerSeconds: poolCfg.TimerSeconds,
		MinLength:    poolCfg.MinPromptLength,
		MaxLength:    poolCfg.MaxPromptLength,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load prompt pool")
	}

	mux := http.NewServeMux()
	promptpool.NewService(app).RegisterRoutes(mux)

	checker, _ := repo.(promptpool.HealthChecker)
	promptpool.RegisterHealth(mux, checker)

	mux.HandleFunc("/info", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"service":"prompt-pool","store":%q,"prompts":%d}`, poolCfg.Store, app.Count())
	})

	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", poolCfg.Port),
		Handler:      c.Handler(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Str("store", poolCfg.Store).
			Int("prompts", app.Count()).
			Msg("prompt pool starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	log.Info().Msg("prompt pool shutdown complete")
}

func setupRepository(ctx context.Context, cfg *config.Config) (promptpool.Repository, func(), error) {
	if cfg.PromptPool.Store != config.StorePostgres {
		repo, err := promptpool.NewFileRepository(cfg.PromptPool.FilePath)
		return repo, func() {}, err
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	repo, err := promptpool.NewPostgresRepository(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}

	log.Info().
		Str("database", cfg.Database.Database).
		Str("host", cfg.Database.Host).
		Msg("connected to database")
	return repo, pool.Close, nil
}
