package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/fisiolab/fisiosearch/pkg/api"
	"github.com/fisiolab/fisiosearch/pkg/config"
	"github.com/fisiolab/fisiosearch/pkg/lib/log"
	"github.com/fisiolab/fisiosearch/pkg/search"
	"github.com/fisiolab/fisiosearch/pkg/storage/postgres"
)

func main() {
	if err := run(); err != nil {
		panic(err)
	}
}

func run() error {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := log.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	ctx := context.Background()
	server, err := initServer(ctx, logger, cfg)
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}

	logger.Info().
		Str("host", cfg.API.Host).
		Uint16("port", cfg.API.Port).
		Msg("starting search server")

	if err := server.Start(); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	return nil
}

func initServer(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) (*api.Server, error) {
	db := postgres.NewDB(&cfg.DB)
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	exerciseRepo := postgres.NewExerciseRepository(db, logger)

	// The result cache has no ambient singleton: it is constructed here and
	// injected, living for the process lifetime.
	resultCache := search.NewResultCache(cfg.Search.CacheTTL, cfg.Search.CacheMaxEntries, logger)

	engine := search.NewEngine(logger, &cfg.Search, exerciseRepo, resultCache)

	return api.NewServer(logger, &cfg.API, engine), nil
}
