package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"convention-quiz/internal/infra/file"
	pgstore "convention-quiz/internal/infra/postgres"
	redisstore "convention-quiz/internal/infra/redis"
)

// NewImportCmd upserts the file catalog into Postgres.
func NewImportCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Load every configured round file and upsert it into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), *configPath)
		},
	}
}

func runImport(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	if len(cfg.Rounds) == 0 {
		return fmt.Errorf("no rounds configured")
	}
	log, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer log.Sync()

	loader := file.NewLoader(cfg)
	rounds, err := loader.LoadAll(ctx)
	if err != nil {
		return err
	}

	db := pgstore.OpenBun(cfg.Postgres.URL)
	defer db.Close()
	if _, err := pgstore.Migrate(ctx, db); err != nil {
		return err
	}
	if err := pgstore.NewRoundWriter(db).Upsert(ctx, rounds...); err != nil {
		return err
	}
	log.Info("rounds imported", zap.Int("rounds", len(rounds)))

	// drop cached copies so the next load reads the new rows
	if cfg.Redis.Addr != "" {
		client := newRedisClient(cfg.Redis)
		defer client.Close()
		cache := redisstore.NewRoundRepository(client, loader, cfg.Quiz.CacheTTL, log)
		for _, r := range rounds {
			if err := cache.Invalidate(ctx, r.ID); err != nil {
				log.Warn("invalidate cached round", zap.String("round", r.ID), zap.Error(err))
			}
		}
	}
	return nil
}
