package cli

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"convention-quiz/internal/app"
	"convention-quiz/internal/config"
	"convention-quiz/internal/infra/file"
	"convention-quiz/internal/infra/memory"
	pgstore "convention-quiz/internal/infra/postgres"
	redisstore "convention-quiz/internal/infra/redis"
	"convention-quiz/internal/logger"
	"convention-quiz/internal/metrics"
)

// runtime is the wiring shared by the start and present commands.
type runtime struct {
	cfg      config.Config
	log      *zap.Logger
	metrics  *metrics.Metrics
	rounds   app.RoundRepository
	sessions app.SessionRepository
	closers  []func()
}

func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(cfg config.Config, fileOnly bool) (*zap.Logger, error) {
	log, err := logger.New(cfg.Log, logger.Options{FileOnly: fileOnly})
	if err != nil {
		return nil, err
	}
	return log, nil
}

// newRuntime picks the question bank source and the cache/session backends.
// Postgres wins over the file catalog; with neither, the built-in sample
// rounds are served. Redis, when configured, caches rounds and marks sessions.
func newRuntime(ctx context.Context, cfg config.Config, log *zap.Logger, m *metrics.Metrics) (*runtime, error) {
	rt := &runtime{cfg: cfg, log: log, metrics: m}

	var loader memory.RoundLoader
	switch {
	case cfg.Postgres.URL != "":
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		rt.closers = append(rt.closers, pool.Close)
		loader = pgstore.NewRoundLoader(pool)
		log.Info("question banks from postgres")
	case len(cfg.Rounds) > 0:
		loader = file.NewLoader(cfg)
		log.Info("question banks from files", zap.Int("rounds", len(cfg.Rounds)))
	default:
		loader = memory.NewStaticLoader(sampleRounds()...)
		log.Warn("no rounds configured, serving the built-in sample rounds")
	}

	if cfg.Redis.Addr != "" {
		client := newRedisClient(cfg.Redis)
		rt.closers = append(rt.closers, func() { _ = client.Close() })
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, rounds are served from the loader", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		rt.rounds = redisstore.NewRoundRepository(client, loader, cfg.Quiz.CacheTTL, log)
		rt.sessions = redisstore.NewSessionStore(client, cfg.Redis.TTL)
	} else {
		rt.rounds = memory.NewRoundRepository(loader, cfg.Quiz.CacheTTL)
		rt.sessions = memory.NewSessionStore()
	}
	return rt, nil
}

func newRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func (rt *runtime) service() *app.PresenterService {
	return app.NewPresenterService(rt.sessions, rt.rounds, app.ShellConfig{
		Passcode:       rt.cfg.Auth.Passcode,
		ConventionName: rt.cfg.Branding.ConventionName,
		TimerSeconds:   rt.cfg.Quiz.TimerSeconds,
		Celebration:    rt.cfg.Quiz.Celebration,
		Keys:           rt.cfg.Quiz.Keys,
		Logger:         rt.log,
		Metrics:        rt.metrics,
	})
}

func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
}
