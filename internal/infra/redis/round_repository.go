package redis

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"convention-quiz/internal/domain"
)

// RoundLoader fetches question banks from a backing store (files, Postgres).
type RoundLoader interface {
	LoadRound(ctx context.Context, roundID string) (domain.Round, error)
	ListRounds(ctx context.Context) ([]domain.RoundSummary, error)
}

// RoundRepository caches whole rounds in Redis and falls back to a loader on cache miss.
// Rounds are stored as JSON: SET round:{roundID} {json} EX ttl
type RoundRepository struct {
	client *redis.Client
	loader RoundLoader
	ttl    time.Duration
	log    *zap.Logger
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewRoundRepository(client *redis.Client, loader RoundLoader, ttl time.Duration, log *zap.Logger) *RoundRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &RoundRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		log:    log,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *RoundRepository) GetRound(ctx context.Context, roundID string) (domain.Round, error) {
	if round, ok := r.fromCache(ctx, roundID); ok {
		return round, nil
	}

	result, err, _ := r.sf.Do(roundID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if round, ok := r.fromCache(ctx, roundID); ok {
			return round, nil
		}

		round, err := r.loader.LoadRound(ctx, roundID)
		if err != nil {
			return domain.Round{}, err
		}

		data, err := json.Marshal(round)
		if err != nil {
			return domain.Round{}, err
		}
		// best-effort: a cache write failure still serves the loaded round
		if err := r.client.Set(ctx, r.key(roundID), data, r.ttlWithJitter()).Err(); err != nil {
			r.log.Warn("cache round", zap.String("round", roundID), zap.Error(err))
		}
		return round, nil
	})
	if err != nil {
		return domain.Round{}, err
	}
	return result.(domain.Round), nil
}

func (r *RoundRepository) ListRounds(ctx context.Context) ([]domain.RoundSummary, error) {
	return r.loader.ListRounds(ctx)
}

// Invalidate drops the cached copy of a round, e.g. after an import.
func (r *RoundRepository) Invalidate(ctx context.Context, roundID string) error {
	return r.client.Del(ctx, r.key(roundID)).Err()
}

func (r *RoundRepository) fromCache(ctx context.Context, roundID string) (domain.Round, bool) {
	data, err := r.client.Get(ctx, r.key(roundID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn("read cached round", zap.String("round", roundID), zap.Error(err))
		}
		return domain.Round{}, false
	}
	var round domain.Round
	if err := json.Unmarshal(data, &round); err != nil {
		r.log.Warn("decode cached round", zap.String("round", roundID), zap.Error(err))
		return domain.Round{}, false
	}
	return round, true
}

func (r *RoundRepository) key(roundID string) string {
	return "round:" + roundID
}

func (r *RoundRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
