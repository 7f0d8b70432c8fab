package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"convention-quiz/internal/domain"
)

// RoundLoader fetches question banks from a backing store (files, Postgres).
type RoundLoader interface {
	LoadRound(ctx context.Context, roundID string) (domain.Round, error)
	ListRounds(ctx context.Context) ([]domain.RoundSummary, error)
}

// RoundRepository caches rounds with TTL to avoid repeated loads.
type RoundRepository struct {
	loader RoundLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedRound
}

type cachedRound struct {
	round     domain.Round
	expiresAt time.Time
}

// NewRoundRepository wraps loader. A ttl of zero disables caching.
func NewRoundRepository(loader RoundLoader, ttl time.Duration) *RoundRepository {
	return &RoundRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedRound),
	}
}

func (r *RoundRepository) GetRound(ctx context.Context, roundID string) (domain.Round, error) {
	if round, ok := r.cached(roundID); ok {
		return round, nil
	}

	result, err, _ := r.sf.Do(roundID, func() (interface{}, error) {
		if round, ok := r.cached(roundID); ok {
			return round, nil
		}

		round, err := r.loader.LoadRound(ctx, roundID)
		if err != nil {
			return domain.Round{}, err
		}

		if ttl := r.ttlWithJitter(); ttl > 0 {
			r.mu.Lock()
			r.cache[roundID] = cachedRound{round: round, expiresAt: r.clock().Add(ttl)}
			r.mu.Unlock()
		}
		return round, nil
	})
	if err != nil {
		return domain.Round{}, err
	}
	return result.(domain.Round), nil
}

// ListRounds is not cached; menus are cheap and should reflect the catalog.
func (r *RoundRepository) ListRounds(ctx context.Context) ([]domain.RoundSummary, error) {
	return r.loader.ListRounds(ctx)
}

func (r *RoundRepository) cached(roundID string) (domain.Round, bool) {
	now := r.clock()
	r.mu.RLock()
	defer r.mu.RUnlock()
	if entry, ok := r.cache[roundID]; ok && entry.expiresAt.After(now) {
		return entry.round, true
	}
	return domain.Round{}, false
}

func (r *RoundRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticLoader is a simple loader backed by an in-memory map (useful for tests/demos).
type StaticLoader struct {
	rounds map[string]domain.Round
	order  []string
}

// NewStaticLoader serves rounds in the given order. Rounds are expected to be normalized.
func NewStaticLoader(rounds ...domain.Round) *StaticLoader {
	l := &StaticLoader{rounds: make(map[string]domain.Round, len(rounds))}
	for _, r := range rounds {
		if _, dup := l.rounds[r.ID]; !dup {
			l.order = append(l.order, r.ID)
		}
		l.rounds[r.ID] = r
	}
	return l
}

func (l *StaticLoader) LoadRound(_ context.Context, roundID string) (domain.Round, error) {
	if round, ok := l.rounds[roundID]; ok {
		return round, nil
	}
	return domain.Round{}, &domain.NotFoundError{RoundID: roundID}
}

func (l *StaticLoader) ListRounds(_ context.Context) ([]domain.RoundSummary, error) {
	out := make([]domain.RoundSummary, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.rounds[id].Summary())
	}
	return out, nil
}
