package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"convention-quiz/internal/domain"
	"convention-quiz/internal/infra/memory"
)

func TestRoundRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	loader := &countingLoader{RoundLoader: memory.NewStaticLoader(sampleRound())}
	repo := NewRoundRepository(client, loader, time.Minute, nil)

	first, err := repo.GetRound(context.Background(), "round2")
	if err != nil {
		t.Fatalf("get round: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("round:round2") {
		t.Fatalf("expected round cached under round:round2")
	}

	// Second call should hit cache, loader not incremented.
	second, err := repo.GetRound(context.Background(), "round2")
	if err != nil {
		t.Fatalf("get cached round: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if labels := second.Questions[0].Options.Labels(); len(labels) != 3 || labels[0] != "c" {
		t.Fatalf("expected option order to survive the cache, got %v", labels)
	}
	if second.Questions[0].Category != first.Questions[0].Category {
		t.Fatalf("cached round differs: %+v", second.Questions[0])
	}

	// Expired entries are reloaded.
	mr.FastForward(2 * time.Minute)
	_, _ = repo.GetRound(context.Background(), "round2")
	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, loader calls=%d", loader.calls)
	}

	if err := repo.Invalidate(context.Background(), "round2"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if mr.Exists("round:round2") {
		t.Fatalf("expected key removed after invalidate")
	}
}

func TestRoundRepositoryPassesNotFound(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	repo := NewRoundRepository(newClient(mr), memory.NewStaticLoader(sampleRound()), time.Minute, nil)
	if _, err := repo.GetRound(context.Background(), "missing"); !errors.Is(err, domain.ErrRoundNotFound) {
		t.Fatalf("expected ErrRoundNotFound, got %v", err)
	}
	if mr.Exists("round:missing") {
		t.Fatalf("misses must not be cached")
	}
}

func TestRoundRepositoryServesWhenRedisDown(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	client := newClient(mr)
	mr.Close()

	repo := NewRoundRepository(client, memory.NewStaticLoader(sampleRound()), time.Minute, nil)
	if _, err := repo.GetRound(context.Background(), "round2"); err != nil {
		t.Fatalf("expected loader fallback, got %v", err)
	}
}

type countingLoader struct {
	memory.RoundLoader
	calls int
}

func (l *countingLoader) LoadRound(ctx context.Context, roundID string) (domain.Round, error) {
	l.calls++
	return l.RoundLoader.LoadRound(ctx, roundID)
}

func sampleRound() domain.Round {
	return domain.Round{
		ID:    "round2",
		Kind:  domain.KindBoard,
		Title: "Round 2",
		Questions: []domain.QuestionRecord{
			{
				ID:       "1",
				Category: "Prophets",
				Prompt:   "Who was swallowed by a great fish?",
				Options: domain.Options{
					{Label: "c", Text: "Jonah"},
					{Label: "a", Text: "Elijah"},
					{Label: "b", Text: "Elisha"},
				},
				CorrectLabel: "c",
			},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
