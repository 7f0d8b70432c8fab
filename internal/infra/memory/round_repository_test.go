package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"convention-quiz/internal/domain"
)

func TestRoundRepositoryCaches(t *testing.T) {
	loader := &countingLoader{RoundLoader: NewStaticLoader(sampleRound())}
	repo := NewRoundRepository(loader, time.Minute)

	if _, err := repo.GetRound(context.Background(), "round1"); err != nil {
		t.Fatalf("get round: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetRound(context.Background(), "round1"); err != nil {
		t.Fatalf("get round 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestRoundRepositoryExpires(t *testing.T) {
	loader := &countingLoader{RoundLoader: NewStaticLoader(sampleRound())}
	repo := NewRoundRepository(loader, time.Minute)
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	_, _ = repo.GetRound(context.Background(), "round1")
	now = now.Add(2 * time.Minute)
	_, _ = repo.GetRound(context.Background(), "round1")
	if loader.calls != 2 {
		t.Fatalf("expected reload after ttl, got %d calls", loader.calls)
	}
}

func TestRoundRepositoryNotFound(t *testing.T) {
	repo := NewRoundRepository(NewStaticLoader(sampleRound()), time.Minute)
	_, err := repo.GetRound(context.Background(), "round9")
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) || nf.RoundID != "round9" {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if !errors.Is(err, domain.ErrRoundNotFound) {
		t.Fatalf("expected ErrRoundNotFound in chain")
	}
}

func TestStaticLoaderListsInOrder(t *testing.T) {
	second := sampleRound()
	second.ID, second.Kind, second.Title = "round2", domain.KindBoard, "Round 2"
	loader := NewStaticLoader(sampleRound(), second)
	list, err := loader.ListRounds(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "round1" || list[1].Kind != domain.KindBoard {
		t.Fatalf("unexpected menu %+v", list)
	}
}

type countingLoader struct {
	RoundLoader
	calls int
}

func (l *countingLoader) LoadRound(ctx context.Context, roundID string) (domain.Round, error) {
	l.calls++
	return l.RoundLoader.LoadRound(ctx, roundID)
}

func sampleRound() domain.Round {
	return domain.Round{
		ID:    "round1",
		Kind:  domain.KindSequential,
		Title: "Round 1",
		Questions: []domain.QuestionRecord{
			{
				ID:     "1",
				Prompt: "Who built the ark?",
				Options: domain.Options{
					{Label: "a", Text: "Moses"},
					{Label: "b", Text: "Noah"},
				},
				CorrectLabel: "b",
			},
		},
	}
}
