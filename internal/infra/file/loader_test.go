package file

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"convention-quiz/internal/config"
	"convention-quiz/internal/domain"
)

func testConfig(rounds ...config.RoundSource) config.Config {
	return config.Config{Dir: "testdata", Rounds: rounds}
}

func TestLoadRoundJSONWithInstructions(t *testing.T) {
	loader := NewLoader(testConfig(config.RoundSource{
		ID:           "round1",
		Kind:         domain.KindSequential,
		Title:        "Round 1",
		Questions:    "round1.json",
		Instructions: "instructions-round1.md",
	}))

	r, err := loader.LoadRound(context.Background(), "round1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(r.Questions) != 2 || r.Questions[0].ID != "1" || r.Questions[1].ID != "2" {
		t.Fatalf("expected positional ids, got %+v", r.Questions)
	}
	if r.Questions[1].CorrectLabel != "b" {
		t.Fatalf("expected normalized answer label, got %q", r.Questions[1].CorrectLabel)
	}
	want, _ := os.ReadFile("testdata/instructions-round1.md")
	if r.Instructions != string(want) {
		t.Fatalf("expected verbatim instructions, got %q", r.Instructions)
	}
}

func TestLoadRoundYAMLBothOptionForms(t *testing.T) {
	loader := NewLoader(testConfig(config.RoundSource{ID: "round2", Kind: domain.KindBoard, Questions: "round2.yaml"}))
	r, err := loader.LoadRound(context.Background(), "round2")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if r.Title != "round2" {
		t.Fatalf("expected title to default to id, got %q", r.Title)
	}
	if got := strings.Join(r.Questions[0].Options.Labels(), ","); got != "c,a" {
		t.Fatalf("expected mapping order c,a, got %s", got)
	}
	if r.Questions[1].CorrectText() != "Solomon" || r.Questions[1].Category != "Kings" {
		t.Fatalf("unexpected list-form record %+v", r.Questions[1])
	}
}

func TestLoadRoundErrors(t *testing.T) {
	loader := NewLoader(testConfig(
		config.RoundSource{ID: "typo", Kind: domain.KindSequential, Questions: "typo.json"},
		config.RoundSource{ID: "invalid", Kind: domain.KindSequential, Questions: "invalid.json"},
		config.RoundSource{ID: "missing", Kind: domain.KindSequential, Questions: "missing.json"},
	))
	ctx := context.Background()

	if _, err := loader.LoadRound(ctx, "nope"); !errors.Is(err, domain.ErrRoundNotFound) {
		t.Fatalf("expected ErrRoundNotFound, got %v", err)
	}
	if _, err := loader.LoadRound(ctx, "typo"); err == nil || !strings.Contains(err.Error(), "answr") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	_, err := loader.LoadRound(ctx, "invalid")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || len(verr.Issues) < 3 {
		t.Fatalf("expected collected validation issues, got %v", err)
	}

	rounds, err := loader.LoadAll(ctx)
	if err == nil || len(rounds) != 0 {
		t.Fatalf("expected every round to fail, got %d rounds err=%v", len(rounds), err)
	}
	if !strings.Contains(err.Error(), "missing") {
		t.Fatalf("expected missing file to be reported, got %v", err)
	}
}

func TestListRoundsFollowsCatalog(t *testing.T) {
	loader := NewLoader(testConfig(
		config.RoundSource{ID: "round1", Kind: domain.KindSequential, Title: "Round 1", Questions: "round1.json"},
		config.RoundSource{ID: "round2", Kind: domain.KindBoard, Questions: "round2.yaml"},
	))
	list, err := loader.ListRounds(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Title != "Round 1" || list[1].Title != "round2" || list[1].Kind != domain.KindBoard {
		t.Fatalf("unexpected menu %+v", list)
	}
}
